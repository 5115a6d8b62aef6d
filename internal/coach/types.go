package coach

// Purposes recorded on LLM request events.
const (
	PurposeRoadmap         = "roadmap"
	PurposeSyllabusRoadmap = "syllabus-roadmap"
	PurposeMentor          = "mentor"
	PurposeResources       = "resources"
)

// CareerInput describes the learner for a career roadmap.
type CareerInput struct {
	CareerPath      string `validate:"required,max=200"`
	CurrentSkills   string
	Goals           string
	ExperienceLevel string `validate:"omitempty,oneof=beginner intermediate advanced"`
	Timeline        string
}

// SyllabusInput is a pasted curriculum turned into a study plan.
type SyllabusInput struct {
	SyllabusContent   string `validate:"required,min=10"`
	TotalDuration     string `validate:"required"`
	StudyHoursPerWeek int    `validate:"min=1,max=168"`
	PriorityFocus     string
	ExamDate          string
	CurrentProgress   string
}

// GeneratedRoadmap is the result of either roadmap flow.
type GeneratedRoadmap struct {
	Roadmap           string `json:"roadmap"`
	EstimatedDuration string `json:"estimatedDuration"`
	DifficultyLevel   string `json:"difficultyLevel"`
}

// MentorInput is the learner context sent to the mentor.
type MentorInput struct {
	UserProgress   string `validate:"required"`
	LearningGoals  string `validate:"required"`
	Challenges     string
	RecentActivity string
}

// Guidance is the mentor's reply.
type Guidance struct {
	Guidance   string `json:"guidance"`
	NextSteps  string `json:"nextSteps"`
	Motivation string `json:"motivation"`
}

// ResourceInput asks for learning material on one topic.
type ResourceInput struct {
	Topic         string `validate:"required"`
	UserLevel     string
	LearningStyle string
}

// Resource is a single course, article, community or certification.
type Resource struct {
	Type          string `json:"type"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	Description   string `json:"description"`
	Difficulty    string `json:"difficulty"`
	EstimatedTime string `json:"estimatedTime"`
	Price         string `json:"price,omitempty"`
}

// Resources is the curated material for a topic.
type Resources struct {
	Topic              string     `json:"-"`
	TopicOverview      string     `json:"topicOverview"`
	LearningPath       string     `json:"learningPath"`
	FreeResources      []Resource `json:"freeResources"`
	PremiumResources   []Resource `json:"premiumResources"`
	PracticeProjects   []string   `json:"practiceProjects"`
	Certifications     []Resource `json:"certifications"`
	CommunityResources []Resource `json:"communityResources"`
}
