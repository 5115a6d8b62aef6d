package coach

import (
	"fmt"
	"strings"
)

const roadmapSystemPrompt = `You are an expert career coach and technology educator who writes comprehensive, actionable learning roadmaps.`

func buildRoadmapUserMessage(in CareerInput) string {
	var b strings.Builder

	b.WriteString("User Input:\n")
	b.WriteString(fmt.Sprintf("- Desired Career Path: %s\n", in.CareerPath))
	b.WriteString(fmt.Sprintf("- Current Skills: %s\n", orNone(in.CurrentSkills)))
	b.WriteString(fmt.Sprintf("- Goals: %s\n", orNone(in.Goals)))
	b.WriteString(fmt.Sprintf("- Experience Level: %s\n", orNone(in.ExperienceLevel)))
	b.WriteString(fmt.Sprintf("- Timeline: %s\n", orNone(in.Timeline)))

	b.WriteString(`
Instructions:
Create a roadmap that:
1. Breaks learning into phases (Phase 1, Phase 2, ...), each with specific skills and milestones.
2. Gives realistic time estimates for each phase.
3. Says briefly why each skill matters.
4. Suggests practical projects that apply the knowledge.
5. Fits the user's current level and timeline.

Use exactly this markdown structure:
# Career Roadmap: [Career Path]

## Phase 1: [Title] (Weeks 1-X)
### Skills to Acquire:
- Skill 1: Description and importance
- Skill 2: Description and importance

### Milestones:
- Project 1: Brief description
- Project 2: Brief description

## Phase 2: [Title] (Weeks X-Y)
[Continue the pattern]
`)
	b.WriteString(fmt.Sprintf("\nReplace [Career Path] with %q.", in.CareerPath))

	return b.String()
}

const syllabusSystemPrompt = `You are an expert study planner. You turn a syllabus, curriculum or todo list into a prioritized study schedule.`

func buildSyllabusUserMessage(in SyllabusInput) string {
	var b strings.Builder

	b.WriteString("Syllabus:\n")
	b.WriteString(strings.TrimSpace(in.SyllabusContent))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Total Duration: %s\n", in.TotalDuration))
	b.WriteString(fmt.Sprintf("Study Hours Per Week: %d\n", in.StudyHoursPerWeek))
	b.WriteString(fmt.Sprintf("Priority Focus: %s\n", orNone(in.PriorityFocus)))
	b.WriteString(fmt.Sprintf("Exam Date: %s\n", orNone(in.ExamDate)))
	b.WriteString(fmt.Sprintf("Current Progress: %s\n", orNone(in.CurrentProgress)))

	b.WriteString(`
Instructions:
1. Identify the topics in the syllabus and order them by dependency and importance.
2. Put the priority focus first when one is given. Skip topics already covered in the current progress.
3. Split the plan into phases that fit the total duration at the given weekly hours.
4. Finish with a revision phase when an exam date is given.

Use exactly this markdown structure:
# Study Plan: [Subject]

## Phase 1: [Title] (Weeks 1-X)
### Topics to Cover:
- Topic: What to study and why

### Milestones:
- Checkpoint: How to verify understanding
`)

	return b.String()
}

const mentorSystemPrompt = `You are an experienced mentor and career coach. You are supportive, professional but friendly, practical and personal. You motivate without being overly enthusiastic.`

func buildMentorUserMessage(in MentorInput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Current Progress: %s\n", in.UserProgress))
	b.WriteString(fmt.Sprintf("Learning Goals: %s\n", in.LearningGoals))
	b.WriteString(fmt.Sprintf("Challenges: %s\n", orNone(in.Challenges)))
	b.WriteString(fmt.Sprintf("Recent Activity: %s\n", orNone(in.RecentActivity)))

	b.WriteString(`
Provide:
1. Guidance: personalized advice based on the progress and challenges above.
2. Next Steps: 3-5 specific actions to take now.
3. Motivation: a message that acknowledges the progress so far.`)

	return b.String()
}

const resourcesSystemPrompt = `You are an expert educator who curates online learning material. You recommend resources that are actively maintained and widely used.`

func buildResourcesUserMessage(in ResourceInput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Topic: %q\n", in.Topic))
	b.WriteString(fmt.Sprintf("User Level: %s\n", orNone(in.UserLevel)))
	b.WriteString(fmt.Sprintf("Learning Style: %s\n", orNone(in.LearningStyle)))

	b.WriteString(`
Provide:
1. Topic Overview: 2-3 paragraphs on what the topic covers, key concepts and prerequisites.
2. Learning Path: where to start, how to progress and common pitfalls.
3. Free Resources: 5-7 options such as official docs, video series and open courses.
4. Premium Resources: 5-7 paid courses or programs.
5. Practice Projects: 3-5 projects from beginner to portfolio level.
6. Certifications: 2-4 recognized certifications.
7. Community Resources: 3-5 forums, subreddits or chat servers.

Give each resource a difficulty, a time estimate and a price ("Free" when it costs nothing).
Only use URLs on well-known stable platforms. When unsure of an exact URL, use a search URL such as https://www.google.com/search?q=learn+<topic>.`)

	return b.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}
