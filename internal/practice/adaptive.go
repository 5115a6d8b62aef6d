package practice

import (
	"errors"
	"math"
	"slices"
	"strings"
	"time"
)

var (
	// ErrNoQuestion means no question fits the topic and difficulty range.
	ErrNoQuestion = errors.New("no question available for this topic and level")

	// ErrUnknownQuestion means a submitted question id is not in the bank.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrUnknownTopic means no question in the bank has the topic.
	ErrUnknownTopic = errors.New("unknown topic")
)

// SkillLevel is the assessed level for a topic.
type SkillLevel string

const (
	Beginner     SkillLevel = "beginner"
	Intermediate SkillLevel = "intermediate"
	Advanced     SkillLevel = "advanced"
)

// Assessment is the learner's standing on one topic.
type Assessment struct {
	Topic              string     `json:"topic"`
	SkillLevel         SkillLevel `json:"skillLevel"`
	AccuracyRate       float64    `json:"accuracyRate"` // percent
	QuestionsAttempted int        `json:"questionsAttempted"`
	QuestionsCorrect   int        `json:"questionsCorrect"`
	LastAssessed       time.Time  `json:"lastAssessed"`
}

// Range is an inclusive difficulty score range.
type Range struct {
	Min, Max float64
}

// Contains reports whether score is within the range.
func (r Range) Contains(score float64) bool {
	return score >= r.Min && score <= r.Max
}

// TargetRange picks the difficulty band for the next question.
func TargetRange(a *Assessment) Range {
	switch {
	case a == nil:
		return Range{1, 4}
	case a.SkillLevel == Beginner || a.AccuracyRate < 60:
		return Range{1, 4}
	case a.SkillLevel == Intermediate || a.AccuracyRate < 80:
		return Range{4, 7}
	default:
		return Range{7, 10}
	}
}

// Select returns the easiest question of topic within r whose id is not in
// exclude. Ties on difficulty go to the lower id.
func Select(questions []Question, topic string, r Range, exclude map[int]bool) (Question, error) {
	var candidates []Question
	for _, q := range questions {
		if !strings.EqualFold(q.Topic, topic) || !r.Contains(q.DifficultyScore) || exclude[q.ID] {
			continue
		}
		candidates = append(candidates, q)
	}
	if len(candidates) == 0 {
		return Question{}, ErrNoQuestion
	}

	return slices.MinFunc(candidates, func(a, b Question) int {
		switch {
		case a.DifficultyScore < b.DifficultyScore:
			return -1
		case a.DifficultyScore > b.DifficultyScore:
			return 1
		}
		return a.ID - b.ID
	}), nil
}

// Assess folds one answer into the previous assessment, which may be nil.
// The returned assessment has no LastAssessed time.
func Assess(prev *Assessment, q Question, correct bool) Assessment {
	if prev == nil {
		a := Assessment{
			Topic:              q.Topic,
			SkillLevel:         Beginner,
			QuestionsAttempted: 1,
		}
		if correct {
			a.QuestionsCorrect = 1
			a.AccuracyRate = 100
			if q.DifficultyScore >= 7 {
				a.SkillLevel = Intermediate
			}
		}
		return a
	}

	a := *prev
	a.QuestionsAttempted++
	if correct {
		a.QuestionsCorrect++
	}
	a.AccuracyRate = float64(a.QuestionsCorrect) / float64(a.QuestionsAttempted) * 100

	switch {
	case a.AccuracyRate >= 80 && q.DifficultyScore >= 7:
		a.SkillLevel = Advanced
	case a.AccuracyRate >= 70 && q.DifficultyScore >= 4:
		a.SkillLevel = Intermediate
	default:
		a.SkillLevel = Beginner
	}
	return a
}

// CreditReward is the credit payout for an answer.
func CreditReward(q Question, correct bool) int {
	if !correct {
		return 0
	}
	return int(math.Ceil(q.DifficultyScore))
}
