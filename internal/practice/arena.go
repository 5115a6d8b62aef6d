package practice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/questmap/internal/store"
)

// Storage keys.
const (
	assessmentKeyPrefix = "practice_assessment_"
	AttemptsKey         = "practice_attempts"
	CreditsKey          = "user_credits"
)

// RecentWindow is how long a correctly answered question is held back.
const RecentWindow = 24 * time.Hour

// MaxStoredAttempts bounds the attempt log.
const MaxStoredAttempts = 500

// AssessmentKey is the storage key for a topic's assessment.
func AssessmentKey(topic string) string {
	return assessmentKeyPrefix + topic
}

// Attempt records one submitted answer.
type Attempt struct {
	ID         string    `json:"id"`
	QuestionID int       `json:"questionId"`
	Topic      string    `json:"topic"`
	UserAnswer string    `json:"userAnswer"`
	Correct    bool      `json:"correct"`
	TimeTaken  int       `json:"timeTaken"` // seconds
	CreatedAt  time.Time `json:"createdAt"`
}

// SubmitResult is what a submission changed.
type SubmitResult struct {
	Question     Question
	Attempt      Attempt
	Assessment   Assessment
	Credits      int // awarded by this answer
	TotalCredits int
}

// Arena serves questions and records answers against a KV store.
type Arena struct {
	mu   sync.Mutex
	kv   store.KV
	bank *Bank
	log  *zap.Logger
	now  func() time.Time
}

// NewArena creates an arena. A nil logger disables logging.
func NewArena(kv store.KV, bank *Bank, log *zap.Logger) *Arena {
	if log == nil {
		log = zap.NewNop()
	}
	return &Arena{kv: kv, bank: bank, log: log.Named("practice"), now: time.Now}
}

// Topics lists the bank's topics.
func (a *Arena) Topics() []string {
	return a.bank.Topics()
}

// Assessment returns the stored assessment for topic, or nil when the
// topic has never been practiced. Topics are matched against the bank
// ignoring case.
func (a *Arena) Assessment(ctx context.Context, topic string) (*Assessment, error) {
	if canonical, ok := a.bank.Topic(topic); ok {
		topic = canonical
	}
	var as Assessment
	found, err := store.GetJSON(ctx, a.kv, AssessmentKey(topic), &as)
	if err != nil {
		return nil, fmt.Errorf("load assessment %s: %w", topic, err)
	}
	if !found {
		return nil, nil
	}
	return &as, nil
}

// Credits returns the credit balance.
func (a *Arena) Credits(ctx context.Context) (int, error) {
	var n int
	if _, err := store.GetJSON(ctx, a.kv, CreditsKey, &n); err != nil {
		return 0, fmt.Errorf("load credits: %w", err)
	}
	return n, nil
}

// Attempts returns the attempt log, oldest first.
func (a *Arena) Attempts(ctx context.Context) ([]Attempt, error) {
	var attempts []Attempt
	if _, err := store.GetJSON(ctx, a.kv, AttemptsKey, &attempts); err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	return attempts, nil
}

// Next picks the next question for topic at the learner's level.
func (a *Arena) Next(ctx context.Context, name string) (Question, error) {
	topic, ok := a.bank.Topic(name)
	if !ok {
		return Question{}, fmt.Errorf("%q: %w", name, ErrUnknownTopic)
	}
	as, err := a.Assessment(ctx, topic)
	if err != nil {
		return Question{}, err
	}
	attempts, err := a.Attempts(ctx)
	if err != nil {
		return Question{}, err
	}

	exclude := recentCorrect(attempts, a.now().Add(-RecentWindow))
	r := TargetRange(as)

	q, err := Select(a.bank.Questions(), topic, r, exclude)
	if err != nil {
		return Question{}, fmt.Errorf("next %s question in [%g, %g]: %w", topic, r.Min, r.Max, err)
	}
	return q, nil
}

func recentCorrect(attempts []Attempt, since time.Time) map[int]bool {
	ids := make(map[int]bool)
	for _, at := range attempts {
		if at.Correct && !at.CreatedAt.Before(since) {
			ids[at.QuestionID] = true
		}
	}
	return ids
}

// Submit records an answer, updates the topic assessment and awards
// credits for a correct answer.
func (a *Arena) Submit(ctx context.Context, questionID int, answer string, correct bool, timeTaken time.Duration) (SubmitResult, error) {
	q, ok := a.bank.Question(questionID)
	if !ok {
		return SubmitResult{}, fmt.Errorf("question %d: %w", questionID, ErrUnknownQuestion)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	attempt := Attempt{
		ID:         uuid.NewString(),
		QuestionID: q.ID,
		Topic:      q.Topic,
		UserAnswer: answer,
		Correct:    correct,
		TimeTaken:  int(timeTaken / time.Second),
		CreatedAt:  now,
	}

	attempts, err := a.Attempts(ctx)
	if err != nil {
		return SubmitResult{}, err
	}
	attempts = append(attempts, attempt)
	if len(attempts) > MaxStoredAttempts {
		attempts = attempts[len(attempts)-MaxStoredAttempts:]
	}
	if err := store.SetJSON(ctx, a.kv, AttemptsKey, attempts); err != nil {
		return SubmitResult{}, fmt.Errorf("save attempt: %w", err)
	}

	prev, err := a.Assessment(ctx, q.Topic)
	if err != nil {
		return SubmitResult{}, err
	}
	as := Assess(prev, q, correct)
	as.LastAssessed = now
	if err := store.SetJSON(ctx, a.kv, AssessmentKey(q.Topic), as); err != nil {
		return SubmitResult{}, fmt.Errorf("save assessment %s: %w", q.Topic, err)
	}

	res := SubmitResult{Question: q, Attempt: attempt, Assessment: as}

	total, err := a.Credits(ctx)
	if err != nil {
		return res, err
	}
	if reward := CreditReward(q, correct); reward > 0 {
		total += reward
		if err := store.SetJSON(ctx, a.kv, CreditsKey, total); err != nil {
			return res, fmt.Errorf("save credits: %w", err)
		}
		res.Credits = reward
	}
	res.TotalCredits = total

	a.log.Debug("answer recorded",
		zap.Int("question", q.ID),
		zap.String("topic", q.Topic),
		zap.Bool("correct", correct),
		zap.String("level", string(as.SkillLevel)),
		zap.Int("credits", res.Credits))
	return res, nil
}
