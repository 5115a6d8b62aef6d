// Package practice is the adaptive practice arena: a question bank, per
// topic skill assessments and credit rewards.
package practice

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultBankYAML []byte

// Question is a single practice question.
type Question struct {
	ID              int      `yaml:"id" json:"id" validate:"required,min=1"`
	Topic           string   `yaml:"topic" json:"topic" validate:"required"`
	QuestionText    string   `yaml:"question_text" json:"questionText" validate:"required"`
	Solution        string   `yaml:"solution" json:"solution" validate:"required"`
	Difficulty      string   `yaml:"difficulty" json:"difficulty" validate:"oneof=Easy Medium Hard"`
	DifficultyScore float64  `yaml:"difficulty_score" json:"difficultyScore" validate:"min=1,max=10"`
	Tags            []string `yaml:"tags" json:"tags"`
	EstimatedTime   int      `yaml:"estimated_time" json:"estimatedTime"` // minutes
}

// Bank is an immutable set of questions.
type Bank struct {
	questions []Question
	byID      map[int]Question
}

type bankFile struct {
	Questions []Question `yaml:"questions" validate:"dive"`
}

var validate = validator.New()

// LoadBank parses and validates a YAML question bank. Ids must be unique.
func LoadBank(data []byte) (*Bank, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid question bank: %w", err)
	}

	b := &Bank{
		questions: f.Questions,
		byID:      make(map[int]Question, len(f.Questions)),
	}
	for _, q := range f.Questions {
		if _, dup := b.byID[q.ID]; dup {
			return nil, fmt.Errorf("invalid question bank: duplicate id %d", q.ID)
		}
		b.byID[q.ID] = q
	}
	return b, nil
}

// DefaultBank returns the embedded question bank.
func DefaultBank() (*Bank, error) {
	return LoadBank(defaultBankYAML)
}

// Questions returns all questions in file order.
func (b *Bank) Questions() []Question {
	return slices.Clone(b.questions)
}

// Question looks up a question by id.
func (b *Bank) Question(id int) (Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// Topics returns the distinct topics, sorted.
func (b *Bank) Topics() []string {
	seen := make(map[string]bool)
	var topics []string
	for _, q := range b.questions {
		if !seen[q.Topic] {
			seen[q.Topic] = true
			topics = append(topics, q.Topic)
		}
	}
	slices.Sort(topics)
	return topics
}

// Topic resolves name to the bank's spelling of a topic, ignoring case.
func (b *Bank) Topic(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, q := range b.questions {
		if strings.EqualFold(q.Topic, name) {
			return q.Topic, true
		}
	}
	return "", false
}
