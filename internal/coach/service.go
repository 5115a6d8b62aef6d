// Package coach runs the AI flows: roadmap generation from a career goal or
// a syllabus, mentor guidance, and learning resource lookups.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/questmap/internal/llm"
	"github.com/abhisek/questmap/internal/progress"
	"github.com/abhisek/questmap/internal/roadmap"
)

// ErrEmptyRoadmap is returned when generated roadmap text has no items.
var ErrEmptyRoadmap = errors.New("generated roadmap has no items")

// DifficultyCustom labels syllabus-based roadmaps.
const DifficultyCustom = "Custom"

var validate = validator.New()

// Service wraps an llm.Provider with the coach prompts and schemas.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// NewService creates a coach service. A nil logger disables logging.
func NewService(provider llm.Provider, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ResourceConcurrency < 1 {
		cfg.ResourceConcurrency = 1
	}
	return &Service{provider: provider, cfg: cfg, log: log.Named("coach")}
}

// GenerateRoadmap produces a career roadmap.
func (s *Service) GenerateRoadmap(ctx context.Context, in CareerInput) (GeneratedRoadmap, error) {
	in.ExperienceLevel = strings.ToLower(strings.TrimSpace(in.ExperienceLevel))
	if err := validate.Struct(in); err != nil {
		return GeneratedRoadmap{}, fmt.Errorf("invalid career input: %w", err)
	}

	ctx = llm.WithPurpose(ctx, PurposeRoadmap)
	out, err := s.roadmap(ctx, roadmapSystemPrompt, buildRoadmapUserMessage(in))
	if err != nil {
		return GeneratedRoadmap{}, fmt.Errorf("roadmap generation: %w", err)
	}

	s.log.Debug("roadmap generated",
		zap.String("career", in.CareerPath),
		zap.Int("items", len(roadmap.Parse(out.Roadmap))))
	return out, nil
}

// GenerateSyllabusRoadmap turns a syllabus into a study-plan roadmap. The
// difficulty is always DifficultyCustom.
func (s *Service) GenerateSyllabusRoadmap(ctx context.Context, in SyllabusInput) (GeneratedRoadmap, error) {
	if err := validate.Struct(in); err != nil {
		return GeneratedRoadmap{}, fmt.Errorf("invalid syllabus input: %w", err)
	}

	ctx = llm.WithPurpose(ctx, PurposeSyllabusRoadmap)
	out, err := s.roadmap(ctx, syllabusSystemPrompt, buildSyllabusUserMessage(in))
	if err != nil {
		return GeneratedRoadmap{}, fmt.Errorf("syllabus roadmap generation: %w", err)
	}

	out.DifficultyLevel = DifficultyCustom
	if strings.TrimSpace(out.EstimatedDuration) == "" {
		out.EstimatedDuration = in.TotalDuration
	}
	return out, nil
}

func (s *Service) roadmap(ctx context.Context, system, user string) (GeneratedRoadmap, error) {
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      system,
		Messages:    llm.UserPrompt(user),
		Schema:      RoadmapSchema,
		MaxTokens:   s.cfg.RoadmapMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return GeneratedRoadmap{}, err
	}

	out, err := llm.Decode[GeneratedRoadmap](resp)
	if err != nil {
		return GeneratedRoadmap{}, err
	}
	if len(roadmap.Parse(out.Roadmap)) == 0 {
		return GeneratedRoadmap{}, ErrEmptyRoadmap
	}
	return out, nil
}

// MentorGuidance asks the mentor for advice on the learner's situation.
func (s *Service) MentorGuidance(ctx context.Context, in MentorInput) (Guidance, error) {
	if err := validate.Struct(in); err != nil {
		return Guidance{}, fmt.Errorf("invalid mentor input: %w", err)
	}

	ctx = llm.WithPurpose(ctx, PurposeMentor)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      mentorSystemPrompt,
		Messages:    llm.UserPrompt(buildMentorUserMessage(in)),
		Schema:      MentorSchema,
		MaxTokens:   s.cfg.MentorMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Guidance{}, fmt.Errorf("mentor guidance: %w", err)
	}

	out, err := llm.Decode[Guidance](resp)
	if err != nil {
		return Guidance{}, fmt.Errorf("mentor guidance: %w", err)
	}
	return out, nil
}

// MentorInputFromStats describes tracker progress for the mentor.
func MentorInputFromStats(careerPath string, st progress.Stats, challenges string) MentorInput {
	desc := fmt.Sprintf("%d of %d items completed (%d%%) on the %s roadmap, %d XP earned.",
		st.Completed, st.Total, st.Percentage, careerPath, st.XP)
	if enc := progress.Encouragement(st.Percentage); enc != "" {
		desc += " " + enc
	}
	return MentorInput{
		UserProgress:  desc,
		LearningGoals: fmt.Sprintf("Become a %s", careerPath),
		Challenges:    challenges,
	}
}

// LearningResources curates material for one topic.
func (s *Service) LearningResources(ctx context.Context, in ResourceInput) (Resources, error) {
	if err := validate.Struct(in); err != nil {
		return Resources{}, fmt.Errorf("invalid resource input: %w", err)
	}

	ctx = llm.WithPurpose(ctx, PurposeResources)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      resourcesSystemPrompt,
		Messages:    llm.UserPrompt(buildResourcesUserMessage(in)),
		Schema:      ResourcesSchema,
		MaxTokens:   s.cfg.ResourcesMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Resources{}, fmt.Errorf("learning resources for %q: %w", in.Topic, err)
	}

	out, err := llm.Decode[Resources](resp)
	if err != nil {
		return Resources{}, fmt.Errorf("learning resources for %q: %w", in.Topic, err)
	}
	out.Topic = in.Topic
	return out, nil
}

// ResourcesFor looks up several topics concurrently. Results keep the
// order of topics; the first failure cancels the rest.
func (s *Service) ResourcesFor(ctx context.Context, topics []string, level string) ([]Resources, error) {
	results := make([]Resources, len(topics))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.ResourceConcurrency)

	for i, topic := range topics {
		g.Go(func() error {
			r, err := s.LearningResources(ctx, ResourceInput{Topic: topic, UserLevel: level})
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
