package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Library keys.
const (
	RoadmapsKey       = "ai_roadmaps"
	CurrentRoadmapKey = "current_ai_roadmap"
)

// MaxSavedRoadmaps is how many generated roadmaps the library keeps.
const MaxSavedRoadmaps = 5

// Roadmap sources.
const (
	SourceCareer   = "career"
	SourceSyllabus = "syllabus"
	SourceImport   = "import"
)

// ErrRoadmapNotFound is returned when no saved roadmap matches.
var ErrRoadmapNotFound = errors.New("roadmap not found")

// SavedRoadmap is a roadmap text kept in the library.
type SavedRoadmap struct {
	ID                string    `json:"id"`
	CareerPath        string    `json:"careerPath"`
	Text              string    `json:"roadmap"`
	EstimatedDuration string    `json:"estimatedDuration,omitempty"`
	DifficultyLevel   string    `json:"difficultyLevel,omitempty"`
	Source            string    `json:"source"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Library keeps the most recent roadmaps and the one currently followed.
type Library struct {
	kv KV
	mu sync.Mutex

	// now is overridden in tests.
	now func() time.Time
}

// NewLibrary creates a Library on top of kv.
func NewLibrary(kv KV) *Library {
	return &Library{kv: kv, now: time.Now}
}

// Save stores r as the newest entry, replacing any entry for the same career
// path, and makes it current. Missing ID and CreatedAt are filled in.
func (l *Library) Save(ctx context.Context, r SavedRoadmap) (SavedRoadmap, error) {
	if strings.TrimSpace(r.CareerPath) == "" {
		return r, errors.New("career path is required")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = l.now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	list, err := l.list(ctx)
	if err != nil {
		return r, err
	}

	updated := make([]SavedRoadmap, 0, len(list)+1)
	updated = append(updated, r)
	for _, existing := range list {
		if strings.EqualFold(existing.CareerPath, r.CareerPath) {
			continue
		}
		updated = append(updated, existing)
	}
	if len(updated) > MaxSavedRoadmaps {
		updated = updated[:MaxSavedRoadmaps]
	}

	if err := SetJSON(ctx, l.kv, RoadmapsKey, updated); err != nil {
		return r, fmt.Errorf("save roadmap list: %w", err)
	}
	if err := SetJSON(ctx, l.kv, CurrentRoadmapKey, r); err != nil {
		return r, fmt.Errorf("save current roadmap: %w", err)
	}
	return r, nil
}

// List returns saved roadmaps, newest first.
func (l *Library) List(ctx context.Context) ([]SavedRoadmap, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.list(ctx)
}

func (l *Library) list(ctx context.Context) ([]SavedRoadmap, error) {
	var list []SavedRoadmap
	if _, err := GetJSON(ctx, l.kv, RoadmapsKey, &list); err != nil {
		return nil, fmt.Errorf("load roadmap list: %w", err)
	}
	return list, nil
}

// Get returns the saved roadmap for careerPath.
func (l *Library) Get(ctx context.Context, careerPath string) (SavedRoadmap, error) {
	list, err := l.List(ctx)
	if err != nil {
		return SavedRoadmap{}, err
	}
	for _, r := range list {
		if strings.EqualFold(r.CareerPath, careerPath) {
			return r, nil
		}
	}
	return SavedRoadmap{}, fmt.Errorf("%s: %w", careerPath, ErrRoadmapNotFound)
}

// Current returns the roadmap currently followed.
func (l *Library) Current(ctx context.Context) (SavedRoadmap, error) {
	var r SavedRoadmap
	ok, err := GetJSON(ctx, l.kv, CurrentRoadmapKey, &r)
	if err != nil {
		return r, fmt.Errorf("load current roadmap: %w", err)
	}
	if !ok {
		return r, ErrRoadmapNotFound
	}
	return r, nil
}

// SetCurrent makes the saved roadmap for careerPath current.
func (l *Library) SetCurrent(ctx context.Context, careerPath string) (SavedRoadmap, error) {
	r, err := l.Get(ctx, careerPath)
	if err != nil {
		return r, err
	}
	if err := SetJSON(ctx, l.kv, CurrentRoadmapKey, r); err != nil {
		return r, fmt.Errorf("save current roadmap: %w", err)
	}
	return r, nil
}
