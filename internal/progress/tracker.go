package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/questmap/internal/roadmap"
	"github.com/abhisek/questmap/internal/store"
)

// Options configures trackers.
type Options struct {
	// Reward is the XP granted per completed leaf. Zero means DefaultXPReward.
	Reward int

	// Notifier receives award notifications. Optional.
	Notifier Notifier

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Reward <= 0 {
		o.Reward = DefaultXPReward
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// ToggleResult describes the outcome of a toggle.
type ToggleResult struct {
	NodeID    string
	Completed bool // flag after the toggle
	DeltaXP   int  // XP awarded by this toggle
	TotalXP   int
}

// Stats summarizes a roadmap's progress.
type Stats struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
	XP         int `json:"xp"`
}

// Tracker holds the completion record of one roadmap. Toggles on a tracker
// are serialized.
type Tracker struct {
	mu         sync.Mutex
	careerPath string
	completion Completion
	kv         store.KV
	xp         *Experience
	opts       Options
}

// Open loads the completion record for careerPath. A missing record starts
// empty.
func Open(ctx context.Context, kv store.KV, careerPath string, xp *Experience, opts Options) (*Tracker, error) {
	if xp == nil {
		return nil, errors.New("experience counter is required")
	}
	completion := Completion{}
	if _, err := store.GetJSON(ctx, kv, ProgressKey(careerPath), &completion); err != nil {
		return nil, fmt.Errorf("load progress for %s: %w", careerPath, err)
	}
	if completion == nil {
		completion = Completion{}
	}
	return &Tracker{
		careerPath: careerPath,
		completion: completion,
		kv:         kv,
		xp:         xp,
		opts:       opts.withDefaults(),
	}, nil
}

// CareerPath returns the roadmap identity.
func (t *Tracker) CareerPath() string {
	return t.careerPath
}

// Toggle flips the completion flag of nodeID. A false to true transition
// awards XP and emits a notification labelled with the cleaned displayText;
// true to false changes no XP. Ids are not checked against any forest.
//
// The returned result always reflects the in-memory state, which is kept
// even when persisting fails.
func (t *Tracker) Toggle(ctx context.Context, nodeID, displayText string) (ToggleResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := !t.completion[nodeID]
	t.completion[nodeID] = now

	res := ToggleResult{NodeID: nodeID, Completed: now}
	var errs []error

	if now {
		total, err := t.xp.Award(ctx, t.opts.Reward)
		res.DeltaXP = t.opts.Reward
		res.TotalXP = total
		if err != nil {
			errs = append(errs, err)
		}
		if t.opts.Notifier != nil {
			t.opts.Notifier.Notify(Notification{
				DeltaXP: t.opts.Reward,
				Label:   roadmap.CompletionLabel(displayText),
			})
		}
	} else {
		res.TotalXP = t.xp.Total()
	}

	t.opts.Logger.Debug("toggled roadmap item",
		zap.String("career", t.careerPath),
		zap.String("node", nodeID),
		zap.Bool("completed", now),
		zap.Int("delta_xp", res.DeltaXP))

	if err := t.persist(ctx); err != nil {
		errs = append(errs, err)
	}
	return res, errors.Join(errs...)
}

// persist writes the completion record. Callers hold t.mu.
func (t *Tracker) persist(ctx context.Context) error {
	if err := store.SetJSON(ctx, t.kv, ProgressKey(t.careerPath), t.completion); err != nil {
		t.opts.Logger.Warn("persist progress failed",
			zap.String("career", t.careerPath), zap.Error(err))
		return fmt.Errorf("save progress for %s: %w", t.careerPath, err)
	}
	return nil
}

// IsCompleted reports whether nodeID is marked complete.
func (t *Tracker) IsCompleted(nodeID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completion[nodeID]
}

// Completion returns a copy of the completion record.
func (t *Tracker) Completion() Completion {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completion.Clone()
}

// Percentage returns the completion percentage of forest.
func (t *Tracker) Percentage(forest []*roadmap.Node) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return CompletionPercentage(forest, t.completion)
}

// Stats summarizes progress over forest.
func (t *Tracker) Stats(forest []*roadmap.Node) Stats {
	t.mu.Lock()
	completed, total := Count(forest, t.completion)
	t.mu.Unlock()

	return Stats{
		Completed:  completed,
		Total:      total,
		Percentage: percent(completed, total),
		XP:         t.xp.Total(),
	}
}

// Reset clears the completion record and removes it from storage. XP
// already earned is kept.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.completion = Completion{}
	if err := t.kv.Delete(ctx, ProgressKey(t.careerPath)); err != nil {
		return fmt.Errorf("delete progress for %s: %w", t.careerPath, err)
	}
	return nil
}
