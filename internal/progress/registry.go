package progress

import (
	"context"
	"fmt"
	"sync"

	"github.com/abhisek/questmap/internal/store"
)

// Registry hands out one Tracker per roadmap so that toggles on the same
// roadmap share a lock.
type Registry struct {
	mu       sync.Mutex
	kv       store.KV
	xp       *Experience
	opts     Options
	trackers map[string]*Tracker
}

// NewRegistry creates a Registry. All trackers share xp.
func NewRegistry(kv store.KV, xp *Experience, opts Options) *Registry {
	return &Registry{
		kv:       kv,
		xp:       xp,
		opts:     opts,
		trackers: make(map[string]*Tracker),
	}
}

// Experience returns the shared XP counter.
func (r *Registry) Experience() *Experience {
	return r.xp
}

// Tracker returns the tracker for careerPath, loading it on first use.
func (r *Registry) Tracker(ctx context.Context, careerPath string) (*Tracker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.trackers[careerPath]; ok {
		return t, nil
	}
	t, err := Open(ctx, r.kv, careerPath, r.xp, r.opts)
	if err != nil {
		return nil, err
	}
	r.trackers[careerPath] = t
	return t, nil
}

// Reset clears the completion record of careerPath.
func (r *Registry) Reset(ctx context.Context, careerPath string) error {
	t, err := r.Tracker(ctx, careerPath)
	if err != nil {
		return err
	}
	return t.Reset(ctx)
}

// CareerPaths lists roadmaps that have a stored completion record.
func (r *Registry) CareerPaths(ctx context.Context) ([]string, error) {
	keys, err := r.kv.Keys(ctx, progressKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list progress records: %w", err)
	}
	paths := make([]string, 0, len(keys))
	for _, k := range keys {
		if career, ok := CareerFromKey(k); ok {
			paths = append(paths, career)
		}
	}
	return paths, nil
}
