package progress

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/questmap/internal/store"
)

// Experience is the learner's XP total. It only ever grows. One instance
// is shared by all trackers of a session.
type Experience struct {
	mu    sync.Mutex
	kv    store.KV
	total int
	log   *zap.Logger
}

// LoadExperience reads the XP total from kv. A missing key starts at zero.
func LoadExperience(ctx context.Context, kv store.KV, log *zap.Logger) (*Experience, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var total int
	if _, err := store.GetJSON(ctx, kv, XPKey, &total); err != nil {
		return nil, fmt.Errorf("load experience: %w", err)
	}
	if total < 0 {
		total = 0
	}
	return &Experience{kv: kv, total: total, log: log}, nil
}

// Total returns the current XP.
func (e *Experience) Total() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total
}

// Award adds delta XP and persists the new total. Non-positive deltas are
// ignored. When the write fails the in-memory total is kept and returned
// alongside the error; the next successful write carries it.
func (e *Experience) Award(ctx context.Context, delta int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if delta <= 0 {
		return e.total, nil
	}
	e.total += delta

	if err := store.SetJSON(ctx, e.kv, XPKey, e.total); err != nil {
		e.log.Warn("persist experience failed", zap.Int("total", e.total), zap.Error(err))
		return e.total, fmt.Errorf("save experience: %w", err)
	}
	return e.total, nil
}
