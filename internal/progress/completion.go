// Package progress tracks leaf completion per roadmap and the learner's
// experience points.
package progress

import (
	"strings"

	"github.com/abhisek/questmap/internal/roadmap"
)

// Storage keys.
const (
	progressKeyPrefix = "roadmap_progress_"
	XPKey             = "user_xp"
)

// DefaultXPReward is awarded for each leaf that becomes complete.
const DefaultXPReward = 10

// ProgressKey returns the KV key holding the completion record of a roadmap.
func ProgressKey(careerPath string) string {
	return progressKeyPrefix + careerPath
}

// CareerFromKey is the inverse of ProgressKey.
func CareerFromKey(key string) (string, bool) {
	career, ok := strings.CutPrefix(key, progressKeyPrefix)
	if !ok || career == "" {
		return "", false
	}
	return career, true
}

// Completion maps node ids to completion. A missing id is incomplete.
type Completion map[string]bool

// IsCompleted reports whether id is marked complete.
func (c Completion) IsCompleted(id string) bool {
	return c[id]
}

// Clone returns an independent copy.
func (c Completion) Clone() Completion {
	out := make(Completion, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Count returns how many leaves of forest are complete and how many leaves
// there are. Entries for non-leaf or unknown ids are ignored.
func Count(forest []*roadmap.Node, c Completion) (completed, total int) {
	for _, leaf := range roadmap.Leaves(forest) {
		total++
		if c[leaf.ID] {
			completed++
		}
	}
	return completed, total
}

// CompletionPercentage returns the share of completed leaves, rounded to the
// nearest integer with halves rounding up. A forest without leaves is 0%.
func CompletionPercentage(forest []*roadmap.Node, c Completion) int {
	completed, total := Count(forest, c)
	return percent(completed, total)
}

func percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return (200*completed + total) / (2 * total)
}

// Encouragement returns a short message for a completion percentage.
func Encouragement(pct int) string {
	switch {
	case pct <= 0:
		return ""
	case pct < 25:
		return "You're just getting started!"
	case pct < 50:
		return "You're making great progress!"
	case pct < 75:
		return "More than halfway there!"
	case pct < 100:
		return "Almost finished - you've got this!"
	default:
		return "Roadmap complete!"
	}
}
