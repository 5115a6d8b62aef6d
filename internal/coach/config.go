package coach

// Config holds generation settings per flow.
type Config struct {
	RoadmapMaxTokens   int
	MentorMaxTokens    int
	ResourcesMaxTokens int
	Temperature        float64

	// ResourceConcurrency caps parallel topic lookups in ResourcesFor.
	ResourceConcurrency int
}

// DefaultConfig returns sensible defaults for the coach flows.
func DefaultConfig() Config {
	return Config{
		RoadmapMaxTokens:    4096,
		MentorMaxTokens:     1024,
		ResourcesMaxTokens:  3072,
		Temperature:         0.7,
		ResourceConcurrency: 3,
	}
}
