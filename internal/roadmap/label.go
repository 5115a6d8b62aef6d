package roadmap

import (
	"regexp"
	"strings"
)

var (
	sectionKeywords = regexp.MustCompile(`(?i)Phase\s\d+:|Ongoing:|Goals:|Skills to Acquire:|Skills:|Milestones:|Projects?:`)
	labelNoise      = regexp.MustCompile(`(?i)[*#]|Phase\s\d+:|Ongoing:|Goals:|Skills to Acquire:|Skills:|Milestones:|Projects?:`)
	completionNoise = regexp.MustCompile(`(?i)[*#]|Phase\s\d+:|Ongoing:|Goals:|Skills:|Milestones:`)
)

// CleanLabel strips emphasis characters and section keywords, leaving a
// label suitable for notifications and resource lookups.
func CleanLabel(text string) string {
	return strings.TrimSpace(labelNoise.ReplaceAllString(text, ""))
}

// CompletionLabel is the label shown when an item is completed. It strips
// fewer keywords than CleanLabel: "Skills to Acquire:" and "Project:"
// prefixes stay.
func CompletionLabel(text string) string {
	return strings.TrimSpace(completionNoise.ReplaceAllString(text, ""))
}

// IsSectionHeading reports whether text names a phase or section
// ("Phase 2:", "Milestones:", ...).
func IsSectionHeading(text string) bool {
	return sectionKeywords.MatchString(text)
}

// DisplayText removes emphasis characters but keeps section keywords.
func DisplayText(text string) string {
	return strings.TrimSpace(strings.NewReplacer("*", "", "#", "").Replace(text))
}
