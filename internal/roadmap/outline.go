package roadmap

import (
	"fmt"
	"strings"
)

// Outline is the phase view of a roadmap: one entry per "## " heading with
// its list items sorted into skills and milestones by the enclosing
// "### " section.
type Outline struct {
	Title  string  `json:"title,omitempty"`
	Phases []Phase `json:"phases"`
}

// Phase groups the items under one "## " heading.
type Phase struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Skills     []Item `json:"skills"`
	Milestones []Item `json:"milestones"`
}

// Item is a list entry of a phase. IDs match the ones Parse assigns.
type Item struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ItemCount returns the number of skills and milestones across all phases.
func (o Outline) ItemCount() int {
	n := 0
	for _, p := range o.Phases {
		n += len(p.Skills) + len(p.Milestones)
	}
	return n
}

// BuildOutline groups roadmap text by phase. Only the first "# " line is
// taken as the title, and list items outside a phase section are dropped.
func BuildOutline(text string) Outline {
	var (
		out     Outline
		phase   *Phase
		section string
	)

	for i, line := range nonEmptyLines(text) {
		trimmed := strings.TrimSpace(line)
		level := LineLevel(trimmed)

		switch {
		case level == 0 && out.Title == "":
			out.Title = StripMarker(trimmed)
		case level == 1:
			out.Phases = append(out.Phases, Phase{
				ID:    fmt.Sprintf("phase-%d", len(out.Phases)+1),
				Title: StripMarker(trimmed),
			})
			phase = &out.Phases[len(out.Phases)-1]
			section = ""
		case level == 2:
			section = strings.ToLower(StripMarker(trimmed))
		case level == ListLevel && isListItem(trimmed) && phase != nil && section != "":
			item := Item{ID: ItemID(i), Text: StripMarker(trimmed)}
			if !strings.Contains(section, "skill") &&
				(strings.Contains(section, "milestone") || strings.Contains(section, "project")) {
				phase.Milestones = append(phase.Milestones, item)
			} else {
				phase.Skills = append(phase.Skills, item)
			}
		}
	}

	return out
}

func isListItem(trimmed string) bool {
	return len(trimmed) > 0 && (trimmed[0] == '-' || trimmed[0] == '*') && spaceAt(trimmed, 1)
}
