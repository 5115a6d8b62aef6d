package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/questmap/internal/progress"
	"github.com/abhisek/questmap/internal/roadmap"
	"github.com/abhisek/questmap/internal/theme"
)

const barWidth = 30

// renderTree prints the forest with checkboxes on leaves. Nesting is
// shown by two spaces per depth.
func renderTree(w io.Writer, forest []*roadmap.Node, done progress.Completion) {
	var walk func(nodes []*roadmap.Node, depth int)
	walk = func(nodes []*roadmap.Node, depth int) {
		for _, n := range nodes {
			indent := strings.Repeat("  ", depth)
			text := roadmap.DisplayText(n.Text)
			if n.IsLeaf() {
				style := theme.Pending
				if done.IsCompleted(n.ID) {
					style = theme.Done
				}
				if roadmap.IsSectionHeading(n.Text) {
					style = style.Bold(true)
				}
				fmt.Fprintf(w, "%s%s %s %s\n", indent, theme.Checkbox(done.IsCompleted(n.ID)),
					style.Render(text), theme.ID.Render(n.ID))
				continue
			}
			heading := theme.Section
			if depth == 0 {
				heading = theme.Title
			}
			fmt.Fprintf(w, "%s%s %s\n", indent, heading.Render(text), theme.ID.Render(n.ID))
			walk(n.Children, depth+1)
		}
	}
	walk(forest, 0)
}

// renderOutline prints the phase view.
func renderOutline(w io.Writer, o roadmap.Outline, done progress.Completion) {
	if o.Title != "" {
		fmt.Fprintln(w, theme.Title.Render(o.Title))
	}
	section := func(name string, items []roadmap.Item) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(w, "  %s\n", theme.Hint.Render(name))
		for _, it := range items {
			fmt.Fprintf(w, "    %s %s %s\n", theme.Checkbox(done.IsCompleted(it.ID)),
				roadmap.DisplayText(it.Text), theme.ID.Render(it.ID))
		}
	}
	for _, p := range o.Phases {
		fmt.Fprintln(w)
		fmt.Fprintln(w, theme.Section.Render(p.Title))
		section("Skills", p.Skills)
		section("Milestones", p.Milestones)
	}
}

// renderSummary prints the progress bar, XP and encouragement.
func renderSummary(w io.Writer, st progress.Stats) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s  %d/%d completed  %s\n",
		theme.ProgressBar(st.Percentage, barWidth), st.Completed, st.Total,
		theme.XP.Render(fmt.Sprintf("%d XP", st.XP)))
	if enc := progress.Encouragement(st.Percentage); enc != "" {
		fmt.Fprintln(w, theme.Hint.Render(enc))
	}
}
