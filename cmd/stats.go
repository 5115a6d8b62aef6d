package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/questmap/internal/roadmap"
	"github.com/abhisek/questmap/internal/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show XP, credits and roadmap completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		arena, err := e.arena()
		if err != nil {
			return err
		}
		credits, err := arena.Credits(ctx)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s  %s\n",
			theme.XP.Render(fmt.Sprintf("%d XP", e.registry.Experience().Total())),
			theme.Body.Render(fmt.Sprintf("%d credits", credits)))

		saved, err := e.library.List(ctx)
		if err != nil {
			return err
		}
		if len(saved) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, theme.Section.Render("Roadmaps"))
			fmt.Fprintln(w, strings.Repeat("─", 72))
		}
		for _, r := range saved {
			tr, err := e.registry.Tracker(ctx, r.CareerPath)
			if err != nil {
				return err
			}
			st := tr.Stats(roadmap.Parse(r.Text))
			fmt.Fprintf(w, "%-28s %s  %d/%d\n", truncate(r.CareerPath, 28),
				theme.ProgressBar(st.Percentage, 20), st.Completed, st.Total)
		}

		var practiced []string
		for _, topic := range arena.Topics() {
			as, err := arena.Assessment(ctx, topic)
			if err != nil {
				return err
			}
			if as == nil {
				continue
			}
			practiced = append(practiced, fmt.Sprintf("%-28s %-12s %5.1f%%  %d answered",
				topic, as.SkillLevel, as.AccuracyRate, as.QuestionsAttempted))
		}
		if len(practiced) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, theme.Section.Render("Practice"))
			fmt.Fprintln(w, strings.Repeat("─", 72))
			for _, line := range practiced {
				fmt.Fprintln(w, line)
			}
		}
		return nil
	},
}
