package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/questmap/internal/roadmap"
	"github.com/abhisek/questmap/internal/theme"
)

var showCmd = &cobra.Command{
	Use:   "show [career]",
	Short: "Show a roadmap with its progress",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		outline, _ := cmd.Flags().GetBool("outline")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		r, err := e.roadmapFor(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		tr, err := e.registry.Tracker(ctx, r.CareerPath)
		if err != nil {
			return err
		}

		forest := roadmap.Parse(r.Text)
		w := cmd.OutOrStdout()

		if asJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if outline {
				return enc.Encode(roadmap.BuildOutline(r.Text))
			}
			return enc.Encode(forest)
		}

		if outline {
			renderOutline(w, roadmap.BuildOutline(r.Text), tr.Completion())
		} else {
			renderTree(w, forest, tr.Completion())
		}
		renderSummary(w, tr.Stats(forest))
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <node-id>...",
	Short: "Check or uncheck roadmap items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		career, _ := cmd.Flags().GetString("career")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		r, err := e.roadmapFor(ctx, career)
		if err != nil {
			return err
		}
		tr, err := e.registry.Tracker(ctx, r.CareerPath)
		if err != nil {
			return err
		}

		forest := roadmap.Parse(r.Text)
		w := cmd.OutOrStdout()
		for _, id := range args {
			n := roadmap.Find(forest, id)
			switch {
			case n == nil:
				return fmt.Errorf("no item %s in %s", id, r.CareerPath)
			case !n.IsLeaf():
				return fmt.Errorf("%s is a section heading; toggle its items instead", id)
			}

			res, err := tr.Toggle(ctx, n.ID, n.Text)
			if err != nil {
				return err
			}
			if !res.Completed {
				fmt.Fprintf(w, "%s %s\n", theme.Checkbox(false), roadmap.DisplayText(n.Text))
			}
		}
		renderSummary(w, tr.Stats(forest))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved roadmaps",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		saved, err := e.library.List(ctx)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(saved) == 0 {
			fmt.Fprintln(w, "No roadmaps saved yet.")
			return nil
		}

		current, _ := e.library.Current(ctx)
		for _, r := range saved {
			tr, err := e.registry.Tracker(ctx, r.CareerPath)
			if err != nil {
				return err
			}
			marker := " "
			if strings.EqualFold(r.CareerPath, current.CareerPath) {
				marker = theme.XP.Render("*")
			}
			fmt.Fprintf(w, "%s %-32s %-9s %s  %s\n",
				marker, truncate(r.CareerPath, 32), r.Source,
				theme.ProgressBar(tr.Percentage(roadmap.Parse(r.Text)), 20),
				theme.Hint.Render(r.CreatedAt.Local().Format("2006-01-02")))
		}
		return nil
	},
}

var useCmd = &cobra.Command{
	Use:   "use <career>",
	Short: "Switch the current roadmap",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		r, err := e.library.SetCurrent(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Now following %s\n", theme.Title.Render(r.CareerPath))
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("outline", false, "Group items by phase")
	showCmd.Flags().Bool("json", false, "Print the parsed roadmap as JSON")

	toggleCmd.Flags().String("career", "", "Roadmap to update (default: current)")
}
