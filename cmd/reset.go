package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset [career]",
	Short: "Clear a roadmap's completion record",
	Long:  "Clear the checked items of a roadmap (default: current). XP already earned is kept.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

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

		if !yes {
			fmt.Fprintf(cmd.OutOrStdout(), "This clears all progress on %s. Re-run with --yes to confirm.\n", r.CareerPath)
			return nil
		}
		if err := e.registry.Reset(ctx, r.CareerPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Progress on %s cleared.\n", r.CareerPath)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}
