package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/questmap/internal/practice"
	"github.com/abhisek/questmap/internal/theme"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Adaptive practice questions",
}

var practiceTopicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List practice topics and your level in each",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		arena, err := e.arena()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, topic := range arena.Topics() {
			as, err := arena.Assessment(cmd.Context(), topic)
			if err != nil {
				return err
			}
			if as == nil {
				fmt.Fprintf(w, "%-24s %s\n", topic, theme.Hint.Render("not started"))
				continue
			}
			fmt.Fprintf(w, "%-24s %-12s %5.1f%%\n", topic, as.SkillLevel, as.AccuracyRate)
		}
		return nil
	},
}

var practiceNextCmd = &cobra.Command{
	Use:   "next <topic>",
	Short: "Show the next question for a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		arena, err := e.arena()
		if err != nil {
			return err
		}
		q, err := arena.Next(cmd.Context(), strings.Join(args, " "))
		if errors.Is(err, practice.ErrUnknownTopic) {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(arena.Topics(), ", "))
		}
		if errors.Is(err, practice.ErrNoQuestion) {
			fmt.Fprintln(cmd.OutOrStdout(), "No more questions available for this topic level. Come back tomorrow.")
			return nil
		}
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s %s\n", theme.Title.Render(fmt.Sprintf("Question %d", q.ID)),
			theme.Hint.Render(fmt.Sprintf("%s, %s (%.1f), ~%d min", q.Topic, q.Difficulty, q.DifficultyScore, q.EstimatedTime)))
		fmt.Fprintln(w, q.QuestionText)
		fmt.Fprintln(w)
		fmt.Fprintln(w, theme.Hint.Render(fmt.Sprintf("Answer with: questmap practice answer %d --correct|--wrong", q.ID)))
		return nil
	},
}

var practiceAnswerCmd = &cobra.Command{
	Use:   "answer <question-id> [answer]",
	Short: "Record your answer and see the solution",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid question id %q: %w", args[0], err)
		}
		correct, _ := cmd.Flags().GetBool("correct")
		wrong, _ := cmd.Flags().GetBool("wrong")
		if correct == wrong {
			return fmt.Errorf("pass exactly one of --correct or --wrong")
		}
		took, _ := cmd.Flags().GetDuration("time")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		arena, err := e.arena()
		if err != nil {
			return err
		}
		res, err := arena.Submit(cmd.Context(), id, strings.Join(args[1:], " "), correct, took)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, theme.Section.Render("Solution"))
		fmt.Fprintln(w, res.Question.Solution)
		fmt.Fprintln(w)
		if res.Credits > 0 {
			fmt.Fprintln(w, theme.XP.Render(fmt.Sprintf("+%d credits", res.Credits)),
				theme.Hint.Render(fmt.Sprintf("(%d total)", res.TotalCredits)))
		}
		as := res.Assessment
		fmt.Fprintf(w, "%s: %s, %.1f%% over %d questions\n",
			as.Topic, as.SkillLevel, as.AccuracyRate, as.QuestionsAttempted)
		return nil
	},
}

func init() {
	practiceAnswerCmd.Flags().Bool("correct", false, "You answered correctly")
	practiceAnswerCmd.Flags().Bool("wrong", false, "You answered incorrectly")
	practiceAnswerCmd.Flags().Duration("time", 0, "Time taken, e.g. 90s")

	practiceCmd.AddCommand(practiceTopicsCmd)
	practiceCmd.AddCommand(practiceNextCmd)
	practiceCmd.AddCommand(practiceAnswerCmd)
}
