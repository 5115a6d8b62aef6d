package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/questmap/internal/coach"
	"github.com/abhisek/questmap/internal/roadmap"
	"github.com/abhisek/questmap/internal/store"
	"github.com/abhisek/questmap/internal/theme"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a career roadmap with AI",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := coach.CareerInput{}
		in.CareerPath, _ = cmd.Flags().GetString("career")
		in.CurrentSkills, _ = cmd.Flags().GetString("skills")
		in.Goals, _ = cmd.Flags().GetString("goals")
		in.ExperienceLevel, _ = cmd.Flags().GetString("level")
		in.Timeline, _ = cmd.Flags().GetString("timeline")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		svc, err := e.coach(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Generating a roadmap for %s...\n", in.CareerPath)
		out, err := svc.GenerateRoadmap(ctx, in)
		if err != nil {
			return err
		}

		return saveAndShow(cmd, e, store.SavedRoadmap{
			CareerPath:        in.CareerPath,
			Text:              out.Roadmap,
			EstimatedDuration: out.EstimatedDuration,
			DifficultyLevel:   out.DifficultyLevel,
			Source:            store.SourceCareer,
		})
	},
}

var generateSyllabusCmd = &cobra.Command{
	Use:   "syllabus",
	Short: "Generate a study plan from a syllabus file",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read syllabus: %w", err)
		}

		in := coach.SyllabusInput{SyllabusContent: string(data)}
		in.TotalDuration, _ = cmd.Flags().GetString("duration")
		in.StudyHoursPerWeek, _ = cmd.Flags().GetInt("hours")
		in.PriorityFocus, _ = cmd.Flags().GetString("focus")
		in.ExamDate, _ = cmd.Flags().GetString("exam-date")
		in.CurrentProgress, _ = cmd.Flags().GetString("progress")
		name, _ := cmd.Flags().GetString("name")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		svc, err := e.coach(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.ErrOrStderr(), "Analyzing syllabus...")
		out, err := svc.GenerateSyllabusRoadmap(ctx, in)
		if err != nil {
			return err
		}

		if name == "" {
			name = titleOf(out.Roadmap, "Study Plan")
		}
		return saveAndShow(cmd, e, store.SavedRoadmap{
			CareerPath:        name,
			Text:              out.Roadmap,
			EstimatedDuration: out.EstimatedDuration,
			DifficultyLevel:   out.DifficultyLevel,
			Source:            store.SourceSyllabus,
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.md>",
	Short: "Save a hand-written roadmap",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read roadmap: %w", err)
		}
		text := string(data)
		if len(roadmap.Parse(text)) == 0 {
			return fmt.Errorf("%s contains no roadmap items", args[0])
		}

		career, _ := cmd.Flags().GetString("career")
		if career == "" {
			career = titleOf(text, "")
		}
		if career == "" {
			return fmt.Errorf("--career is required when the file has no # title")
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		return saveAndShow(cmd, e, store.SavedRoadmap{
			CareerPath: career,
			Text:       text,
			Source:     store.SourceImport,
		})
	},
}

// titleOf derives a name from the roadmap title, dropping a
// "Career Roadmap:" style prefix.
func titleOf(text, fallback string) string {
	title := roadmap.BuildOutline(text).Title
	if _, after, ok := strings.Cut(title, ":"); ok {
		title = after
	}
	if title = strings.TrimSpace(title); title != "" {
		return title
	}
	return fallback
}

func saveAndShow(cmd *cobra.Command, e *env, r store.SavedRoadmap) error {
	ctx := cmd.Context()
	saved, err := e.library.Save(ctx, r)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	forest := roadmap.Parse(saved.Text)
	fmt.Fprintf(w, "Saved %s (%d items)", theme.Title.Render(saved.CareerPath), roadmap.LeafCount(forest))
	if saved.EstimatedDuration != "" {
		fmt.Fprintf(w, ", %s", saved.EstimatedDuration)
	}
	if saved.DifficultyLevel != "" {
		fmt.Fprintf(w, ", %s", saved.DifficultyLevel)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Hint.Render("Run `questmap show` to see it."))
	return nil
}

func init() {
	generateCmd.Flags().String("career", "", "Desired career path (required)")
	generateCmd.Flags().String("skills", "", "Current skills")
	generateCmd.Flags().String("goals", "", "Learning goals")
	generateCmd.Flags().String("level", "beginner", "Experience level: beginner, intermediate or advanced")
	generateCmd.Flags().String("timeline", "", "Desired timeline, e.g. \"6 months\"")
	_ = generateCmd.MarkFlagRequired("career")

	generateSyllabusCmd.Flags().StringP("file", "f", "", "Syllabus text file (required)")
	generateSyllabusCmd.Flags().String("duration", "3 months", "Total time available")
	generateSyllabusCmd.Flags().Int("hours", 10, "Study hours per week")
	generateSyllabusCmd.Flags().String("focus", "", "Priority focus")
	generateSyllabusCmd.Flags().String("exam-date", "", "Exam date")
	generateSyllabusCmd.Flags().String("progress", "", "Topics already covered")
	generateSyllabusCmd.Flags().String("name", "", "Name to save the plan under (default: the plan title)")
	_ = generateSyllabusCmd.MarkFlagRequired("file")
	generateCmd.AddCommand(generateSyllabusCmd)

	importCmd.Flags().String("career", "", "Name to save the roadmap under (default: the # title)")
}
