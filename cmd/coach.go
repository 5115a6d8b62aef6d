package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/questmap/internal/coach"
	"github.com/abhisek/questmap/internal/roadmap"
	"github.com/abhisek/questmap/internal/theme"
)

var mentorCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Ask the AI mentor for guidance on the current roadmap",
	RunE: func(cmd *cobra.Command, args []string) error {
		career, _ := cmd.Flags().GetString("career")
		challenges, _ := cmd.Flags().GetString("challenges")
		recent, _ := cmd.Flags().GetString("recent")

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
		svc, err := e.coach(ctx)
		if err != nil {
			return err
		}

		in := coach.MentorInputFromStats(r.CareerPath, tr.Stats(roadmap.Parse(r.Text)), challenges)
		in.RecentActivity = recent

		g, err := svc.MentorGuidance(ctx, in)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, theme.Section.Render("Guidance"))
		fmt.Fprintln(w, g.Guidance)
		fmt.Fprintln(w)
		fmt.Fprintln(w, theme.Section.Render("Next Steps"))
		fmt.Fprintln(w, g.NextSteps)
		fmt.Fprintln(w)
		fmt.Fprintln(w, theme.Card.Render(theme.XP.Render(g.Motivation)))
		return nil
	},
}

var learnCmd = &cobra.Command{
	Use:   "learn [topic]...",
	Short: "Find learning resources for topics or roadmap items",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("level")
		items, _ := cmd.Flags().GetStringSlice("item")
		if len(args) == 0 && len(items) == 0 {
			return fmt.Errorf("name at least one topic or --item")
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		topics := args
		if len(items) > 0 {
			labels, err := itemLabels(cmd, e, items)
			if err != nil {
				return err
			}
			topics = append(topics, labels...)
		}

		svc, err := e.coach(ctx)
		if err != nil {
			return err
		}

		results, err := svc.ResourcesFor(ctx, topics, level)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for i, res := range results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			renderResources(w, res)
		}
		return nil
	},
}

// itemLabels resolves roadmap item ids of the current roadmap to topic
// labels.
func itemLabels(cmd *cobra.Command, e *env, ids []string) ([]string, error) {
	r, err := e.roadmapFor(cmd.Context(), "")
	if err != nil {
		return nil, err
	}
	forest := roadmap.Parse(r.Text)
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		n := roadmap.Find(forest, id)
		if n == nil {
			return nil, fmt.Errorf("no item %s in %s", id, r.CareerPath)
		}
		label := roadmap.CleanLabel(n.Text)
		// "Skill: description" keeps the skill name only.
		if name, _, ok := strings.Cut(label, ":"); ok && strings.TrimSpace(name) != "" {
			label = strings.TrimSpace(name)
		}
		labels = append(labels, label)
	}
	return labels, nil
}

func renderResources(w io.Writer, r coach.Resources) {
	fmt.Fprintln(w, theme.Title.Render(r.Topic))
	fmt.Fprintln(w, r.TopicOverview)
	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Section.Render("Learning Path"))
	fmt.Fprintln(w, r.LearningPath)

	list := func(name string, items []coach.Resource) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, theme.Section.Render(name))
		for _, it := range items {
			meta := []string{it.Type, it.Difficulty, it.EstimatedTime}
			if it.Price != "" {
				meta = append(meta, it.Price)
			}
			fmt.Fprintf(w, "- %s %s\n  %s\n  %s\n", it.Title,
				theme.Hint.Render("("+strings.Join(meta, ", ")+")"), it.Description, theme.ID.Render(it.URL))
		}
	}
	list("Free Resources", r.FreeResources)
	list("Premium Resources", r.PremiumResources)
	list("Certifications", r.Certifications)
	list("Community", r.CommunityResources)

	if len(r.PracticeProjects) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, theme.Section.Render("Practice Projects"))
		for _, p := range r.PracticeProjects {
			fmt.Fprintf(w, "- %s\n", p)
		}
	}
}

func init() {
	mentorCmd.Flags().String("career", "", "Roadmap to discuss (default: current)")
	mentorCmd.Flags().String("challenges", "", "What you are struggling with")
	mentorCmd.Flags().String("recent", "", "Recent learning activity")

	learnCmd.Flags().String("level", "", "Your level with the topics")
	learnCmd.Flags().StringSlice("item", nil, "Roadmap item id of the current roadmap to look up (repeatable)")
}
