package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdrill/internal/analytics"
	"github.com/abhisek/quizdrill/internal/question"
	"github.com/abhisek/quizdrill/internal/round"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show overall accuracy and per-topic knowledge gaps",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		repo, prog := openBank(cfg, log)
		questions, err := repo.LoadAll()
		if err != nil {
			return err
		}
		history, err := prog.Load()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(questions) == 0 {
			fmt.Fprintf(out, "No quizzes found in %s\n", repo.Path())
			return nil
		}

		stats := analytics.OverallStats(history)
		part := round.PartitionQuestions(questions, history)
		fmt.Fprintln(out, renderStats("Overall", stats))
		fmt.Fprintf(out, "Unanswered: %d of %d\n\n", len(part.Unanswered), len(questions))

		selector, _ := cmd.Flags().GetString("selector")
		selectors := question.TopicSelectors
		if selector != "" {
			selectors = []string{selector}
		}

		topN, _ := cmd.Flags().GetInt("top-n")
		for _, sel := range selectors {
			dist := analytics.TopicDistribution(questions, sel, topN)
			if len(dist) == 0 {
				continue
			}
			fmt.Fprintln(out, titleStyle.Render("Topic distribution: "+sel))
			fmt.Fprint(out, renderDistribution(dist))
			fmt.Fprintln(out)
		}

		if stats.Asked == 0 {
			fmt.Fprintln(out, dimStyle.Render("No progress found. Answer some quizzes to see your knowledge gaps."))
			return nil
		}

		filter, err := gapFilterFromFlags(cmd)
		if err != nil {
			return err
		}
		for _, sel := range selectors {
			rows := analytics.TopicGapTable(questions, history, sel, filter)
			fmt.Fprintln(out, titleStyle.Render("Knowledge gap: "+sel))
			if len(rows) == 0 {
				fmt.Fprintln(out, dimStyle.Render("  No topics match the current filters."))
			} else {
				fmt.Fprint(out, renderGapTable(rows))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("selector", "", "Single topic set to report (gcp_topics, gcp_products, ml_topics); default all")
	statsCmd.Flags().Int("min-attempts", 5, "Hide topics with fewer attempts")
	statsCmd.Flags().Float64("max-accuracy", 0.8, "Hide topics above this accuracy")
	statsCmd.Flags().Int("top", 25, "Maximum gap rows per topic set (0 = unlimited)")
	statsCmd.Flags().Int("top-n", 20, "Maximum distribution rows per topic set (0 = unlimited)")
	statsCmd.Flags().String("sort", "gap", "Gap table order: gap, accuracy, or attempts")
}

// gapFilterFromFlags assembles the analytics filter from stats flags.
func gapFilterFromFlags(cmd *cobra.Command) (analytics.GapFilter, error) {
	minAttempts, _ := cmd.Flags().GetInt("min-attempts")
	maxAccuracy, _ := cmd.Flags().GetFloat64("max-accuracy")
	topK, _ := cmd.Flags().GetInt("top")
	sortBy, _ := cmd.Flags().GetString("sort")

	filter := analytics.GapFilter{
		MinAttempts: minAttempts,
		MaxAccuracy: maxAccuracy,
		TopK:        topK,
	}
	switch sortBy {
	case "gap":
		filter.SortBy = analytics.SortGapDesc
	case "accuracy":
		filter.SortBy = analytics.SortAccuracyAsc
	case "attempts":
		filter.SortBy = analytics.SortAttemptsDesc
	default:
		return filter, fmt.Errorf("unknown sort key %q (want gap, accuracy, or attempts)", sortBy)
	}
	return filter, nil
}
