package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizdrill/internal/analytics"
	"github.com/abhisek/quizdrill/internal/config"
	"github.com/abhisek/quizdrill/internal/logger"
	"github.com/abhisek/quizdrill/internal/progress"
	"github.com/abhisek/quizdrill/internal/question"
	"github.com/abhisek/quizdrill/internal/round"
)

var rootCmd = &cobra.Command{
	Use:   "quizdrill",
	Short: "Personal quiz practice with progress tracking",
	Long:  "Quizdrill — terminal quiz-practice tool that runs shuffled rounds over a local question bank and tracks per-topic knowledge gaps.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The bare command shows the progress overview.
		return runOverview(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding quizzes.jsonl, progress.json and session.db (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration with the --data-dir flag taking
// priority over config file and environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the zap logger for cfg's environment.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// openBank wires the question repository and progress store for cfg.
func openBank(cfg *config.Config, log *zap.Logger) (*question.Repository, *progress.Store) {
	repo := question.NewRepository(cfg.QuizzesPath(), log)
	prog := progress.NewStore(cfg.ProgressPath(), cfg.Practice.LenientProgress, log)
	return repo, prog
}

// runOverview prints the dashboard numbers: bank size and answer history.
func runOverview(cmd *cobra.Command) error {
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

	stats := analytics.OverallStats(history)
	part := round.PartitionQuestions(questions, history)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Quizdrill"))
	fmt.Fprintf(out, "Total questions: %d\n", len(questions))
	fmt.Fprintf(out, "Unanswered:      %d\n", len(part.Unanswered))
	fmt.Fprintf(out, "Correct:         %s\n", successStyle.Render(fmt.Sprintf("%d", stats.Correct)))
	fmt.Fprintf(out, "Wrong:           %s\n", errorStyle.Render(fmt.Sprintf("%d", stats.Wrong)))
	if stats.Asked > 0 {
		fmt.Fprintf(out, "Success rate:    %.1f%%\n", stats.Percent)
	}
	fmt.Fprintln(out, dimStyle.Render("Run 'quizdrill play' to practice or 'quizdrill stats' for knowledge gaps."))
	return nil
}
