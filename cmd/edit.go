package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdrill/internal/question"
)

var editCmd = &cobra.Command{
	Use:   "edit <question-id>",
	Short: "View a question or edit its answer and explanation",
	Long:  "Without flags, shows the stored question. With --answer and/or --explanation, rewrites those fields; everything else is immutable.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return fmt.Errorf("question id must be a positive integer, got %q", args[0])
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		repo, _ := openBank(cfg, log)
		out := cmd.OutOrStdout()

		q, err := findQuestion(repo, id)
		if err != nil {
			return err
		}

		var patch question.Patch
		if cmd.Flags().Changed("answer") {
			raw, _ := cmd.Flags().GetString("answer")
			answer, err := parseSelection(raw, len(q.Options))
			if err != nil {
				return fmt.Errorf("parse --answer: %w", err)
			}
			patch.Answer = answer
		}
		if cmd.Flags().Changed("explanation") {
			explanation, _ := cmd.Flags().GetString("explanation")
			patch.Explanation = &explanation
		}

		if patch.Answer != nil || patch.Explanation != nil {
			if err := repo.Update(id, patch); err != nil {
				return err
			}
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Question %d updated.", id)))
			if q, err = findQuestion(repo, id); err != nil {
				return err
			}
		}

		showQuestion(out, q)
		return nil
	},
}

func init() {
	editCmd.Flags().String("answer", "", "New correct answer as 1-based option numbers, e.g. \"2\" or \"1,3\"")
	editCmd.Flags().String("explanation", "", "New explanation text")
}

// findQuestion loads the bank and returns the question with id.
func findQuestion(repo *question.Repository, id int) (*question.Question, error) {
	questions, err := repo.LoadAll()
	if err != nil {
		return nil, err
	}
	for i := range questions {
		if questions[i].ID == id {
			return &questions[i], nil
		}
	}
	return nil, &question.NotFoundError{ID: id}
}

// showQuestion prints the stored record including the current answer.
func showQuestion(out io.Writer, q *question.Question) {
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Question #%d", q.ID)))
	fmt.Fprintln(out, stripHTML(q.Text))
	fmt.Fprintln(out)
	for i, option := range q.Options {
		fmt.Fprintf(out, "  %d. %s\n", i+1, option)
	}
	fmt.Fprintln(out, "\nCurrent answer:")
	for _, idx := range q.Answer {
		fmt.Fprintf(out, "  - %s\n", q.Options[idx])
	}
	if q.Explanation != "" {
		fmt.Fprintf(out, "\nExplanation:\n%s\n", stripHTML(q.Explanation))
	}
}
