package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdrill/internal/analytics"
	"github.com/abhisek/quizdrill/internal/progress"
	"github.com/abhisek/quizdrill/internal/question"
	"github.com/abhisek/quizdrill/internal/round"
	"github.com/abhisek/quizdrill/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start or resume a practice round",
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

		if err := cfg.EnsureDataDir(); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}

		repo, prog := openBank(cfg, log)

		kv, err := store.Open(cfg.SessionDBPath())
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		defer kv.Close()

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		machine := round.NewMachine(prog, kv, rng, log)

		includeWrong, _ := cmd.Flags().GetBool("include-wrong")
		percent, _ := cmd.Flags().GetInt("percent")
		if !cmd.Flags().Changed("include-wrong") {
			includeWrong = cfg.Practice.IncludeWrong
		}
		if !cmd.Flags().Changed("percent") {
			percent = cfg.Practice.CorrectPercent
		}

		out := cmd.OutOrStdout()
		in := bufio.NewScanner(cmd.InOrStdin())

		restored, err := machine.Restore()
		if err != nil {
			return err
		}
		if restored {
			fmt.Fprintln(out, dimStyle.Render("Resuming the round you left off."))
		} else {
			started, err := startRound(out, machine, repo, prog, rng, round.PoolOptions{
				IncludeWrong:   includeWrong,
				CorrectPercent: percent,
			})
			if err != nil {
				return err
			}
			if !started {
				return nil
			}
		}

		return runRound(out, in, machine)
	},
}

func init() {
	playCmd.Flags().Bool("include-wrong", false, "Also practice previously wrong questions plus a sampled share of correct ones")
	playCmd.Flags().Int("percent", 0, "Percentage [0,100] of previously correct questions to mix back in")
}

// startRound partitions the bank, reports the standing, and starts a
// round over the sampled pool. Returns false when there is nothing to
// practice.
func startRound(out io.Writer, machine *round.Machine, repo *question.Repository, prog *progress.Store, rng *rand.Rand, opts round.PoolOptions) (bool, error) {
	questions, err := repo.LoadAll()
	if err != nil {
		return false, err
	}
	if len(questions) == 0 {
		fmt.Fprintf(out, "No quizzes found in %s\n", repo.Path())
		return false, nil
	}

	history, err := prog.Load()
	if err != nil {
		return false, err
	}

	part := round.PartitionQuestions(questions, history)
	fmt.Fprintf(out, "Answered correctly: %d — incorrectly: %d — not answered: %d\n",
		len(part.Correct), len(part.Incorrect), len(part.Unanswered))

	pool, err := round.NewSampler(rng).BuildPool(part, opts)
	if err != nil {
		if errors.Is(err, round.ErrEmptyPool) {
			fmt.Fprintln(out, "No quizzes left to answer for this round. Try --include-wrong.")
			return false, nil
		}
		return false, err
	}

	if err := machine.Start(pool); err != nil {
		return false, err
	}
	fmt.Fprintf(out, "Starting a round of %d questions.\n\n", len(pool))
	return true, nil
}

// runRound drives the interactive prompt loop until the round ends.
func runRound(out io.Writer, in *bufio.Scanner, machine *round.Machine) error {
	for machine.State() == round.StateInProgress {
		r := machine.Round()

		if r.Answered {
			q := &r.Questions[r.Position]
			fmt.Fprintln(out, renderFeedback(q, r.Results[r.Position]))
			fmt.Fprint(out, dimStyle.Render("Press Enter for the next question... "))
			readLine(in)
			if err := machine.Next(); err != nil {
				return err
			}
			fmt.Fprintln(out)
			continue
		}

		q := machine.Current()
		fmt.Fprintln(out, renderQuestion(q, r.Position, len(r.Questions)))
		fmt.Fprintln(out, renderStats("Round progress", analytics.OverallStats(r.Results)))
		fmt.Fprint(out, "Answer (numbers), [s]kip, [r]estart, [q]uit round: ")

		input := strings.TrimSpace(readLine(in))
		switch strings.ToLower(input) {
		case "s":
			if err := machine.Next(); err != nil {
				return err
			}
			fmt.Fprintln(out)
		case "r":
			if confirm(out, in, "Restarting loses current round progress. Restart?") {
				if err := machine.Restart(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Starting new round...")
			}
		case "q":
			return finishRound(out, in, machine, "Round stopped.")
		default:
			selected, err := parseSelection(input, len(q.Options))
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render(err.Error()))
				continue
			}
			if _, err := machine.Submit(selected); err != nil {
				if errors.Is(err, round.ErrNoSelection) {
					fmt.Fprintln(out, errorStyle.Render("Please select at least one answer before submitting."))
					continue
				}
				return err
			}
		}
	}

	if machine.State() == round.StateCompleted {
		return finishRound(out, in, machine, "Round complete — no more questions in this shuffled round.")
	}
	return nil
}

// finishRound shows final round stats and asks whether to merge results
// into overall progress.
func finishRound(out io.Writer, in *bufio.Scanner, machine *round.Machine, heading string) error {
	r := machine.Round()
	fmt.Fprintln(out, titleStyle.Render(heading))
	fmt.Fprintln(out, renderStats("Round results", analytics.OverallStats(r.Results)))

	if len(r.Results) == 0 {
		machine.Clear()
		fmt.Fprintln(out, "Nothing was answered; round discarded.")
		return nil
	}

	if confirm(out, in, "Save round results to overall progress?") {
		if err := machine.StopAndSave(); err != nil {
			return err
		}
		fmt.Fprintln(out, successStyle.Render("Round results merged into overall progress."))
	} else {
		machine.Clear()
		fmt.Fprintln(out, "Round data cleared.")
	}
	return nil
}

// parseSelection converts 1-based option numbers like "1" or "1,3" into
// 0-based indices.
func parseSelection(input string, optionCount int) ([]int, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("please select at least one answer before submitting")
	}

	seen := make(map[int]bool, len(fields))
	selected := make([]int, 0, len(fields))
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 || n > optionCount {
			return nil, fmt.Errorf("%q is not an option number between 1 and %d", field, optionCount)
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		selected = append(selected, n-1)
	}
	return selected, nil
}

func confirm(out io.Writer, in *bufio.Scanner, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	answer := strings.ToLower(strings.TrimSpace(readLine(in)))
	return answer == "y" || answer == "yes"
}

func readLine(in *bufio.Scanner) string {
	if in.Scan() {
		return in.Text()
	}
	return ""
}
