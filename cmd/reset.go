package cmd

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget all answer history",
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

		out := cmd.OutOrStdout()
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			in := bufio.NewScanner(cmd.InOrStdin())
			if !confirm(out, in, "This deletes all recorded progress. Continue?") {
				fmt.Fprintln(out, "Reset cancelled.")
				return nil
			}
		}

		_, prog := openBank(cfg, log)
		if err := prog.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(out, successStyle.Render("Progress reset."))
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("force", false, "Skip the confirmation prompt")
}
