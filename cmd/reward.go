package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/finwise/internal/progress"
)

var rewardCmd = &cobra.Command{
	Use:   "reward",
	Short: "Manage the achievement reward",
}

var rewardCollectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect the reward once every achievement is unlocked",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		if _, err := e.requireUser(); err != nil {
			return err
		}

		status, err := e.tracker.CollectReward(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch status {
		case progress.RewardCollected:
			fmt.Fprintln(out, "Reward collected. Well done!")
		case progress.RewardAlreadyCollected:
			fmt.Fprintln(out, "Reward already collected.")
		default:
			fmt.Fprintln(out, "Not eligible yet: unlock all three achievements first.")
		}
		return nil
	},
}

func init() {
	rewardCmd.AddCommand(rewardCollectCmd)
}
