package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		user, err := e.requireUser()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		ach, err := e.tracker.Achievements(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Progress for %s\n\n", user)
		fmt.Fprintf(out, "  Lessons completed: %d\n", ach.LessonsCompleted)
		fmt.Fprintf(out, "  Achievements:      %d/3\n", ach.UnlockedCount())
		fmt.Fprintf(out, "  Reward:            %s\n", rewardLabel(ach.AllUnlocked(), ach.RewardCollected))

		correct, total, err := e.engine.Events.QuizAccuracy(ctx, user)
		if err != nil {
			e.logger.Warn("quiz accuracy", zap.Error(err))
		} else if total > 0 {
			fmt.Fprintf(out, "  Quiz accuracy:     %d/%d (%.0f%%)\n", correct, total, 100*float64(correct)/float64(total))
		}

		stats, err := e.engine.Events.LessonStats(ctx, user)
		if err != nil {
			return fmt.Errorf("lesson stats: %w", err)
		}
		if len(stats) == 0 {
			return nil
		}
		fmt.Fprintf(out, "\n  %-6s  %7s  %9s  %s\n", "Lesson", "Started", "Completed", "Score")
		for _, st := range stats {
			score := "-"
			if st.Answered > 0 {
				score = fmt.Sprintf("%d/%d", st.Correct, st.Answered)
			}
			fmt.Fprintf(out, "  %-6s  %7d  %9d  %s\n", st.LessonID, st.Started, st.Completed, score)
		}
		return nil
	},
}

func rewardLabel(eligible, collected bool) string {
	switch {
	case collected:
		return "collected"
	case eligible:
		return "ready to collect (finwise reward collect)"
	default:
		return "locked"
	}
}
