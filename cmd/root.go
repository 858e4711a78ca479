package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "finwise",
	Short: "Personal finance lessons in your terminal",
	Long: "finwise teaches money basics with short lessons, an interactive compound\n" +
		"interest slider, quizzes and a savings simulator.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a finwise.yaml config file")
	pf.String("db", "", "Path to the progress database (overrides FINWISE_STORE_PATH)")
	pf.String("user", "", "User whose progress is tracked (overrides FINWISE_USER)")
	pf.String("locale", "", "Lesson language, e.g. en or es")
	pf.String("store", "", "Progress store engine: sqlite, json, redis or memory")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(rewardCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
