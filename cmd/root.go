package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "satprep",
	Short: "Adaptive SAT practice in the terminal",
	Long: `satprep picks SAT practice questions from your answer history, tracks
study sessions and shows where you are weak. Questions can be shown in
English or Arabic.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd, "")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides SATPREP_DB env var)")
	pf.String("config", "", "Path to config.toml (default $XDG_CONFIG_HOME/satprep/config.toml)")
	pf.String("env-file", ".env", "Optional .env file with API keys")
	pf.String("learner", "", "Learner ID (default SATPREP_LEARNER or $USER)")
	pf.String("lang", "en", "Display language: en or ar")
	pf.BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(weakCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(adaptiveCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
