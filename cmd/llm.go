package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/satprep/internal/report"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM usage",
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show LLM token usage and estimated cost by purpose and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		usage, err := env.store.LLMUsage(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.LLMUsage(usage))
		return nil
	},
}

func init() {
	llmCmd.AddCommand(llmStatsCmd)
}
