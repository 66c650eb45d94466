package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/satprep/internal/explain"
	"github.com/abhisek/satprep/internal/report"
)

var explainCmd = &cobra.Command{
	Use:   "explain <concept>",
	Short: "Explain an SAT concept with the configured LLM",
	Long: `Explain a concept in simple terms with a worked example and test tips.
The answer follows --lang.`,
	Example: `  satprep explain "quadratic formula"
  satprep explain --lang ar main idea`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		provider, err := env.provider(ctx)
		if err != nil {
			return err
		}
		e, err := explain.New(provider).Concept(ctx, strings.Join(args, " "), env.lang)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Explanation(e))
		return nil
	},
}
