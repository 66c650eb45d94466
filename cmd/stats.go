package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/satprep/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		st, err := env.engine.GetStats(cmd.Context(), env.learner)
		if err != nil {
			return err
		}
		if st == nil {
			fmt.Fprintln(cmd.OutOrStdout(), report.Stats(nil, nil, 0, time.Now()))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Stats(st.Summary, st.Recent, env.settings.Engine.WeakThreshold, time.Now()))
		return nil
	},
}

var weakCmd = &cobra.Command{
	Use:   "weak",
	Short: "Rank attempted sections by accuracy, weakest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		weak, err := env.engine.GetWeakAreas(cmd.Context(), env.learner)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.WeakAreas(weak, env.engine.WeakThreshold()))
		return nil
	},
}
