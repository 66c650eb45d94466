package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/practice"
	"github.com/abhisek/satprep/internal/report"
)

var practiceCmd = &cobra.Command{
	Use:     "practice [section]",
	Aliases: []string{"play"},
	Short:   "Start an interactive practice session",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		section := ""
		if len(args) == 1 {
			section = args[0]
		}
		return runPractice(cmd, section)
	},
}

// runPractice opens the store and launches the TUI.
func runPractice(cmd *cobra.Command, section string) error {
	var sec catalog.Section
	if section != "" {
		var err error
		if sec, err = catalog.ParseSection(section); err != nil {
			return err
		}
	}

	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	res, err := practice.Run(cmd.Context(), env.engine, practice.Options{
		Learner:         env.learner,
		Lang:            env.lang,
		Section:         sec,
		QuestionTimeout: env.settings.Engine.QuestionTimeout,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Answered %d, correct %d", res.Answered, res.Correct)
	if res.Expired > 0 {
		fmt.Fprintf(out, ", timed out %d", res.Expired)
	}
	fmt.Fprintln(out)
	if res.Session != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, report.Session(*res.Session, time.Now()))
	}
	return nil
}
