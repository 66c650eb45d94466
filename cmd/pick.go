package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/report"
	"github.com/abhisek/satprep/internal/ui/components"
)

var pickCmd = &cobra.Command{
	Use:   "pick <section>",
	Short: "Show a random question of a section at a fixed difficulty",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		section, err := catalog.ParseSection(args[0])
		if err != nil {
			return err
		}
		diffVal, _ := cmd.Flags().GetString("difficulty")
		difficulty, err := catalog.ParseDifficulty(diffVal)
		if err != nil {
			return err
		}

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		q, err := env.engine.PickQuestion(cmd.Context(), section, difficulty)
		if err != nil {
			return err
		}
		printQuestion(cmd, q, env.lang)
		return nil
	},
}

var adaptiveCmd = &cobra.Command{
	Use:   "adaptive <section>",
	Short: "Show a question picked from your answer history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		section, err := catalog.ParseSection(args[0])
		if err != nil {
			return err
		}

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		preferWeak := env.settings.Engine.OverrideWeak
		if cmd.Flags().Changed("prefer-weak") {
			preferWeak, _ = cmd.Flags().GetBool("prefer-weak")
		}

		res, err := env.engine.PickAdaptive(cmd.Context(), env.learner, section, preferWeak)
		if err != nil {
			return err
		}
		if res == nil {
			printQuestion(cmd, nil, env.lang)
			return nil
		}

		out := cmd.OutOrStdout()
		if res.Overridden {
			fmt.Fprintf(out, "Switched to your weak section: %s\n", res.Section)
		}
		if res.Relaxed {
			fmt.Fprintf(out, "No %s question left, showing any difficulty.\n", res.Difficulty)
		}
		printQuestion(cmd, &res.Question, env.lang)
		return nil
	},
}

var answerCmd = &cobra.Command{
	Use:   "answer <question-id> <choice>",
	Short: "Answer a question by option letter (A-D) or number (1-4)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid question ID %q: %w", args[0], err)
		}
		taken, _ := cmd.Flags().GetDuration("time")

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		q, err := env.engine.Question(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return fmt.Errorf("question %d not found", id)
		}
		choice, ok := components.ParseChoice(args[1], len(q.OptionsIn(catalog.LangEnglish)))
		if !ok {
			return fmt.Errorf("invalid choice %q for a question with %d options", args[1], len(q.OptionsIn(catalog.LangEnglish)))
		}

		correct, q, err := env.engine.SubmitChoice(ctx, env.learner, id, choice, taken)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Feedback(q, correct, env.lang))
		return nil
	},
}

func printQuestion(cmd *cobra.Command, q *catalog.Question, lang catalog.Lang) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.Question(q, lang))
	if q != nil {
		fmt.Fprintf(out, "\nAnswer with: satprep answer %d <A-D>\n", q.ID)
	}
}

func init() {
	pickCmd.Flags().StringP("difficulty", "d", "any", "Difficulty: easy, medium, hard or any")
	adaptiveCmd.Flags().Bool("prefer-weak", false, "Switch to a weak section when the requested one is not weak")
	answerCmd.Flags().Duration("time", 0, "Time taken to answer, e.g. 45s")
}
