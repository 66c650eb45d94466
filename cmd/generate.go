package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/questiongen"
	"github.com/abhisek/satprep/internal/translate"
)

var generateCmd = &cobra.Command{
	Use:   "generate <section> [difficulty]",
	Short: "Generate new questions with an LLM and add them to the catalog",
	Long: `Generate SAT-style questions for a section with the configured LLM
provider. Each question is translated to Arabic and stored with origin
"generated" unless --dry-run is set.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGenerate,
}

var translateCmd = &cobra.Command{
	Use:   "translate <text>",
	Short: "Translate text between Arabic and English",
	Long: `Translate text between Arabic and English. The source language is
detected automatically; --to picks the target (default en).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toFlag, _ := cmd.Flags().GetString("to")
		to, err := catalog.ParseLang(toFlag)
		if err != nil {
			return err
		}

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
		out, err := translate.New(provider).Text(ctx, strings.Join(args, " "), to)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	translateCmd.Flags().String("to", string(catalog.LangEnglish), "Target language: en or ar")

	generateCmd.Flags().String("topic", "", "Optional topic hint, e.g. \"linear equations\"")
	generateCmd.Flags().IntP("count", "n", 1, "Number of questions to generate")
	generateCmd.Flags().Bool("dry-run", false, "Print questions without storing them")
	generateCmd.Flags().Bool("no-translate", false, "Skip the Arabic translation")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	section, err := catalog.ParseSection(args[0])
	if err != nil {
		return err
	}
	difficulty := catalog.DifficultyAny
	if len(args) == 2 {
		if difficulty, err = catalog.ParseDifficulty(args[1]); err != nil {
			return err
		}
	}
	topic, _ := cmd.Flags().GetString("topic")
	count, _ := cmd.Flags().GetInt("count")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noTranslate, _ := cmd.Flags().GetBool("no-translate")
	if count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", count)
	}

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

	gen := questiongen.New(provider, questiongen.DefaultConfig())
	tr := translate.New(provider)

	avoid, err := env.engine.RecentPrompts(ctx, section, questiongen.DefaultConfig().MaxAvoid)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var stored int
	for i := 1; i <= count; i++ {
		q, err := gen.Generate(ctx, questiongen.Input{
			Section:    section,
			Difficulty: difficulty,
			Topic:      topic,
			Avoid:      avoid,
		})
		if err != nil {
			fmt.Fprintf(out, "Question %d/%d: generation failed: %v\n\n", i, count, err)
			continue
		}
		avoid = append(avoid, q.Prompt.Get(catalog.LangEnglish))

		if !noTranslate {
			if err := tr.Question(ctx, q); err != nil {
				env.logger.Warn("translation failed, storing English only", "error", err)
			}
		}

		if !dryRun {
			if _, err := env.engine.AddQuestion(ctx, q); err != nil {
				return err
			}
			stored++
		}

		fmt.Fprintf(out, "── Question %d/%d ──\n", i, count)
		printQuestion(cmd, q, env.lang)
		fmt.Fprintln(out)
	}

	if !dryRun {
		fmt.Fprintf(out, "Stored %d of %d questions.\n", stored, count)
	}
	return nil
}
