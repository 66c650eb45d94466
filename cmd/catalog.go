package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/satprep/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the question catalog",
}

var catalogLoadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Load questions from a JSON catalog file",
	Long: `Load questions from a JSON file shaped as
{"math": [{"question": {"en": "...", "ar": "..."}, "options": [...], "answer": "...",
"explanation": {...}, "difficulty": 1}], "reading": [...], "writing": [...]}.

Without a file the bundled seed catalog is loaded. Unless --force is set,
questions are only loaded into an empty catalog.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		var (
			questions []catalog.Question
			err       error
		)
		if len(args) == 1 {
			questions, err = catalog.LoadFile(args[0])
		} else {
			questions, err = catalog.Seed()
		}
		if err != nil {
			return err
		}

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		var n int
		if force {
			n, err = env.engine.LoadCatalog(ctx, questions)
		} else {
			n, err = env.engine.EnsureCatalog(ctx, questions)
		}
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Catalog already has questions; nothing loaded (use --force to append).")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d questions.\n", n)
		return nil
	},
}

func init() {
	catalogLoadCmd.Flags().Bool("force", false, "Append even when the catalog is not empty")
	catalogCmd.AddCommand(catalogLoadCmd)
}
