// Package export implements the export command that writes stored questions
// as Anki flash-card files.
package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/mcqer/cmd/common"
	flashcards "github.com/jonesrussell/mcqer/internal/export"
)

// Command returns the export command.
func Command() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored questions as Anki flash-card files",
		Long: `Write one tab-separated, HTML-enabled text file per stored category.
Each file can be imported into its own Anki deck.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			if outDir == "" {
				outDir = deps.Config.Export.OutputDir
			}

			store, closeStore, err := common.OpenStore(cmd.Context(), deps)
			if err != nil {
				return err
			}
			defer closeStore()

			out := cmd.OutOrStdout()
			exp := flashcards.New(store, deps.Logger, func(msg string) {
				_, _ = fmt.Fprintln(out, msg)
			})

			n, err := exp.Export(cmd.Context(), outDir)
			if err != nil {
				return fmt.Errorf("export flash cards: %w", err)
			}

			_, _ = fmt.Fprintf(out, "Wrote %d flash-card files to %s\n", n, outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default export.output_dir)")

	return cmd
}
