// Package categories implements the categories command that lists the
// configured categories alongside the number of questions stored for each.
package categories

import (
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/mcqer/cmd/common"
	"github.com/jonesrussell/mcqer/internal/database"
)

// Command returns the categories command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories and stored question counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			store, closeStore, err := common.OpenStore(cmd.Context(), deps)
			if err != nil {
				return err
			}
			defer closeStore()

			counts, err := store.CategoryCounts(cmd.Context())
			if err != nil {
				return err
			}

			Render(cmd.OutOrStdout(), deps.Config.Crawler.Categories, counts)
			return nil
		},
	}
}

// Render writes a table of categories: every configured category in order,
// then any stored category no longer configured.
func Render(w io.Writer, configured []string, counts []database.CategoryCount) {
	stored := make(map[string]int, len(counts))
	for _, c := range counts {
		stored[c.Category] = c.Count
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Category", "Configured", "Questions"})

	total := 0
	seen := make(map[string]struct{}, len(configured))
	for _, name := range configured {
		seen[name] = struct{}{}
		total += stored[name]
		t.AppendRow(table.Row{name, "yes", stored[name]})
	}

	var extra []string
	for name := range stored {
		if _, ok := seen[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		total += stored[name]
		t.AppendRow(table.Row{name, "no", stored[name]})
	}

	t.AppendFooter(table.Row{"Total", "", total})
	t.Render()
}
