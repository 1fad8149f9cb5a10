package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smart-expense/internal/cli"
	"github.com/Veraticus/smart-expense/internal/storage"
)

func listCmd() *cobra.Command {
	var (
		filter storage.TransactionFilter
		typ    string
		sort   string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded transactions",
		Example: `  # Ten biggest food expenses
  expense list --category Food --sort highest --limit 10

  # Everything mentioning coffee
  expense list --search coffee`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if filter.Type, err = parseTypeFlag(typ); err != nil {
				return err
			}
			if filter.Sort, err = storage.ParseSortOrder(sort); err != nil {
				return err
			}

			txns, err := a.store.Query(ctx, filter)
			if err != nil {
				return err
			}
			total, err := a.store.Count(ctx, filter)
			if err != nil {
				return err
			}

			loc, err := a.settings.Location()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.RenderTransactions(txns, a.currencyCode(), loc))
			if total > len(txns) {
				fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("Showing %d of %d", len(txns), total)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "match description or category")
	cmd.Flags().StringVarP(&filter.Category, "category", "c", "", "only this category")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "only expense or income")
	cmd.Flags().StringVar(&sort, "sort", "newest", "newest, oldest, highest or lowest")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 50, "maximum rows to show (0 for all)")
	return cmd
}
