package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smart-expense/internal/cli"
)

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID...",
		Aliases: []string{"rm"},
		Short:   "Delete transactions",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, id := range args {
				if err := a.store.Delete(ctx, id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted "+id))
			}
			return nil
		},
	}
}
