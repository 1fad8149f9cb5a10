package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smart-expense/internal/cli"
	"github.com/Veraticus/smart-expense/internal/csvfile"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all transactions as CSV",
		Example: `  # Write to a file
  expense export -o expenses.csv

  # Pipe somewhere else
  expense export | less`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			txns, err := a.store.FetchAll(ctx)
			if err != nil {
				return err
			}
			loc, err := a.settings.Location()
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(filepath.Clean(output))
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if err := csvfile.Write(w, txns, loc); err != nil {
				return err
			}

			if output != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to %s", len(txns), output)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default: stdout)")
	return cmd
}
