package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smart-expense/internal/cli"
)

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [DEST]",
		Short: "Write a consistent copy of the database",
		Long: `Write a verified copy of the database to DEST. Without DEST the copy is
placed next to the database with a timestamped name.`,
		Example: `  expense backup ~/Backups/expense.db`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			dest := defaultBackupPath(a.store.Path(), time.Now())
			if len(args) == 1 {
				dest = args[0]
			}

			info, err := a.store.Backup(ctx, dest)
			if err != nil {
				return err
			}

			content := fmt.Sprintf("Path: %s\nTransactions: %d\nSize: %d bytes\nSchema: v%d",
				info.Path, info.Transactions, info.FileSize, info.SchemaVersion)
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.SuccessIcon+" Backup created", content))
			return nil
		},
	}
}

func defaultBackupPath(dbPath string, now time.Time) string {
	return fmt.Sprintf("%s.%s.bak", dbPath, now.Format("20060102-150405"))
}
