package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smart-expense/internal/cli"
	"github.com/Veraticus/smart-expense/internal/csvfile"
	"github.com/Veraticus/smart-expense/internal/currency"
	"github.com/Veraticus/smart-expense/internal/model"
	"github.com/Veraticus/smart-expense/internal/ofx"
)

// suggester fills in a category for an imported transaction.
type suggester func(ctx context.Context, typ model.TransactionType, description string) string

// batchSaver is the part of the store an import writes to.
type batchSaver interface {
	SaveBatch(ctx context.Context, txns []model.Transaction) (int, error)
}

func importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX/QFX or CSV files",
		Long: `Import transactions from bank statements (OFX or QFX) or from a CSV file
in the format written by 'expense export'.

Importing the same statement twice updates the existing rows instead of
duplicating them. Categories are suggested from each description.`,
		Example: `  # Import a statement downloaded from your bank
  expense import ~/Downloads/checking_jan.qfx

  # Import every statement in a directory
  expense import ~/Downloads/*.ofx

  # Restore from an export
  expense import expenses.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectFiles(args)
			if err != nil {
				return err
			}

			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			loc, err := a.settings.Location()
			if err != nil {
				return err
			}
			rec, err := a.recorder()
			if err != nil {
				return err
			}

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import interrupted. Files already imported were kept.")
			ctx := handler.HandleInterrupts(cmd.Context())
			defer handler.Stop()

			im := importer{
				parser:  ofx.NewParser(a.rates),
				loc:     loc,
				suggest: rec.SuggestCategory,
				progress: func(total int, desc string) progressTracker {
					return cli.NewProgressBar(cmd.ErrOrStderr(), total, desc)
				},
			}
			if dryRun {
				return im.preview(ctx, cmd.OutOrStdout(), files, a.currencyCode())
			}
			return im.run(ctx, cmd.OutOrStdout(), a.store, files)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "preview import without saving")
	return cmd
}

// progressTracker is satisfied by *progressbar.ProgressBar.
type progressTracker interface {
	Add(n int) error
	Finish() error
}

type importer struct {
	parser   *ofx.Parser
	loc      *time.Location
	suggest  suggester
	progress func(total int, description string) progressTracker
}

// run imports each file in its own batch so an interrupted import keeps
// the files that were already saved.
func (im importer) run(ctx context.Context, w io.Writer, store batchSaver, files []string) error {
	var added, updated int
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}

		txns, err := im.load(ctx, path)
		if err != nil {
			return err
		}
		if len(txns) == 0 {
			slog.Warn("No transactions found in file", "file", filepath.Base(path))
			continue
		}

		inserted, err := store.SaveBatch(ctx, txns)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", filepath.Base(path), err)
		}
		added += inserted
		updated += len(txns) - inserted

		slog.Info("Imported file",
			"file", filepath.Base(path),
			"transactions", len(txns),
			"new", inserted)
	}

	fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Imported %d new transactions, updated %d", added, updated)))
	return ctx.Err()
}

// preview parses every file and prints what would be imported.
func (im importer) preview(ctx context.Context, w io.Writer, files []string, code string) error {
	var all []model.Transaction
	for _, path := range files {
		txns, err := im.load(ctx, path)
		if err != nil {
			return err
		}
		all = append(all, txns...)
	}

	fmt.Fprintln(w, cli.RenderTransactions(all, code, im.loc))
	fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("Dry run: %d transactions with %s of expenses not saved",
		len(all), formatTotal(all, code))))
	return nil
}

// load parses one file and suggests categories for rows without one.
func (im importer) load(ctx context.Context, path string) ([]model.Transaction, error) {
	txns, err := im.parse(ctx, path)
	if err != nil {
		return nil, err
	}
	txns = dedupe(txns)

	bar := im.progress(len(txns), "Categorizing "+filepath.Base(path))
	for i := range txns {
		if txns[i].Category == "" {
			txns[i].Category = im.suggest(ctx, txns[i].Type, txns[i].Description)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return txns, nil
}

func (im importer) parse(ctx context.Context, path string) ([]model.Transaction, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		txns, err := im.parser.ParseFile(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return txns, nil
	case ".csv":
		txns, err := csvfile.Read(f, im.loc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return txns, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q (expected .ofx, .qfx or .csv)", filepath.Ext(path))
	}
}

// dedupe keeps the first transaction for each ID.
func dedupe(txns []model.Transaction) []model.Transaction {
	seen := make(map[string]bool, len(txns))
	out := txns[:0]
	for _, t := range txns {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

// collectFiles expands globs, keeping plain paths that exist.
func collectFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

// formatTotal sums the expenses in txns.
func formatTotal(txns []model.Transaction, code string) string {
	var total float64
	for _, t := range txns {
		if t.IsExpense() {
			total += t.Amount
		}
	}
	return currency.Format(total, code)
}
