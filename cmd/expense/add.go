package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Veraticus/smart-expense/internal/cli"
	"github.com/Veraticus/smart-expense/internal/common"
	"github.com/Veraticus/smart-expense/internal/currency"
	"github.com/Veraticus/smart-expense/internal/entry"
	"github.com/Veraticus/smart-expense/internal/model"
	"github.com/Veraticus/smart-expense/internal/tui"
)

const dateFlagLayout = "2006-01-02"

// entryFlags are shared by add and edit.
type entryFlags struct {
	description string
	category    string
	typ         string
	currency    string
	date        string
	yes         bool
	plain       bool
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "description", "m", "", "what the money was for")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category (suggested from the description when empty)")
	cmd.Flags().StringVarP(&f.typ, "type", "t", "", "expense or income")
	cmd.Flags().StringVar(&f.currency, "currency", "", "currency of the amount (default: base currency)")
	cmd.Flags().StringVar(&f.date, "date", "", "transaction date (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "save unusual amounts without asking")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "ask questions as plain text instead of the interactive prompt")
}

func addCmd() *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "add AMOUNT [DESCRIPTION]",
		Short: "Record an expense or income",
		Long: `Record a new transaction.

Expenses that are unusually large for their category are held back until you
confirm them.`,
		Example: `  # Lunch, category suggested from the description
  expense add 12.50 "Chipotle lunch"

  # Monthly salary
  expense add 3200 "Payroll" --type income

  # Paid abroad, converted to the base currency
  expense add 40 "Museum tickets" --currency EUR --date 2024-06-01`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) > 1 && flags.description == "" {
				flags.description = args[1]
			}
			draft, err := flags.draft(args[0], a.settings.Location)
			if err != nil {
				return err
			}

			return saveDraft(ctx, cmd, a, draft, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func editCmd() *cobra.Command {
	var flags entryFlags
	var amount string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a recorded transaction",
		Long: `Change the amount, description, category, type or date of a transaction.
Fields without a flag keep their current value.`,
		Example: `  expense edit 6f1c2a9e-... --amount 14.20 --category "Food & Drink"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			existing, err := a.store.GetTransaction(ctx, args[0])
			if err != nil {
				return err
			}

			draft, err := editDraft(*existing, amount, flags, a.settings.Location)
			if err != nil {
				return err
			}

			return saveDraft(ctx, cmd, a, draft, flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "new amount")
	return cmd
}

// draft builds a new-entry draft from the command line.
func (f entryFlags) draft(amount string, location func() (*time.Location, error)) (entry.Draft, error) {
	typ, err := parseTypeFlag(f.typ)
	if err != nil {
		return entry.Draft{}, err
	}
	date, err := parseDateFlag(f.date, location)
	if err != nil {
		return entry.Draft{}, err
	}
	return entry.Draft{
		Date:        date,
		Amount:      amount,
		Currency:    strings.ToUpper(f.currency),
		Description: f.description,
		Category:    f.category,
		Type:        typ,
	}, nil
}

// editDraft starts from the existing transaction and applies only the flags given.
func editDraft(existing model.Transaction, amount string, f entryFlags, location func() (*time.Location, error)) (entry.Draft, error) {
	d := entry.Draft{
		Editing:     &existing,
		Amount:      strconv.FormatFloat(existing.Amount, 'f', 2, 64),
		Description: existing.Description,
		Category:    existing.Category,
		Type:        existing.Type,
	}

	if amount != "" {
		d.Amount = amount
		d.Currency = strings.ToUpper(f.currency)
	}
	if f.description != "" {
		d.Description = f.description
	}
	if f.category != "" {
		d.Category = f.category
	}
	if f.typ != "" {
		typ, err := parseTypeFlag(f.typ)
		if err != nil {
			return entry.Draft{}, err
		}
		d.Type = typ
	}
	if f.date != "" {
		date, err := parseDateFlag(f.date, location)
		if err != nil {
			return entry.Draft{}, err
		}
		d.Date = date
	}
	return d, nil
}

// saveDraft records d and shows the refreshed budget once the save has
// been folded into a new analytics pass.
func saveDraft(ctx context.Context, cmd *cobra.Command, a *app, d entry.Draft, flags entryFlags) error {
	runner := a.runner()
	rec, err := a.recorder(entry.WithOnSaved(func(ctx context.Context, _ model.Transaction) {
		runner.Refresh(ctx)
	}))
	if err != nil {
		return err
	}

	if err := recordDraft(ctx, cmd, rec, d, flags, a.currencyCode()); err != nil {
		return err
	}

	runner.Wait()
	if res, ok := runner.Latest(); ok {
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBudget(res.Budget, a.currencyCode()))
	}
	return nil
}

// recordDraft saves d, asking for confirmation when the amount looks unusual.
func recordDraft(ctx context.Context, cmd *cobra.Command, rec *entry.Recorder, d entry.Draft, flags entryFlags, code string) error {
	d.Confirmed = flags.yes

	result, err := rec.Record(ctx, d)
	if entry.IsAnomalyHold(err) {
		ok, askErr := confirmAnomaly(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), result.Anomaly, flags.plain)
		if askErr != nil {
			return askErr
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing saved"))
			return nil
		}
		d.Confirmed = true
		result, err = rec.Record(ctx, d)
	}
	if err != nil {
		return err
	}

	t := result.Transaction
	verb := "Saved"
	if !d.IsNew() {
		verb = "Updated"
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s %s %s in %s (%s)",
		verb, t.Type, currency.Format(t.Amount, code), t.CategoryOrDefault(), t.ID)))
	return nil
}

func confirmAnomaly(ctx context.Context, in io.Reader, out io.Writer, anomaly model.AnomalyResult, plain bool) (bool, error) {
	if plain || !isTerminal(in) {
		fmt.Fprintln(out, cli.RenderAnomaly(anomaly))
		return cli.Confirm(ctx, cli.NewLineReader(in), out, "Save anyway?")
	}
	return tui.ConfirmAnomaly(ctx, tui.IO{In: in, Out: out}, anomaly)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func parseTypeFlag(s string) (model.TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "expense":
		return model.TypeExpense, nil
	case "income":
		return model.TypeIncome, nil
	default:
		return "", common.NewUserError("Type must be expense or income", fmt.Errorf("%w: type %q", common.ErrInvalidInput, s))
	}
}

// parseDateFlag parses a YYYY-MM-DD date at noon in the configured zone.
// An empty value returns the zero time.
func parseDateFlag(s string, location func() (*time.Location, error)) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	loc, err := location()
	if err != nil {
		return time.Time{}, err
	}
	day, err := time.ParseInLocation(dateFlagLayout, s, loc)
	if err != nil {
		return time.Time{}, common.NewUserError("Dates look like 2024-06-01", fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}
	return day.Add(12 * time.Hour), nil
}
