// Package csvfile reads and writes transactions in the spreadsheet-friendly
// CSV layout used for exports.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/smart-expense/internal/common"
	"github.com/Veraticus/smart-expense/internal/currency"
	"github.com/Veraticus/smart-expense/internal/model"
)

// Header is the first row of every export.
var Header = []string{"Date", "Description", "Category", "Type", "Amount"}

// DateLayout is the export date format, e.g. "Jun 12, 2024".
const DateLayout = "Jan 2, 2006"

var readLayouts = []string{DateLayout, "2006-01-02", time.RFC3339}

// Write exports txns newest first. Dates are rendered in loc.
func Write(w io.Writer, txns []model.Transaction, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range sorted {
		record := []string{
			t.Date.In(loc).Format(DateLayout),
			t.Description,
			t.CategoryOrDefault(),
			typeLabel(t.Type),
			fmt.Sprintf("%.2f", t.Amount),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %s: %w", t.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read imports rows written by Write, or any CSV with the same column names
// in any order. IDs are derived from row content so re-importing a file
// replaces rather than duplicates.
func Read(r io.Reader, loc *time.Location) ([]model.Transaction, error) {
	if loc == nil {
		loc = time.Local
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV header: %w", err)
	}

	headerMap := generateHeaderMap(header)
	for _, col := range []string{"date", "amount"} {
		if _, ok := headerMap[col]; !ok {
			return nil, fmt.Errorf("%w: CSV is missing the %q column", common.ErrInvalidInput, col)
		}
	}

	var txns []model.Transaction
	seen := make(map[string]int)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV row %d: %w", line, err)
		}

		txn, err := parseRecord(record, headerMap, loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		// Identical rows are legitimate (two coffees on one day); keep them distinct.
		key := rowKey(txn)
		seen[key]++
		txn.ID = "csv-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s#%d", key, seen[key]))).String()
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseRecord(record []string, headerMap map[string]int, loc *time.Location) (model.Transaction, error) {
	field := func(name string) string {
		idx, ok := headerMap[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date, err := parseDate(field("date"), loc)
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := currency.ParseAmount(field("amount"))
	if err != nil {
		return model.Transaction{}, err
	}
	value, _ := amount.Float64()

	typ := model.ParseTransactionType(strings.ToLower(field("type")))
	category := field("category")
	if category == "" && typ == model.TypeIncome {
		category = model.CategorySalary
	}

	return model.Transaction{
		Date:        date,
		Description: field("description"),
		Category:    category,
		Type:        typ,
		Amount:      value,
	}, nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range readLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", common.ErrInvalidInput, s)
}

func rowKey(t model.Transaction) string {
	return fmt.Sprintf("%s|%s|%s|%s|%.2f", t.Date.Format(time.RFC3339), t.Description, t.Category, t.Type, t.Amount)
}

func typeLabel(t model.TransactionType) string {
	if t == model.TypeIncome {
		return "Income"
	}
	return "Expense"
}

// generateHeaderMap maps lower-cased column names to their index.
func generateHeaderMap(record []string) map[string]int {
	m := make(map[string]int, len(record))
	for i, r := range record {
		m[strings.ToLower(strings.TrimSpace(r))] = i
	}
	return m
}
