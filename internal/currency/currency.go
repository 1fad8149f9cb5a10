// Package currency converts entered amounts to the base currency and formats
// base-currency values for display.
package currency

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/Veraticus/smart-expense/internal/common"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultBase is used when no base currency is configured.
const DefaultBase = "USD"

// grouping inserts thousands separators into formatted integers.
var grouping = message.NewPrinter(language.English)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"INR": "₹",
	"CAD": "CA$",
	"AUD": "A$",
}

// RateTable holds exchange rates quoted as units of foreign currency per one
// unit of the base currency (e.g. USD->EUR 0.9).
type RateTable struct {
	rates map[string]decimal.Decimal
	base  string
}

// NewRateTable builds a rate table. Non-positive rates are ignored.
func NewRateTable(base string, rates map[string]float64) *RateTable {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		base = DefaultBase
	}

	table := &RateTable{
		base:  base,
		rates: make(map[string]decimal.Decimal, len(rates)),
	}
	for code, rate := range rates {
		if rate <= 0 {
			slog.Warn("Ignoring non-positive exchange rate", "currency", code, "rate", rate)
			continue
		}
		table.rates[strings.ToUpper(code)] = decimal.NewFromFloat(rate)
	}
	return table
}

// Base returns the base currency code.
func (r *RateTable) Base() string {
	return r.base
}

// ToBase converts amount in currency code to the base currency, rounded to
// cents. Unknown currencies convert 1:1 so an entry is never lost offline.
func (r *RateTable) ToBase(amount decimal.Decimal, code string) decimal.Decimal {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == r.base {
		return amount
	}

	rate, ok := r.rates[code]
	if !ok {
		slog.Warn("No exchange rate available, using 1:1", "currency", code, "base", r.base)
		return amount
	}
	return amount.Div(rate).Round(2)
}

// ParseAmount parses a user-entered amount. Anything other than a finite
// non-negative number is rejected with common.ErrInvalidInput.
func ParseAmount(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", common.ErrInvalidInput)
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", common.ErrInvalidInput, s)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount %q is negative", common.ErrInvalidInput, s)
	}
	if !IsFinite(amount) {
		return decimal.Zero, fmt.Errorf("%w: amount %q is out of range", common.ErrInvalidInput, s)
	}
	return amount, nil
}

// IsFinite reports whether d survives conversion to float64.
func IsFinite(d decimal.Decimal) bool {
	f, _ := d.Float64()
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Format renders amount in the given currency with two decimals and
// thousands separators, e.g. "$1,234.50".
func Format(amount float64, code string) string {
	code = strings.ToUpper(code)
	if code == "" {
		code = DefaultBase
	}

	if math.IsInf(amount, 0) || math.IsNaN(amount) {
		return fmt.Sprintf("%s %v", code, amount)
	}

	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	_, frac, _ := strings.Cut(d.StringFixed(2), ".")
	grouped := grouping.Sprintf("%d", d.IntPart())

	if symbol, ok := symbols[code]; ok {
		return sign + symbol + grouped + "." + frac
	}
	return sign + code + " " + grouped + "." + frac
}
