package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Veraticus/smart-expense/internal/model"
)

// Forecast thresholds.
const (
	// MinForecastTransactions is the minimum history size before predicting.
	MinForecastTransactions = 3
	// LearningTransactions is the history size at which the engine stops
	// reporting itself as still learning.
	LearningTransactions = 5
	// SingleDayConfidence is reported when exactly one past weekday matches.
	SingleDayConfidence = 0.4
	// MinVolatilityConfidence bounds how far volatility can lower confidence.
	MinVolatilityConfidence = 0.2
	// FullTrustDays is the number of same-weekday days needed for full trust.
	FullTrustDays = 10
)

// ReasonNotEnoughData is the forecast reason below MinForecastTransactions
// and when no past day shares today's weekday.
const ReasonNotEnoughData = "Not enough data"

// ForecastOptions selects which transactions feed the forecast.
type ForecastOptions struct {
	// IncludeIncome counts income on the matching weekdays as well as expenses.
	IncludeIncome bool
}

// ComputeForecast predicts today's spend from the daily totals of past days
// that share today's weekday.
func ComputeForecast(txns []model.Transaction, now time.Time, loc *time.Location, opts ForecastOptions) model.Forecast {
	loc = locationOrLocal(loc)
	now = now.In(loc)

	f := model.Forecast{Reason: ReasonNotEnoughData}
	if len(txns) < LearningTransactions {
		f.IsLearning = true
		f.LearningProgress = fmt.Sprintf("%d/%d", len(txns), LearningTransactions)
	}
	if len(txns) < MinForecastTransactions {
		return f
	}

	weekday := now.Weekday()
	daily := make(map[string]float64)
	for _, t := range txns {
		if !opts.IncludeIncome && !t.IsExpense() {
			continue
		}
		if t.Date.In(loc).Weekday() != weekday {
			continue
		}
		daily[dayStamp(t.Date, loc)] += t.Amount
	}

	totals := dailyTotals(daily)
	f.Samples = len(totals)

	switch len(totals) {
	case 0:
		f.Reason = ReasonNotEnoughData
	case 1:
		f.Predicted = totals[0]
		f.Confidence = SingleDayConfidence
		f.Reason = fmt.Sprintf("Only one past %s found.", weekday)
	default:
		mu := mean(totals)
		std := populationStdDev(totals, mu)

		var cv float64
		if mu > 0 {
			cv = std / mu
		}

		raw := math.Max(MinVolatilityConfidence, 1-cv)
		countFactor := math.Min(1, float64(len(totals))/FullTrustDays)

		f.Predicted = mu
		f.Confidence = raw * countFactor
		f.Reason = volatilityReason(cv, weekday)
	}

	return f
}

func volatilityReason(cv float64, weekday time.Weekday) string {
	switch {
	case cv < 0.2:
		return fmt.Sprintf("Your spending on %ss is very consistent.", weekday)
	case cv < 0.5:
		return fmt.Sprintf("Spending on %ss varies slightly.", weekday)
	default:
		return fmt.Sprintf("Your %s spending is erratic (High Variance).", weekday)
	}
}

// dailyTotals returns the map values ordered by day so float sums are stable.
func dailyTotals(daily map[string]float64) []float64 {
	days := make([]string, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Strings(days)

	totals := make([]float64, 0, len(days))
	for _, day := range days {
		totals = append(totals, daily[day])
	}
	return totals
}
