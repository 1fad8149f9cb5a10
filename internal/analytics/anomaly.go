package analytics

import (
	"fmt"
	"math"

	"github.com/Veraticus/smart-expense/internal/currency"
	"github.com/Veraticus/smart-expense/internal/model"
)

// Anomaly check parameters.
const (
	// MinAnomalySamples is the history size required before anything is flagged.
	MinAnomalySamples = 5
	// StdDevFloor keeps very stable categories from alerting on small changes.
	StdDevFloor = 5.0
	// ZScoreThreshold is the one-sided cutoff above the category mean.
	ZScoreThreshold = 2.0
)

// CheckAnomaly compares a candidate amount against the amounts of history,
// which should hold every stored transaction in category.
func CheckAnomaly(amount float64, category string, history []model.Transaction, currencyCode string) model.AnomalyResult {
	result := model.AnomalyResult{Samples: len(history)}
	if len(history) < MinAnomalySamples {
		return result
	}

	amounts := make([]float64, len(history))
	for i, t := range history {
		amounts[i] = t.Amount
	}

	result.Mean = mean(amounts)
	result.StdDev = populationStdDev(amounts, result.Mean)
	effective := math.Max(result.StdDev, StdDevFloor)
	result.ZScore = (amount - result.Mean) / effective

	if result.ZScore <= ZScoreThreshold {
		return result
	}

	result.IsAnomalous = true
	avg := currency.Format(result.Mean, currencyCode)
	if result.Mean > 0 {
		pct := truncPercent((amount - result.Mean) / result.Mean)
		result.Message = fmt.Sprintf("This is %d%% higher than your average %s spend of %s.", pct, category, avg)
	} else {
		result.Message = fmt.Sprintf("This is higher than your average %s spend of %s.", category, avg)
	}
	return result
}
