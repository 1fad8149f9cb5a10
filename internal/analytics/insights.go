package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/Veraticus/smart-expense/internal/model"
)

// Insight parameters.
const (
	// DefaultInsightWindowDays is the trailing window insights look at.
	DefaultInsightWindowDays = 14
	// DominantShareThreshold is the percentage a category must exceed.
	DominantShareThreshold = 20
	// FrequentVisitThreshold is the visit count that makes a merchant frequent.
	FrequentVisitThreshold = 3
)

// RecentWindow returns the expenses dated within the trailing number of days.
func RecentWindow(txns []model.Transaction, now time.Time, days int) []model.Transaction {
	if days <= 0 {
		days = DefaultInsightWindowDays
	}
	cutoff := now.AddDate(0, 0, -days)

	window := make([]model.Transaction, 0)
	for _, t := range txns {
		if t.IsExpense() && !t.Date.Before(cutoff) {
			window = append(window, t)
		}
	}
	return window
}

// GenerateInsights produces at most two observations about a recent window:
// the dominant category first, then the most frequent merchant.
func GenerateInsights(window []model.Transaction) []model.Insight {
	insights := make([]model.Insight, 0, 2)
	if len(window) == 0 {
		return insights
	}

	if insight, ok := dominantCategory(window); ok {
		insights = append(insights, insight)
	}
	if insight, ok := frequentMerchant(window); ok {
		insights = append(insights, insight)
	}
	return insights
}

func dominantCategory(window []model.Transaction) (model.Insight, bool) {
	var total float64
	byCategory := make(map[string]float64)
	for _, t := range window {
		total += t.Amount
		byCategory[t.CategoryOrDefault()] += t.Amount
	}
	if total <= 0 {
		return model.Insight{}, false
	}

	top, topAmount := topEntry(byCategory)
	pct := truncPercent(topAmount / total)
	if pct <= DominantShareThreshold {
		return model.Insight{}, false
	}

	return model.Insight{
		Kind:    model.InsightDominantCategory,
		Title:   "Spending Analysis",
		Message: fmt.Sprintf("%s accounts for %d%% of your spending recently.", top, pct),
	}, true
}

func frequentMerchant(window []model.Transaction) (model.Insight, bool) {
	visits := make(map[string]float64)
	for _, t := range window {
		visits[t.DescriptionOrDefault()]++
	}

	top, count := topEntry(visits)
	if int(count) < FrequentVisitThreshold {
		return model.Insight{}, false
	}

	return model.Insight{
		Kind:    model.InsightFrequentMerchant,
		Title:   "Frequent Spot",
		Message: fmt.Sprintf("You've visited '%s' %d times recently.", top, int(count)),
	}, true
}

// topEntry returns the largest value, breaking ties by the lowest key.
func topEntry(values map[string]float64) (string, float64) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var bestKey string
	var best float64
	for i, k := range keys {
		if i == 0 || values[k] > best {
			bestKey, best = k, values[k]
		}
	}
	return bestKey, best
}
