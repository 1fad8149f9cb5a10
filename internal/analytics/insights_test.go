package analytics

import (
	"testing"

	"github.com/Veraticus/smart-expense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInsights_DominantCategory(t *testing.T) {
	// 20 transactions: 9 Dining totalling 45, 11 others totalling 55.
	var window []model.Transaction
	for i := 0; i < 9; i++ {
		window = append(window, expense("Bistro "+string(rune('A'+i)), "Dining", 5, daysAgo(i%14)))
	}
	others := []string{"Groceries", "Transport", "Shopping", "Health", "Travel"}
	for i := 0; i < 11; i++ {
		window = append(window, expense("Store "+string(rune('A'+i)), others[i%len(others)], 5, daysAgo(i%14)))
	}

	got := GenerateInsights(window)

	require.Len(t, got, 1)
	assert.Equal(t, model.InsightDominantCategory, got[0].Kind)
	assert.Contains(t, got[0].Message, "Dining")
	assert.Contains(t, got[0].Message, "45%")
	assert.Equal(t, "Dining accounts for 45% of your spending recently.", got[0].Message)
}

func TestGenerateInsights_FrequentMerchant(t *testing.T) {
	window := []model.Transaction{
		expense("Starbucks", "Food & Drink", 5, daysAgo(1)),
		expense("Starbucks", "Food & Drink", 5, daysAgo(2)),
		expense("Starbucks", "Food & Drink", 5, daysAgo(3)),
		expense("Target", "Shopping", 100, daysAgo(4)),
	}

	got := GenerateInsights(window)

	require.Len(t, got, 2)
	assert.Equal(t, model.InsightDominantCategory, got[0].Kind, "category insight comes first")
	assert.Equal(t, "Shopping accounts for 86% of your spending recently.", got[0].Message)
	assert.Equal(t, model.InsightFrequentMerchant, got[1].Kind)
	assert.Equal(t, "You've visited 'Starbucks' 3 times recently.", got[1].Message)
}

func TestGenerateInsights_Thresholds(t *testing.T) {
	t.Run("empty window", func(t *testing.T) {
		assert.Empty(t, GenerateInsights(nil))
	})

	t.Run("exactly twenty percent is not dominant", func(t *testing.T) {
		var window []model.Transaction
		for i, cat := range []string{"A", "B", "C", "D", "E"} {
			window = append(window, expense("Shop "+cat, cat, 10, daysAgo(i)))
		}
		assert.Empty(t, GenerateInsights(window))
	})

	t.Run("two visits are not frequent", func(t *testing.T) {
		var window []model.Transaction
		for i, cat := range []string{"A", "B", "C", "D", "E", "F"} {
			window = append(window, expense("Twice", cat, 10, daysAgo(i)))
			if i > 0 {
				window[i].Description = "Shop " + cat
			}
		}
		window = append(window, expense("Twice", "G", 10, daysAgo(1)))
		for _, insight := range GenerateInsights(window) {
			assert.NotEqual(t, model.InsightFrequentMerchant, insight.Kind)
		}
	})

	t.Run("zero total spend", func(t *testing.T) {
		window := []model.Transaction{expense("Free", "Promo", 0, daysAgo(1))}
		assert.Empty(t, GenerateInsights(window))
	})
}

func TestRecentWindow(t *testing.T) {
	txns := []model.Transaction{
		expense("Inside", "Food & Drink", 5, daysAgo(13)),
		expense("Boundary", "Food & Drink", 5, daysAgo(14)),
		expense("Outside", "Food & Drink", 5, daysAgo(15)),
		income("Payroll", 3000, daysAgo(1)),
	}

	window := RecentWindow(txns, testNow, 14)

	require.Len(t, window, 2)
	assert.Equal(t, "Inside", window[0].Description)
	assert.Equal(t, "Boundary", window[1].Description)

	assert.Len(t, RecentWindow(txns, testNow, 0), 2, "non-positive days uses the default window")
}
