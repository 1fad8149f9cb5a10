package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/smart-expense/internal/analytics"
	"github.com/Veraticus/smart-expense/internal/model"
)

func TestRenderBudget(t *testing.T) {
	tests := []struct {
		name   string
		budget analytics.Budget
		want   []string
	}{
		{
			name:   "no budget",
			budget: analytics.BudgetStatus(120, 0),
			want:   []string{"No budget set"},
		},
		{
			name:   "under budget",
			budget: analytics.BudgetStatus(500, 2000),
			want:   []string{"$500.00 of $2,000.00", "$1,500.00 left", "25%"},
		},
		{
			name:   "over budget",
			budget: analytics.BudgetStatus(2500, 2000),
			want:   []string{"$500.00 over", "125%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderBudget(tt.budget, "USD")
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestRenderWeekly(t *testing.T) {
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC) // Monday
	days := make([]model.DailySpend, 7)
	for i := range days {
		days[i] = model.DailySpend{Date: start.AddDate(0, 0, i)}
	}
	days[2].Amount = 40
	days[6].Amount = 10

	out := RenderWeekly(days, "USD")

	assert.Contains(t, out, "Mon")
	assert.Contains(t, out, "Sun")
	assert.Contains(t, out, "$40.00")
	assert.Contains(t, out, strings.Repeat("█", barWidth))
	assert.Contains(t, out, strings.Repeat("█", barWidth/4)+"░")
}

func TestRenderCategories(t *testing.T) {
	pie := []model.CategorySpend{
		{Category: "Food", Amount: 75},
		{Category: "Transport", Amount: 25},
	}

	out := RenderCategories(pie, "USD")

	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "25.0%")
	assert.Contains(t, out, "$75.00")
	assert.Contains(t, RenderCategories(nil, "USD"), "No expenses yet")
}

func TestRenderCategories_TruncatesLongTail(t *testing.T) {
	pie := make([]model.CategorySpend, maxCategoryRows+2)
	for i := range pie {
		pie[i] = model.CategorySpend{Category: string(rune('A' + i)), Amount: float64(100 - i)}
	}

	assert.Contains(t, RenderCategories(pie, "USD"), "+2 more")
}

func TestRenderForecast(t *testing.T) {
	learning := model.Forecast{Reason: "Not enough data", IsLearning: true, LearningProgress: "2/5"}
	out := RenderForecast(learning, "USD")
	assert.Contains(t, out, "Not enough data")
	assert.Contains(t, out, "2/5")
	assert.NotContains(t, out, "Predicted today")

	steady := model.Forecast{
		Predicted:  42.5,
		Confidence: 0.76,
		Reason:     "Your spending on Wednesdays is very consistent.",
	}
	out = RenderForecast(steady, "USD")
	assert.Contains(t, out, "$42.50")
	assert.Contains(t, out, "76%")
}

func TestRenderSubscriptionsAndInsights(t *testing.T) {
	subs := []model.Subscription{{Merchant: "Netflix", Amount: 15.99, Occurrences: 3}}
	out := RenderSubscriptions(subs, "USD")
	assert.Contains(t, out, "Netflix")
	assert.Contains(t, out, "$15.99")
	assert.Contains(t, out, "×3")
	assert.Contains(t, RenderSubscriptions(nil, "USD"), "No recurring payments detected")

	insights := []model.Insight{{
		Kind:    model.InsightDominantCategory,
		Title:   "Top category",
		Message: "Food accounts for 60% of your spending recently.",
	}}
	assert.Contains(t, RenderInsights(insights), "Food accounts for 60%")
	assert.Contains(t, RenderInsights(nil), "Nothing notable")
}

func TestRenderTransactions(t *testing.T) {
	txns := []model.Transaction{
		{ID: "a1", Date: time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC), Description: "Lunch", Category: "Food", Type: model.TypeExpense, Amount: 12.5, IsAnomaly: true},
		{ID: "b2", Date: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), Description: "Payroll", Category: "Salary", Type: model.TypeIncome, Amount: 3000},
	}

	out := RenderTransactions(txns, "USD", time.UTC)

	assert.Contains(t, out, "Jun 12, 2024")
	assert.Contains(t, out, "-$12.50")
	assert.Contains(t, out, "+$3,000.00")
	assert.Contains(t, out, WarningIcon)
	assert.Contains(t, RenderTransactions(nil, "USD", nil), "No transactions found")
}

func TestRenderDashboard(t *testing.T) {
	assert.Contains(t, RenderDashboard(analytics.Results{DataUnavailable: true}, "USD"), "could not be loaded")

	res := analytics.Results{
		ComputedAt:       time.Date(2024, 6, 12, 9, 30, 0, 0, time.UTC),
		TransactionCount: 4,
		Budget:           analytics.BudgetStatus(100, 2000),
		Forecast:         model.Forecast{Reason: "Not enough data"},
	}
	out := RenderDashboard(res, "USD")
	assert.Contains(t, out, "Spending Overview")
	assert.Contains(t, out, "4 transactions")
	assert.Contains(t, out, "09:30:00")
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", barWidth), bar(0))
	assert.Equal(t, strings.Repeat("█", barWidth), bar(2))
	assert.Equal(t, "█"+strings.Repeat("░", barWidth-1), bar(0.001))
}
