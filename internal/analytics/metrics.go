package analytics

import (
	"sort"
	"time"

	"github.com/Veraticus/smart-expense/internal/model"
)

// WeeklyDays is the length of the rolling daily series.
const WeeklyDays = 7

// Metrics holds the aggregate totals shown on the dashboard.
type Metrics struct {
	CategoryTotals map[string]float64
	PieData        []model.CategorySpend
	Weekly         []model.DailySpend
	Total          float64 // All-time expenses
	TotalIncome    float64
	NetSavings     float64
	MonthTotal     float64 // Expenses in the current calendar month
}

// ComputeMetrics aggregates a transaction batch. Only expenses count toward
// spend totals, the category breakdown, and the weekly series.
func ComputeMetrics(txns []model.Transaction, now time.Time, loc *time.Location) Metrics {
	loc = locationOrLocal(loc)
	now = now.In(loc)

	m := Metrics{
		CategoryTotals: make(map[string]float64),
	}

	daily := make(map[string]float64)
	for _, t := range txns {
		if !t.IsExpense() {
			m.TotalIncome += t.Amount
			continue
		}

		m.Total += t.Amount
		m.CategoryTotals[t.CategoryOrDefault()] += t.Amount

		local := t.Date.In(loc)
		if local.Year() == now.Year() && local.Month() == now.Month() {
			m.MonthTotal += t.Amount
		}
		daily[dayStamp(t.Date, loc)] += t.Amount
	}
	m.NetSavings = m.TotalIncome - m.Total

	m.PieData = make([]model.CategorySpend, 0, len(m.CategoryTotals))
	for category, amount := range m.CategoryTotals {
		m.PieData = append(m.PieData, model.CategorySpend{Category: category, Amount: amount})
	}
	sort.Slice(m.PieData, func(i, j int) bool {
		if m.PieData[i].Amount != m.PieData[j].Amount {
			return m.PieData[i].Amount > m.PieData[j].Amount
		}
		return m.PieData[i].Category < m.PieData[j].Category
	})

	today := startOfDay(now, loc)
	m.Weekly = make([]model.DailySpend, 0, WeeklyDays)
	for i := WeeklyDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		m.Weekly = append(m.Weekly, model.DailySpend{
			Date:   day,
			Amount: daily[day.Format(dayLayout)],
		})
	}

	return m
}
