package analytics

import (
	"sync"
	"time"

	"github.com/Veraticus/smart-expense/internal/currency"
	"github.com/Veraticus/smart-expense/internal/model"
)

// Settings are the user preferences an analytics pass depends on. They are
// passed in explicitly rather than read from global state.
type Settings struct {
	Location          *time.Location
	Currency          string
	MonthlyBudget     float64
	InsightWindowDays int
	Forecast          ForecastOptions
}

// Budget compares this month's spend with the configured monthly budget.
type Budget struct {
	Limit     float64
	Spent     float64
	Remaining float64
	Progress  float64 // Spent / Limit, 0 when no budget is set
	Over      bool
}

// Results is everything one analytics pass produces. It is replaced
// wholesale on every pass and never mutated afterwards.
type Results struct {
	ComputedAt       time.Time
	Forecast         model.Forecast
	Subscriptions    []model.Subscription
	Insights         []model.Insight
	Metrics          Metrics
	Budget           Budget
	TransactionCount int
	DataUnavailable  bool
}

// Engine runs analytics passes over transaction snapshots.
type Engine struct {
	now      func() time.Time
	settings Settings
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine for the given settings.
func NewEngine(settings Settings, opts ...Option) *Engine {
	if settings.Location == nil {
		settings.Location = time.Local
	}
	if settings.Currency == "" {
		settings.Currency = currency.DefaultBase
	}
	if settings.InsightWindowDays <= 0 {
		settings.InsightWindowDays = DefaultInsightWindowDays
	}

	e := &Engine{
		settings: settings,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Now returns the engine's current time in its configured location.
func (e *Engine) Now() time.Time {
	return e.now().In(e.settings.Location)
}

// Recompute runs a full analytics pass over snapshot. The snapshot is only read.
func (e *Engine) Recompute(snapshot []model.Transaction) Results {
	now := e.Now()
	loc := e.settings.Location

	res := Results{
		ComputedAt:       now,
		TransactionCount: len(snapshot),
		Metrics:          ComputeMetrics(snapshot, now, loc),
	}
	res.Budget = BudgetStatus(res.Metrics.MonthTotal, e.settings.MonthlyBudget)

	// Forecast, subscriptions and insights are independent reads of the same snapshot.
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		res.Forecast = ComputeForecast(snapshot, now, loc, e.settings.Forecast)
	}()
	go func() {
		defer wg.Done()
		res.Subscriptions = DetectSubscriptions(snapshot)
	}()
	go func() {
		defer wg.Done()
		res.Insights = GenerateInsights(RecentWindow(snapshot, now, e.settings.InsightWindowDays))
	}()
	wg.Wait()

	return res
}

// CheckAnomaly runs the anomaly check using the engine's display currency.
func (e *Engine) CheckAnomaly(amount float64, category string, history []model.Transaction) model.AnomalyResult {
	return CheckAnomaly(amount, category, history, e.settings.Currency)
}

// BudgetStatus summarizes spend against a monthly limit.
func BudgetStatus(spent, limit float64) Budget {
	b := Budget{
		Limit:     limit,
		Spent:     spent,
		Remaining: limit - spent,
	}
	if limit > 0 {
		b.Progress = spent / limit
		b.Over = spent > limit
	}
	return b
}
