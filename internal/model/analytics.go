package model

import "time"

// DailySpend is one point in the rolling weekly series.
type DailySpend struct {
	Date   time.Time
	Amount float64
}

// Weekday returns the short day name used by charts (e.g. "Mon").
func (d DailySpend) Weekday() string {
	return d.Date.Format("Mon")
}

// CategorySpend is one slice of the category breakdown.
type CategorySpend struct {
	Category string
	Amount   float64
}

// Subscription is a recurring charge inferred from expense history.
type Subscription struct {
	Merchant    string
	Amount      float64
	Occurrences int
}

// Forecast is the weekday-conditioned spend prediction for today.
type Forecast struct {
	Reason           string
	LearningProgress string
	Predicted        float64
	Confidence       float64 // 0 to 1
	Samples          int     // Number of past same-weekday days used
	IsLearning       bool
}

// InsightKind identifies which observation produced an Insight.
type InsightKind string

const (
	// InsightDominantCategory names the category with the largest share of spend.
	InsightDominantCategory InsightKind = "dominant_category"
	// InsightFrequentMerchant names a merchant visited repeatedly.
	InsightFrequentMerchant InsightKind = "frequent_merchant"
)

// Insight is a short natural-language observation about recent spending.
type Insight struct {
	Kind    InsightKind
	Title   string
	Message string
}

// AnomalyResult is the outcome of checking a candidate amount against history.
type AnomalyResult struct {
	Message     string
	Mean        float64
	StdDev      float64
	ZScore      float64
	Samples     int
	IsAnomalous bool
}
