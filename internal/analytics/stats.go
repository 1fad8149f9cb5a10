package analytics

import (
	"math"
	"time"
)

const dayLayout = "2006-01-02"

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev divides by N, not N-1.
func populationStdDev(values []float64, mu float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var squared float64
	for _, v := range values {
		d := v - mu
		squared += d * d
	}
	return math.Sqrt(squared / float64(len(values)))
}

// truncPercent converts a ratio to a whole percentage, truncating toward zero.
// The epsilon keeps values like 0.45*100 = 44.999... from dropping a point.
func truncPercent(ratio float64) int {
	return int(math.Floor(ratio*100 + 1e-9))
}

func locationOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// dayStamp identifies the local calendar day of t.
func dayStamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}
