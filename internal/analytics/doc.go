// Package analytics turns a snapshot of transactions into dashboard aggregates,
// a weekday-conditioned spend forecast, recurring-payment detection, short
// insights, and the statistical anomaly check used on the save path.
//
// Every function here is a pure computation over the slice it is given. The
// Engine bundles them into a single Recompute call and the Runner moves that
// call off the caller's goroutine, publishing whole Results values.
package analytics
