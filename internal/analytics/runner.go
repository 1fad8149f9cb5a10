package analytics

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Veraticus/smart-expense/internal/common"
	"github.com/Veraticus/smart-expense/internal/model"
	"github.com/Veraticus/smart-expense/internal/service"
)

// Runner fetches snapshots from a store and computes Results off the
// caller's goroutine. Results are published through a single channel that
// always holds only the newest value.
type Runner struct {
	store     service.Store
	engine    *Engine
	updates   chan Results
	retry     common.RetryOptions
	latest    atomic.Pointer[Results]
	seq       atomic.Uint64
	published uint64
	wg        sync.WaitGroup
	mu        sync.Mutex
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRetry sets how snapshot fetches are retried before a pass is
// published as unavailable.
func WithRetry(opts common.RetryOptions) RunnerOption {
	return func(r *Runner) {
		r.retry = opts
	}
}

// NewRunner creates a runner over store.
func NewRunner(store service.Store, engine *Engine, opts ...RunnerOption) *Runner {
	r := &Runner{
		store:   store,
		engine:  engine,
		updates: make(chan Results, 1),
		retry:   common.DefaultRetryOptions(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Updates returns the channel on which new Results are published.
func (r *Runner) Updates() <-chan Results {
	return r.updates
}

// Latest returns the most recently published Results, if any.
func (r *Runner) Latest() (Results, bool) {
	res := r.latest.Load()
	if res == nil {
		return Results{}, false
	}
	return *res, true
}

// Refresh starts an analytics pass in the background. A pass that finishes
// after a newer one has been published is dropped.
func (r *Runner) Refresh(ctx context.Context) {
	seq := r.seq.Add(1)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.publish(seq, r.compute(ctx))
	}()
}

// RefreshSync runs an analytics pass on the calling goroutine, publishes it
// and returns it.
func (r *Runner) RefreshSync(ctx context.Context) Results {
	seq := r.seq.Add(1)
	res := r.compute(ctx)
	r.publish(seq, res)
	return res
}

// Wait blocks until all background passes have finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) compute(ctx context.Context) Results {
	var snapshot []model.Transaction
	err := common.WithRetry(ctx, func() error {
		var fetchErr error
		snapshot, fetchErr = r.store.FetchAll(ctx)
		return fetchErr
	}, r.retry)
	if err != nil {
		slog.Warn("Analytics snapshot unavailable, publishing empty results", "error", err)
		res := r.engine.Recompute(nil)
		res.DataUnavailable = true
		return res
	}

	res := r.engine.Recompute(snapshot)
	slog.Debug("Analytics pass complete",
		"transactions", res.TransactionCount,
		"subscriptions", len(res.Subscriptions),
		"insights", len(res.Insights))
	return res
}

func (r *Runner) publish(seq uint64, res Results) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq < r.published {
		return
	}
	r.published = seq
	r.latest.Store(&res)

	// Drop an unread older value so the send below never blocks.
	select {
	case <-r.updates:
	default:
	}
	r.updates <- res
}
