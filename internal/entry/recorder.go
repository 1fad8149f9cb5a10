// Package entry implements the save path for new and edited transactions:
// validation, currency conversion, category suggestion and the anomaly gate.
package entry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/smart-expense/internal/analytics"
	"github.com/Veraticus/smart-expense/internal/common"
	"github.com/Veraticus/smart-expense/internal/currency"
	"github.com/Veraticus/smart-expense/internal/model"
	"github.com/Veraticus/smart-expense/internal/service"
)

// Draft is a transaction as entered by the user, before it is saved.
type Draft struct {
	Date        time.Time             // zero means now
	Editing     *model.Transaction    // set when replacing an existing transaction
	Amount      string                `validate:"required"`
	Currency    string                `validate:"omitempty,iso4217"`
	Description string                `validate:"max=200"`
	Category    string                `validate:"max=64"`
	Type        model.TransactionType `validate:"transaction_type"`
	Confirmed   bool                  // user accepted an anomaly warning
}

// IsNew reports whether the draft creates a new transaction.
func (d Draft) IsNew() bool {
	return d.Editing == nil
}

// Result describes the outcome of Record.
type Result struct {
	Transaction model.Transaction
	Anomaly     model.AnomalyResult
	Saved       bool
}

// Recorder validates drafts and writes them to the store.
type Recorder struct {
	store      service.Store
	classifier service.Classifier
	engine     *analytics.Engine
	rates      *currency.RateTable
	newID      func() string
	onSaved    func(context.Context, model.Transaction)
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClassifier sets the category suggester. Without one every expense
// without an explicit category is saved as Uncategorized.
func WithClassifier(c service.Classifier) Option {
	return func(r *Recorder) {
		r.classifier = c
	}
}

// WithIDGenerator overrides transaction ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(r *Recorder) {
		r.newID = fn
	}
}

// WithOnSaved registers a hook called after every successful save.
func WithOnSaved(fn func(context.Context, model.Transaction)) Option {
	return func(r *Recorder) {
		r.onSaved = fn
	}
}

// NewRecorder creates a recorder. A nil rate table converts everything 1:1.
func NewRecorder(store service.Store, engine *analytics.Engine, rates *currency.RateTable, opts ...Option) *Recorder {
	if rates == nil {
		rates = currency.NewRateTable(engine.Settings().Currency, nil)
	}
	r := &Recorder{
		store:  store,
		engine: engine,
		rates:  rates,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SuggestCategory picks the default category for a draft. Income is always
// Salary; expenses ask the classifier when the description is long enough.
func (r *Recorder) SuggestCategory(ctx context.Context, typ model.TransactionType, description string) string {
	if typ == model.TypeIncome {
		return model.CategorySalary
	}

	description = strings.TrimSpace(description)
	if r.classifier == nil || len([]rune(description)) <= 2 {
		return model.CategoryUncategorized
	}

	label, err := r.classifier.Classify(ctx, description)
	if err != nil {
		slog.Warn("Classifier failed, using default category", "description", description, "error", err)
		return model.CategoryUncategorized
	}
	if strings.TrimSpace(label) == "" {
		return model.CategoryUncategorized
	}
	return label
}

// Record validates and saves d. When the amount is unusually high for a new,
// unconfirmed expense nothing is saved: the returned Result carries the
// anomaly details and the error wraps common.ErrAnomalyUnconfirmed. Calling
// Record again with Confirmed set saves it flagged as an anomaly.
func (r *Recorder) Record(ctx context.Context, d Draft) (Result, error) {
	if err := common.ValidateStruct(d); err != nil {
		return Result{}, common.NewUserError("Please check the entered values", err)
	}

	amount, err := currency.ParseAmount(d.Amount)
	if err != nil {
		return Result{}, common.NewUserError("Please enter a valid amount", err)
	}
	converted := r.rates.ToBase(amount, d.Currency)
	if !currency.IsFinite(converted) {
		return Result{}, common.NewUserError("Please enter a valid amount",
			fmt.Errorf("%w: amount %s is out of range", common.ErrInvalidInput, d.Amount))
	}
	base, _ := converted.Float64()

	typ := d.Type
	if typ == "" {
		typ = model.TypeExpense
	}

	category := strings.TrimSpace(d.Category)
	if category == "" {
		category = r.SuggestCategory(ctx, typ, d.Description)
	}

	txn := model.Transaction{
		Description: strings.TrimSpace(d.Description),
		Category:    category,
		Type:        typ,
		Amount:      base,
	}

	var result Result
	if d.IsNew() {
		txn.ID = r.newID()
		txn.Date = d.Date
		if txn.Date.IsZero() {
			txn.Date = r.engine.Now()
		}

		if typ == model.TypeExpense && !d.Confirmed {
			result.Anomaly = r.checkAnomaly(ctx, base, category)
			if result.Anomaly.IsAnomalous {
				result.Transaction = txn
				slog.Info("Holding unusual transaction for confirmation",
					"category", category,
					"amount", base,
					"z_score", result.Anomaly.ZScore)
				return result, fmt.Errorf("%s: %w", result.Anomaly.Message, common.ErrAnomalyUnconfirmed)
			}
		}
		txn.IsAnomaly = d.Confirmed
	} else {
		txn.ID = d.Editing.ID
		txn.Date = d.Editing.Date
		if !d.Date.IsZero() {
			txn.Date = d.Date
		}
		txn.IsAnomaly = d.Editing.IsAnomaly
	}

	if err := r.store.Save(ctx, txn); err != nil {
		return Result{}, fmt.Errorf("failed to save transaction: %w", err)
	}

	slog.Info("Recorded transaction",
		"id", txn.ID,
		"type", txn.Type,
		"category", txn.Category,
		"amount", txn.Amount,
		"anomaly", txn.IsAnomaly)

	if r.onSaved != nil {
		r.onSaved(ctx, txn)
	}

	result.Transaction = txn
	result.Saved = true
	return result, nil
}

// checkAnomaly reads the category history at check time. A failed read
// never blocks the save.
func (r *Recorder) checkAnomaly(ctx context.Context, amount float64, category string) model.AnomalyResult {
	history, err := r.store.FetchByCategory(ctx, category)
	if err != nil {
		slog.Warn("Anomaly check skipped, history unavailable", "category", category, "error", err)
		return model.AnomalyResult{}
	}
	return r.engine.CheckAnomaly(amount, category, history)
}

// IsAnomalyHold reports whether err is the result of an unconfirmed anomaly.
func IsAnomalyHold(err error) bool {
	return errors.Is(err, common.ErrAnomalyUnconfirmed)
}
