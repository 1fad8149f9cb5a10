// Package service defines the interfaces the analytics core consumes.
package service

import (
	"context"

	"github.com/Veraticus/smart-expense/internal/model"
)

// Store is the persistence collaborator. Each fetch returns a consistent
// point-in-time snapshot; callers never mutate what they receive.
type Store interface {
	FetchAll(ctx context.Context) ([]model.Transaction, error)
	FetchByCategory(ctx context.Context, category string) ([]model.Transaction, error)
	Save(ctx context.Context, txn model.Transaction) error
	Delete(ctx context.Context, id string) error
}

// Classifier suggests a category label for free text. Implementations may be
// absent or fail; callers fall back to model.CategoryUncategorized.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, text string) (string, error)

// Classify implements Classifier.
func (f ClassifierFunc) Classify(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}
