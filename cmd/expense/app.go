package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/Veraticus/smart-expense/internal/analytics"
	"github.com/Veraticus/smart-expense/internal/classification"
	"github.com/Veraticus/smart-expense/internal/config"
	"github.com/Veraticus/smart-expense/internal/currency"
	"github.com/Veraticus/smart-expense/internal/entry"
	"github.com/Veraticus/smart-expense/internal/storage"
)

// app bundles the collaborators every command needs.
type app struct {
	settings *config.Settings
	store    *storage.SQLiteStorage
	engine   *analytics.Engine
	rates    *currency.RateTable
}

// loadApp reads settings and opens the migrated database.
func loadApp(ctx context.Context) (*app, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	analyticsSettings, err := settings.Analytics()
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx, settings.Database.Path)
	if err != nil {
		return nil, err
	}

	return &app{
		settings: settings,
		store:    store,
		engine:   analytics.NewEngine(analyticsSettings),
		rates:    settings.RateTable(),
	}, nil
}

// initStorage opens the database and brings its schema up to date.
func initStorage(ctx context.Context, dbPath string) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// currencyCode returns the display currency code.
func (a *app) currencyCode() string {
	return a.settings.Currency.Base
}

func (a *app) runner() *analytics.Runner {
	return analytics.NewRunner(a.store, a.engine)
}

// recorder builds the save path with the pattern classifier attached.
func (a *app) recorder(opts ...entry.Option) (*entry.Recorder, error) {
	categorizer, err := classification.NewDefaultCategorizer()
	if err != nil {
		return nil, fmt.Errorf("failed to load category patterns: %w", err)
	}
	classifier := classification.NewCachingClassifier(categorizer, classification.DefaultCacheTTL)
	opts = append([]entry.Option{entry.WithClassifier(classifier)}, opts...)
	return entry.NewRecorder(a.store, a.engine, a.rates, opts...), nil
}
