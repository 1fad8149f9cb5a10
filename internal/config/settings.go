package config

import (
	"fmt"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/robfig/cron"
	"github.com/spf13/viper"

	"github.com/Veraticus/smart-expense/internal/analytics"
	"github.com/Veraticus/smart-expense/internal/common"
	"github.com/Veraticus/smart-expense/internal/currency"
)

// Defaults.
const (
	DefaultDatabasePath    = "~/.local/share/expense/expense.db"
	DefaultMonthlyBudget   = 2000.0
	DefaultRefreshSchedule = "@every 15m"
)

// Settings is the full application configuration.
type Settings struct {
	Database DatabaseSettings `mapstructure:"database"`
	Currency CurrencySettings `mapstructure:"currency"`
	Schedule ScheduleSettings `mapstructure:"schedule"`
	Timezone string           `mapstructure:"timezone" validate:"omitempty,timezone"`
	Budget   BudgetSettings   `mapstructure:"budget"`
	Insights InsightSettings  `mapstructure:"insights"`
	Forecast ForecastSettings `mapstructure:"forecast"`
}

// DatabaseSettings locates the SQLite database.
type DatabaseSettings struct {
	Path string `mapstructure:"path" validate:"required"`
}

// CurrencySettings configures the base currency and offline exchange rates,
// quoted as units of foreign currency per one unit of base.
type CurrencySettings struct {
	Rates map[string]float64 `mapstructure:"rates" validate:"dive,keys,iso4217,endkeys,gt=0"`
	Base  string             `mapstructure:"base" validate:"required,iso4217"`
}

// BudgetSettings holds the monthly spending limit. Zero means the default.
type BudgetSettings struct {
	Monthly float64 `mapstructure:"monthly" validate:"gte=0"`
}

// ForecastSettings controls which transactions feed the forecast.
type ForecastSettings struct {
	IncludeIncome bool `mapstructure:"include_income"`
}

// InsightSettings controls the insight look-back window.
type InsightSettings struct {
	WindowDays int `mapstructure:"window_days" validate:"gte=1,lte=365"`
}

// ScheduleSettings controls background recomputation in watch mode.
type ScheduleSettings struct {
	Refresh string `mapstructure:"refresh" validate:"required"`
}

// Defaults returns the settings used for anything left unset.
func Defaults() Settings {
	return Settings{
		Database: DatabaseSettings{Path: DefaultDatabasePath},
		Currency: CurrencySettings{Base: currency.DefaultBase},
		Budget:   BudgetSettings{Monthly: DefaultMonthlyBudget},
		Insights: InsightSettings{WindowDays: analytics.DefaultInsightWindowDays},
		Schedule: ScheduleSettings{Refresh: DefaultRefreshSchedule},
	}
}

// Load reads settings from v, fills unset values from Defaults and validates the result.
func Load(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	if err := mergo.Merge(&s, Defaults()); err != nil {
		return nil, fmt.Errorf("failed to apply default settings: %w", err)
	}

	s.normalize()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// normalize canonicalizes values that viper or users may have written loosely.
func (s *Settings) normalize() {
	s.Database.Path = ExpandPath(s.Database.Path)
	s.Currency.Base = strings.ToUpper(strings.TrimSpace(s.Currency.Base))

	// viper lower-cases map keys
	if len(s.Currency.Rates) > 0 {
		rates := make(map[string]float64, len(s.Currency.Rates))
		for code, rate := range s.Currency.Rates {
			rates[strings.ToUpper(code)] = rate
		}
		s.Currency.Rates = rates
	}
}

// Validate checks every field and the refresh schedule.
func (s *Settings) Validate() error {
	if err := common.ValidateStruct(s); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	if _, err := cron.Parse(s.Schedule.Refresh); err != nil {
		return fmt.Errorf("%w: schedule.refresh %q: %w", common.ErrInvalidConfig, s.Schedule.Refresh, err)
	}
	return nil
}

// Location resolves the configured timezone, defaulting to the local zone.
func (s *Settings) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", common.ErrInvalidConfig, s.Timezone, err)
	}
	return loc, nil
}

// RateTable builds the exchange rate table for the configured base currency.
func (s *Settings) RateTable() *currency.RateTable {
	return currency.NewRateTable(s.Currency.Base, s.Currency.Rates)
}

// Analytics converts the settings into the engine's explicit settings value.
func (s *Settings) Analytics() (analytics.Settings, error) {
	loc, err := s.Location()
	if err != nil {
		return analytics.Settings{}, err
	}
	return analytics.Settings{
		Location:          loc,
		Currency:          s.Currency.Base,
		MonthlyBudget:     s.Budget.Monthly,
		InsightWindowDays: s.Insights.WindowDays,
		Forecast:          analytics.ForecastOptions{IncludeIncome: s.Forecast.IncludeIncome},
	}, nil
}
