package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/smart-expense/internal/analytics"
	"github.com/Veraticus/smart-expense/internal/model"
)

// IO holds the terminal streams a program reads from and renders to.
type IO struct {
	In  io.Reader
	Out io.Writer
}

func (t IO) options(ctx context.Context) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.In != nil {
		opts = append(opts, tea.WithInput(t.In))
	}
	if t.Out != nil {
		opts = append(opts, tea.WithOutput(t.Out))
	}
	return opts
}

// RunDashboard shows a live dashboard until the user quits or ctx is canceled.
func RunDashboard(ctx context.Context, term IO, runner *analytics.Runner, currencyCode string) error {
	m := NewDashboard(runner.Updates(), func() { runner.Refresh(ctx) }, currencyCode)

	opts := append(term.options(ctx), tea.WithAltScreen())
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}

// ConfirmAnomaly asks the user whether an unusual expense should be saved.
func ConfirmAnomaly(ctx context.Context, term IO, anomaly model.AnomalyResult) (bool, error) {
	final, err := tea.NewProgram(NewConfirmModel(anomaly), term.options(ctx)...).Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}

	result, ok := final.(ConfirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected model type %T", final)
	}
	return result.Confirmed(), nil
}
