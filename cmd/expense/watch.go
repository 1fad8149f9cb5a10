package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/robfig/cron"
	"github.com/spf13/cobra"

	"github.com/Veraticus/smart-expense/internal/analytics"
	"github.com/Veraticus/smart-expense/internal/cli"
	"github.com/Veraticus/smart-expense/internal/tui"
)

func watchCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the dashboard open and refresh it on a schedule",
		Long: `Show a live dashboard that is recomputed on the schedule.refresh cron spec
(default "@every 15m") so changes made from other terminals show up.

Press r to refresh immediately and q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			runner := a.runner()
			scheduler, err := startScheduler(ctx, a.settings.Schedule.Refresh, runner)
			if err != nil {
				return err
			}
			defer scheduler.Stop()

			if plain || !isTerminal(cmd.InOrStdin()) {
				return watchPlain(ctx, cmd.OutOrStdout(), runner, a.currencyCode())
			}
			return tui.RunDashboard(ctx, tui.IO{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}, runner, a.currencyCode())
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print each refresh instead of showing the interactive dashboard")
	return cmd
}

// startScheduler refreshes runner on every tick of spec.
func startScheduler(ctx context.Context, spec string, runner *analytics.Runner) (*cron.Cron, error) {
	c := cron.New()
	if err := c.AddFunc(spec, func() {
		slog.Debug("Scheduled analytics refresh")
		runner.Refresh(ctx)
	}); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}

// watchPlain prints every published pass until interrupted.
func watchPlain(ctx context.Context, w io.Writer, runner *analytics.Runner, code string) error {
	handler := cli.NewInterruptHandler(w, "Stopped watching.")
	ctx = handler.HandleInterrupts(ctx)
	defer handler.Stop()

	runner.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case res := <-runner.Updates():
			fmt.Fprintln(w, cli.RenderDashboard(res, code))
		}
	}
}
