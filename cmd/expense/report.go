package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smart-expense/internal/analytics"
	"github.com/Veraticus/smart-expense/internal/cli"
)

// reportCmd builds a command that runs one analytics pass and renders part of it.
func reportCmd(use, short string, render func(analytics.Results, string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, code, err := computeResults(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render(res, code))
			return nil
		},
	}
}

func computeResults(ctx context.Context) (analytics.Results, string, error) {
	a, err := loadApp(ctx)
	if err != nil {
		return analytics.Results{}, "", err
	}
	defer a.Close()

	return a.runner().RefreshSync(ctx), a.currencyCode(), nil
}

func dashboardCmd() *cobra.Command {
	cmd := reportCmd("dashboard", "Show the full spending overview", cli.RenderDashboard)
	cmd.Aliases = []string{"overview"}
	return cmd
}

func forecastCmd() *cobra.Command {
	return reportCmd("forecast", "Predict today's spend from past same-weekday spending",
		func(res analytics.Results, code string) string {
			return cli.RenderForecast(res.Forecast, code)
		})
}

func subscriptionsCmd() *cobra.Command {
	cmd := reportCmd("subscriptions", "List recurring payments found in your expenses",
		func(res analytics.Results, code string) string {
			return cli.RenderSubscriptions(res.Subscriptions, code)
		})
	cmd.Aliases = []string{"subs"}
	return cmd
}

func insightsCmd() *cobra.Command {
	return reportCmd("insights", "Show observations about recent spending",
		func(res analytics.Results, _ string) string {
			return cli.RenderInsights(res.Insights)
		})
}
