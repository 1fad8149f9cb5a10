package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/smart-expense/internal/analytics"
	"github.com/Veraticus/smart-expense/internal/currency"
	"github.com/Veraticus/smart-expense/internal/model"
)

const (
	barWidth        = 24
	maxCategoryRows = 6
	listDateLayout  = "Jan 2, 2006"
)

// RenderDashboard renders a full analytics pass as stacked boxes.
func RenderDashboard(res analytics.Results, code string) string {
	if res.DataUnavailable {
		return FormatWarning("Transactions could not be loaded; showing empty results.")
	}

	sections := []string{
		FormatTitle("Spending Overview"),
		RenderBudget(res.Budget, code),
		RenderTotals(res.Metrics, code),
		RenderWeekly(res.Metrics.Weekly, code),
		RenderCategories(res.Metrics.PieData, code),
		RenderForecast(res.Forecast, code),
		RenderSubscriptions(res.Subscriptions, code),
		RenderInsights(res.Insights),
	}
	footer := SubtleStyle.Render(fmt.Sprintf("%d transactions · updated %s",
		res.TransactionCount, res.ComputedAt.Format("15:04:05")))

	return lipgloss.JoinVertical(lipgloss.Left, append(sections, footer)...)
}

// RenderBudget shows this month's spend against the monthly limit.
func RenderBudget(b analytics.Budget, code string) string {
	if b.Limit <= 0 {
		return RenderBox("Monthly Budget", SubtleStyle.Render("No budget set"))
	}

	style := SuccessStyle
	status := fmt.Sprintf("%s left", currency.Format(b.Remaining, code))
	if b.Over {
		style = ErrorStyle
		status = fmt.Sprintf("%s over", currency.Format(-b.Remaining, code))
	}

	line := fmt.Sprintf("%s of %s  %s",
		BoldStyle.Render(currency.Format(b.Spent, code)),
		currency.Format(b.Limit, code),
		style.Render(status))
	return RenderBox("Monthly Budget", line+"\n"+progressBar(b.Progress, style))
}

// RenderTotals shows all-time income, expenses and net savings.
func RenderTotals(m analytics.Metrics, code string) string {
	netStyle := SuccessStyle
	if m.NetSavings < 0 {
		netStyle = ErrorStyle
	}
	rows := []string{
		fmt.Sprintf("Income    %s", currency.Format(m.TotalIncome, code)),
		fmt.Sprintf("Expenses  %s", currency.Format(m.Total, code)),
		fmt.Sprintf("Net       %s", netStyle.Render(currency.Format(m.NetSavings, code))),
	}
	return RenderBox("Totals", strings.Join(rows, "\n"))
}

// RenderWeekly draws the trailing seven days as horizontal bars.
func RenderWeekly(days []model.DailySpend, code string) string {
	peak := 0.0
	for _, d := range days {
		peak = max(peak, d.Amount)
	}

	rows := make([]string, 0, len(days))
	for _, d := range days {
		ratio := 0.0
		if peak > 0 {
			ratio = d.Amount / peak
		}
		rows = append(rows, fmt.Sprintf("%s %s %s",
			d.Weekday(),
			BarStyle.Render(bar(ratio)),
			currency.Format(d.Amount, code)))
	}
	if len(rows) == 0 {
		rows = append(rows, SubtleStyle.Render("No spending this week"))
	}
	return RenderBox(ChartIcon+" Last 7 Days", strings.Join(rows, "\n"))
}

// RenderCategories lists the largest spending categories with their share.
func RenderCategories(pie []model.CategorySpend, code string) string {
	if len(pie) == 0 {
		return RenderBox("Categories", SubtleStyle.Render("No expenses yet"))
	}

	total := 0.0
	width := 0
	for _, c := range pie {
		total += c.Amount
		width = max(width, len(c.Category))
	}

	shown := pie
	if len(shown) > maxCategoryRows {
		shown = shown[:maxCategoryRows]
	}
	rows := make([]string, 0, len(shown)+1)
	for _, c := range shown {
		share := 0.0
		if total > 0 {
			share = c.Amount / total
		}
		rows = append(rows, fmt.Sprintf("%-*s %5.1f%%  %s",
			width, c.Category, share*100, currency.Format(c.Amount, code)))
	}
	if rest := len(pie) - len(shown); rest > 0 {
		rows = append(rows, SubtleStyle.Render(fmt.Sprintf("+%d more", rest)))
	}
	return RenderBox("Categories", strings.Join(rows, "\n"))
}

// RenderForecast shows today's predicted spend.
func RenderForecast(f model.Forecast, code string) string {
	var b strings.Builder
	if f.Confidence > 0 {
		fmt.Fprintf(&b, "Predicted today: %s\n", BoldStyle.Render(currency.Format(f.Predicted, code)))
		fmt.Fprintf(&b, "Confidence: %d%%\n", int(f.Confidence*100))
	}
	b.WriteString(InfoStyle.Render(f.Reason))
	if f.IsLearning {
		b.WriteString("\n" + SubtleStyle.Render("Learning your habits ("+f.LearningProgress+")"))
	}
	return RenderBox(CrystalIcon+" Forecast", b.String())
}

// RenderSubscriptions lists detected recurring charges.
func RenderSubscriptions(subs []model.Subscription, code string) string {
	if len(subs) == 0 {
		return RenderBox(RepeatIcon+" Subscriptions", SubtleStyle.Render("No recurring payments detected"))
	}

	rows := make([]string, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, fmt.Sprintf("%s  %s  %s",
			s.Merchant,
			BoldStyle.Render(currency.Format(s.Amount, code)),
			SubtleStyle.Render(fmt.Sprintf("×%d", s.Occurrences))))
	}
	return RenderBox(RepeatIcon+" Subscriptions", strings.Join(rows, "\n"))
}

// RenderInsights lists recent spending observations.
func RenderInsights(insights []model.Insight) string {
	if len(insights) == 0 {
		return RenderBox(IdeaIcon+" Insights", SubtleStyle.Render("Nothing notable in the last two weeks"))
	}

	rows := make([]string, 0, len(insights))
	for _, in := range insights {
		rows = append(rows, BoldStyle.Render(in.Title)+"\n"+in.Message)
	}
	return RenderBox(IdeaIcon+" Insights", strings.Join(rows, "\n\n"))
}

// RenderTransactions renders a table of transactions in the given location.
func RenderTransactions(txns []model.Transaction, code string, loc *time.Location) string {
	if len(txns) == 0 {
		return SubtleStyle.Render("No transactions found")
	}
	if loc == nil {
		loc = time.Local
	}

	header := []string{"ID", "Date", "Description", "Category", "Amount"}
	rows := make([][]string, 0, len(txns))
	for _, t := range txns {
		amount := currency.Format(t.Amount, code)
		if t.IsExpense() {
			amount = "-" + amount
		} else {
			amount = "+" + amount
		}
		desc := t.DescriptionOrDefault()
		if t.IsAnomaly {
			desc += " " + WarningIcon
		}
		rows = append(rows, []string{
			t.ID,
			t.Date.In(loc).Format(listDateLayout),
			desc,
			t.CategoryOrDefault(),
			amount,
		})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, TableHeaderStyle.Render(joinCells(header, widths)))
	for i, r := range rows {
		line := joinCells(r, widths)
		if txns[i].IsExpense() {
			lines = append(lines, line)
		} else {
			lines = append(lines, SuccessStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderAnomaly renders the warning shown before an unusual expense is saved.
func RenderAnomaly(result model.AnomalyResult) string {
	return RenderBox(WarningIcon+" Unusual expense", WarningStyle.Render(result.Message))
}

func joinCells(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, c := range cells {
		padded[i] = TableCellStyle.Render(c + strings.Repeat(" ", widths[i]-lipgloss.Width(c)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, padded...)
}

func bar(ratio float64) string {
	ratio = min(max(ratio, 0), 1)
	filled := int(ratio * barWidth)
	if filled == 0 && ratio > 0 {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func progressBar(progress float64, style lipgloss.Style) string {
	return style.Render(bar(progress)) + fmt.Sprintf(" %d%%", int(progress*100))
}
