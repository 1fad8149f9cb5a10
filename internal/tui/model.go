// Package tui provides the interactive terminal views: a live analytics
// dashboard and the anomaly confirmation prompt.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/smart-expense/internal/analytics"
	"github.com/Veraticus/smart-expense/internal/cli"
)

// DashboardModel renders analytics passes as they are published by a runner.
type DashboardModel struct {
	updates    <-chan analytics.Results
	refresh    func()
	currency   string
	help       help.Model
	keymap     KeyMap
	results    analytics.Results
	hasResults bool
	quitting   bool
}

// NewDashboard creates a dashboard fed by updates. refresh is invoked on
// start and whenever the user asks for a refresh; it must not block.
func NewDashboard(updates <-chan analytics.Results, refresh func(), currencyCode string) DashboardModel {
	if refresh == nil {
		refresh = func() {}
	}
	return DashboardModel{
		updates:  updates,
		refresh:  refresh,
		currency: currencyCode,
		help:     help.New(),
		keymap:   DefaultKeyMap(),
	}
}

// Init starts listening for results and requests the first pass.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(waitForResults(m.updates), m.requestRefresh())
}

// Update handles messages and updates the model.
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultsMsg:
		m.results = msg.results
		m.hasResults = true
		return m, waitForResults(m.updates)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Refresh):
			return m, m.requestRefresh()
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}
	return m, nil
}

// View renders the latest results.
func (m DashboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.hasResults {
		b.WriteString(cli.RenderDashboard(m.results, m.currency))
	} else {
		b.WriteString(cli.SubtleStyle.Render("Crunching numbers..."))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

// Results returns the most recent results and whether any have arrived.
func (m DashboardModel) Results() (analytics.Results, bool) {
	return m.results, m.hasResults
}

func (m DashboardModel) requestRefresh() tea.Cmd {
	refresh := m.refresh
	return func() tea.Msg {
		refresh()
		return nil
	}
}

// waitForResults blocks until the runner publishes the next pass.
func waitForResults(updates <-chan analytics.Results) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-updates
		if !ok {
			return nil
		}
		return resultsMsg{results: res}
	}
}
