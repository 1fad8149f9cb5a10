package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/smart-expense/internal/cli"
	"github.com/Veraticus/smart-expense/internal/model"
)

// ConfirmModel asks whether an unusual expense should be saved anyway.
type ConfirmModel struct {
	anomaly   model.AnomalyResult
	help      help.Model
	keymap    KeyMap
	confirmed bool
	done      bool
}

// NewConfirmModel creates a prompt for the given anomaly.
func NewConfirmModel(anomaly model.AnomalyResult) ConfirmModel {
	return ConfirmModel{
		anomaly: anomaly,
		help:    help.New(),
		keymap:  DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keymap.Confirm):
		m.confirmed = true
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keymap.Cancel), key.Matches(keyMsg, m.keymap.Quit):
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the prompt.
func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}
	return cli.RenderAnomaly(m.anomaly) + "\n" +
		cli.PromptStyle.Render("Save anyway?") + "\n" +
		m.help.ShortHelpView([]key.Binding{m.keymap.Confirm, m.keymap.Cancel}) + "\n"
}

// Confirmed reports whether the user chose to save.
func (m ConfirmModel) Confirmed() bool {
	return m.confirmed
}
