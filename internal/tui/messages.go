package tui

import "github.com/Veraticus/smart-expense/internal/analytics"

// resultsMsg carries a freshly published analytics pass.
type resultsMsg struct {
	results analytics.Results
}
