package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/pulse/internal/month"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// MonthChangedMsg is emitted when a view moves to another month so the others can follow.
type MonthChangedMsg struct {
	Month month.Key
}

func changeMonth(m month.Key) tea.Cmd {
	return func() tea.Msg {
		return MonthChangedMsg{Month: m}
	}
}
