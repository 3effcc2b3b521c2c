package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Session Session
}

// Session is the tenant and operator every console action runs as.
type Session struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
