package views

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/pinpoint/internal/tui/styles"
)

// DismissAlertMsg closes the open alert.
type DismissAlertMsg struct{}

// AlertModel is a blocking dialog with a single OK action.
type AlertModel struct {
	title string
	body  string
}

func NewAlertModel(msg ShowAlertMsg) AlertModel {
	return AlertModel{title: msg.Title, body: msg.Body}
}

func (m AlertModel) Init() tea.Cmd {
	return nil
}

func (m AlertModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", "esc", " ":
			return m, func() tea.Msg { return DismissAlertMsg{} }
		}
	}
	return m, nil
}

func (m AlertModel) View() string {
	return styles.Modal.Render(lipgloss.JoinVertical(lipgloss.Center,
		styles.ErrorText.Render(m.title),
		"",
		m.body,
		"",
		styles.ActiveButton.Render("OK"),
	))
}
