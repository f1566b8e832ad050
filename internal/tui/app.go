package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/pinpoint/internal/engine/lookup"
	"github.com/rendis/pinpoint/internal/tui/views"
)

// App is the root bubbletea model: the lookup screen plus an optional alert
// that captures keyboard input while open.
type App struct {
	width  int
	height int
	lookup views.LookupModel
	alert  *views.AlertModel
}

func NewApp(ctx context.Context, ctrl *lookup.Controller) App {
	return App{
		lookup: views.NewLookupModel(ctx, ctrl),
	}
}

func (a App) Init() tea.Cmd {
	return a.lookup.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.alert != nil {
			m, cmd := a.alert.Update(msg)
			alert := m.(views.AlertModel)
			a.alert = &alert
			return a, cmd
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case views.ShowAlertMsg:
		alert := views.NewAlertModel(msg)
		a.alert = &alert
		return a, nil
	case views.DismissAlertMsg:
		a.alert = nil
		return a, nil
	}

	m, cmd := a.lookup.Update(msg)
	a.lookup = m.(views.LookupModel)
	return a, cmd
}

func (a App) View() string {
	if a.alert != nil {
		return lipgloss.Place(
			a.width, a.height,
			lipgloss.Center, lipgloss.Center,
			a.alert.View(),
		)
	}

	return lipgloss.Place(
		a.width, a.height,
		lipgloss.Center, lipgloss.Top,
		a.lookup.View(),
	)
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, ctrl *lookup.Controller) error {
	p := tea.NewProgram(NewApp(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
