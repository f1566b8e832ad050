package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/pinpoint/internal/engine/lookup"
	"github.com/rendis/pinpoint/internal/tui/components"
	"github.com/rendis/pinpoint/internal/tui/styles"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusShow
	focusClear
	focusCount
)

// Rows taken by everything except the map: title, input, buttons, caption,
// popup, legend, status bar and the borders around them.
const chromeHeight = 19

// LookupModel is the address lookup screen.
type LookupModel struct {
	ctx     context.Context
	ctrl    *lookup.Controller
	input   textinput.Model
	spinner spinner.Model
	mapView components.MapView
	focus   focusArea
	width   int
	height  int
}

type lookupResolvedMsg struct {
	outcome lookup.Outcome
}

func NewLookupModel(ctx context.Context, ctrl *lookup.Controller) LookupModel {
	input := textinput.New()
	input.Placeholder = "Type an address"
	input.CharLimit = 200
	input.Width = 50
	input.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Secondary)),
	)

	return LookupModel{
		ctx:     ctx,
		ctrl:    ctrl,
		input:   input,
		spinner: sp,
		mapView: components.NewMapView(60, 16, ctrl.State().Region),
		focus:   focusInput,
	}
}

func (m LookupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LookupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case lookupResolvedMsg:
		m.ctrl.Apply(msg.outcome)
		m.syncMap()
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.State().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			return m, m.setFocus((m.focus + 1) % focusCount)
		case "shift+tab", "up":
			return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
		case "ctrl+l":
			m.clear()
			return m, nil
		case "enter":
			if m.focus == focusClear {
				m.clear()
				return m, nil
			}
			return m, m.show()
		}

		if m.focus != focusInput {
			// typing on a button jumps back into the input
			if msg.Type != tea.KeyRunes {
				return m, nil
			}
			cmd := m.setFocus(focusInput)
			var inputCmd tea.Cmd
			m.input, inputCmd = m.input.Update(msg)
			m.ctrl.SetQuery(m.input.Value())
			return m, tea.Batch(cmd, inputCmd)
		}
	}

	var cmd tea.Cmd
	if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
		m.ctrl.SetQuery(m.input.Value())
	}
	return m, cmd
}

// show starts a lookup for the typed address. A blank address raises the
// empty-address alert instead.
func (m *LookupModel) show() tea.Cmd {
	wasLoading := m.ctrl.State().Loading

	ticket, err := m.ctrl.Start(m.input.Value())
	if errors.Is(err, lookup.ErrEmptyQuery) {
		return func() tea.Msg {
			return ShowAlertMsg{Title: "Empty address", Body: "Please type an address."}
		}
	}

	// dismiss the input like a soft keyboard would
	m.input.Blur()
	m.focus = focusShow

	ctx, ctrl := m.ctx, m.ctrl
	resolve := func() tea.Msg {
		return lookupResolvedMsg{outcome: ctrl.Resolve(ctx, ticket)}
	}
	if wasLoading {
		return resolve
	}
	return tea.Batch(m.spinner.Tick, resolve)
}

func (m *LookupModel) clear() {
	m.ctrl.Clear()
	m.input.SetValue("")
	m.syncMap()
}

func (m *LookupModel) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	if f == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *LookupModel) syncMap() {
	s := m.ctrl.State()
	m.mapView.SetRegion(s.Region)
	m.mapView.SetMarker(s.Marker)
}

func (m *LookupModel) updateLayout() {
	w := m.width - 8
	if w < 20 {
		w = 20
	}
	h := m.height - chromeHeight
	if h < 4 {
		h = 4
	}
	m.mapView.SetSize(w, h)
	m.input.Width = min(w-14, 80)
}

func (m LookupModel) View() string {
	var b strings.Builder
	s := m.ctrl.State()

	b.WriteString(styles.Title.Render("Show Address on Map") + "\n")
	b.WriteString(styles.Label.Render("Address:") + " " + m.input.View() + "\n")
	b.WriteString(m.renderButtons() + "\n")

	switch {
	case s.Loading:
		b.WriteString(m.spinner.View() + " Looking up address…")
	case s.Caption != "":
		b.WriteString(m.renderCaption(s))
	}
	b.WriteString("\n")

	b.WriteString(styles.MapFrame.Render(m.mapView.View()) + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render(m.mapView.Legend()) + "\n")
	if popup := m.mapView.Popup(); popup != "" {
		b.WriteString(popup + "\n")
	}

	b.WriteString(styles.StatusBar.Render("enter show • tab next • ctrl+l clear • ctrl+c quit"))

	return styles.Border.Render(b.String())
}

func (m LookupModel) renderButtons() string {
	showStyle, clearStyle := styles.Button, styles.Button
	switch m.focus {
	case focusShow:
		showStyle = styles.ActiveButton
	case focusClear:
		clearStyle = styles.ActiveButton
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		showStyle.Render("Show"), "  ", clearStyle.Render("Clear"))
}

// renderCaption wraps the caption to the map width and keeps at most two lines.
func (m LookupModel) renderCaption(s lookup.State) string {
	w := max(m.width-8, 20)
	return captionStyle(s).Width(w).MaxHeight(2).Render(s.Caption)
}

// captionStyle shows a found address in the success color.
func captionStyle(s lookup.State) lipgloss.Style {
	if s.Marker != nil {
		return styles.FoundCaption
	}
	return styles.Caption
}

// ShowAlertMsg asks the app to open a blocking alert.
type ShowAlertMsg struct {
	Title string
	Body  string
}
