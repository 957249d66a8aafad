package tui

import (
	"github.com/paoloacx/wattlet/internal/service"
	"github.com/paoloacx/wattlet/internal/strava"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenCurve Screen = iota
	ScreenEfforts
	ScreenRefresh
	ScreenHistory
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	curve   CurveModel
	efforts EffortsModel
	refresh RefreshModel
	history HistoryModel
	help    HelpModel

	svc          *service.Service
	stravaClient *strava.Client

	width  int
	height int
}

// NewApp creates a new App with all dependencies
func NewApp(svc *service.Service, stravaClient *strava.Client) *App {
	return &App{
		screen:       ScreenCurve,
		svc:          svc,
		stravaClient: stravaClient,
		curve:        NewCurveModel(svc),
		efforts:      NewEffortsModel(svc, 0, 0),
		refresh:      NewRefreshModel(svc, stravaClient),
		history:      NewHistoryModel(svc),
		help:         NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.curve.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings, unless a fetch is in flight
		if !a.busy() {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenCurve
				a.curve = NewCurveModel(a.svc)
				return a, a.curve.Init()
			case "2":
				a.screen = ScreenEfforts
				a.efforts = NewEffortsModel(a.svc, a.width, a.height)
				return a, a.efforts.Init()
			case "3":
				if a.screen != ScreenRefresh {
					a.screen = ScreenRefresh
					return a, a.refresh.Init()
				}
			case "4":
				if a.screen != ScreenHistory {
					a.screen = ScreenHistory
					return a, a.history.Init()
				}
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case RefreshCompleteMsg:
		a.screen = ScreenCurve
		a.curve = NewCurveModel(a.svc)
		return a, a.curve.Init()

	case HistoryCompleteMsg:
		a.screen = ScreenEfforts
		a.efforts = NewEffortsModel(a.svc, a.width, a.height)
		return a, a.efforts.Init()
	}

	var cmd tea.Cmd
	switch a.screen {
	case ScreenCurve:
		var m tea.Model
		m, cmd = a.curve.Update(msg)
		a.curve = m.(CurveModel)
	case ScreenEfforts:
		var m tea.Model
		m, cmd = a.efforts.Update(msg)
		a.efforts = m.(EffortsModel)
	case ScreenRefresh:
		var m tea.Model
		m, cmd = a.refresh.Update(msg)
		a.refresh = m.(RefreshModel)
	case ScreenHistory:
		var m tea.Model
		m, cmd = a.history.Update(msg)
		a.history = m.(HistoryModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

func (a *App) busy() bool {
	switch a.screen {
	case ScreenRefresh:
		return a.refresh.running
	case ScreenHistory:
		return a.history.running
	}
	return false
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenCurve:
		content = a.curve.View()
	case ScreenEfforts:
		content = a.efforts.View()
	case ScreenRefresh:
		content = a.refresh.View()
	case ScreenHistory:
		content = a.history.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("Wattlet - Cycling Power Curve")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Curve", ScreenCurve},
		{"2", "Best Efforts", ScreenEfforts},
		{"3", "Refresh", ScreenRefresh},
		{"4", "Year History", ScreenHistory},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

// RefreshCompleteMsg is sent when a curve refresh finishes
type RefreshCompleteMsg struct{}

// HistoryCompleteMsg is sent when the year-history build finishes
type HistoryCompleteMsg struct{}
