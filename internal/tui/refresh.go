package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/paoloacx/wattlet/internal/service"
	"github.com/paoloacx/wattlet/internal/strava"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RefreshModel is the curve refresh screen: refetches the 12-week window
// one activity at a time, streaming progress as it goes.
type RefreshModel struct {
	svc          *service.Service
	stravaClient *strava.Client

	spinner  spinner.Model
	running  bool
	done     bool
	err      error
	progress []string
	ch       chan string
}

// NewRefreshModel creates a new refresh model
func NewRefreshModel(svc *service.Service, stravaClient *strava.Client) RefreshModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)
	return RefreshModel{
		svc:          svc,
		stravaClient: stravaClient,
		spinner:      sp,
	}
}

// Init initializes the refresh screen
func (m RefreshModel) Init() tea.Cmd {
	return nil
}

type refreshProgressMsg string

type refreshDoneMsg struct {
	err error
}

// Update handles messages
func (m RefreshModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshProgressMsg:
		m.progress = append(m.progress, string(msg))
		return m, m.waitForProgress()

	case refreshDoneMsg:
		m.running = false
		m.done = true
		m.err = msg.err
		if m.err == nil {
			return m, func() tea.Msg { return RefreshCompleteMsg{} }
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !m.running {
			switch msg.String() {
			case "enter", "s":
				m.running = true
				m.done = false
				m.err = nil
				m.progress = nil
				m.ch = make(chan string, 64)
				return m, tea.Batch(m.runRefresh(), m.waitForProgress(), m.spinner.Tick)
			}
		}
	}
	return m, nil
}

func (m RefreshModel) runRefresh() tea.Cmd {
	ch := m.ch
	svc := m.svc
	return func() tea.Msg {
		_, err := svc.RefreshPowerCurve(context.Background(), func(msg string) {
			ch <- msg
		})
		close(ch)
		return refreshDoneMsg{err: err}
	}
}

func (m RefreshModel) waitForProgress() tea.Cmd {
	ch := m.ch
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return refreshProgressMsg(msg)
	}
}

// View renders the refresh screen
func (m RefreshModel) View() string {
	var sections []string

	sections = append(sections, cardTitleStyle.Render("Refresh Power Curve"))

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, "\n"+statusStyle.Render("  Press 's' or Enter to retry"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.done {
		sections = append(sections, successStyle.Render("\n  Curve refreshed!"))
		sections = append(sections, "\n"+statusStyle.Render("  Press '1' for the curve"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.running {
		sections = append(sections, fmt.Sprintf("\n  %s Fetching 12 weeks of rides...", m.spinner.View()))
		sections = append(sections, m.renderProgressTail())
	} else {
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m RefreshModel) renderStartPrompt() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  This will rebuild the power curve:")
	lines = append(lines, "")
	lines = append(lines, "  1. List power-meter rides from the last 12 weeks")
	lines = append(lines, "  2. Download each ride's power and heart-rate streams")
	lines = append(lines, "  3. Compute best efforts across the duration ladder")
	lines = append(lines, "")

	if m.stravaClient != nil {
		short, daily := m.stravaClient.RateLimitStatus()
		lines = append(lines, statusStyle.Render(fmt.Sprintf("  API limits: %d/100 (15min), %d/1000 (daily)", short, daily)))
		lines = append(lines, "")
	}
	lines = append(lines, statusStyle.Render("  Press 's' or Enter to start"))

	return strings.Join(lines, "\n")
}

func (m RefreshModel) renderProgressTail() string {
	var lines []string
	lines = append(lines, "")

	// Keep the last few messages visible
	start := len(m.progress) - 5
	if start < 0 {
		start = 0
	}
	for _, p := range m.progress[start:] {
		lines = append(lines, statusStyle.Render("  "+p))
	}

	return strings.Join(lines, "\n")
}
