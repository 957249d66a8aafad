package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/paoloacx/wattlet/internal/service"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HistoryModel is the year-history screen: builds the ranking population
// from the trailing 365 days, or clears it for a rebuild.
type HistoryModel struct {
	svc *service.Service

	spinner  spinner.Model
	loaded   bool
	running  bool
	done     bool
	err      error
	count    int
	progress []string
	ch       chan string
}

// NewHistoryModel creates a new year-history model
func NewHistoryModel(svc *service.Service) HistoryModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)
	return HistoryModel{
		svc:     svc,
		spinner: sp,
	}
}

// Init checks whether a population is already cached.
func (m HistoryModel) Init() tea.Cmd {
	return m.checkLoaded
}

type historyStatusMsg struct {
	loaded bool
	count  int
}

func (m HistoryModel) checkLoaded() tea.Msg {
	has, err := m.svc.HasYearHistory()
	if err != nil || !has {
		return historyStatusMsg{}
	}
	records, err := m.svc.YearHistory()
	if err != nil {
		return historyStatusMsg{loaded: true}
	}
	return historyStatusMsg{loaded: true, count: len(records)}
}

type historyProgressMsg string

type historyDoneMsg struct {
	count int
	err   error
}

// Update handles messages
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyStatusMsg:
		m.loaded = msg.loaded
		m.count = msg.count

	case historyProgressMsg:
		m.progress = append(m.progress, string(msg))
		return m, m.waitForProgress()

	case historyDoneMsg:
		m.running = false
		m.done = true
		m.err = msg.err
		if m.err == nil {
			m.loaded = true
			m.count = msg.count
			return m, func() tea.Msg { return HistoryCompleteMsg{} }
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
				return m, tea.Batch(m.runLoad(), m.waitForProgress(), m.spinner.Tick)
			case "x":
				if m.loaded {
					if err := m.svc.ResetYearHistory(); err != nil {
						m.err = err
						return m, nil
					}
					m.loaded = false
					m.count = 0
					m.done = false
				}
			}
		}
	}
	return m, nil
}

func (m HistoryModel) runLoad() tea.Cmd {
	ch := m.ch
	svc := m.svc
	return func() tea.Msg {
		records, err := svc.LoadYearHistory(context.Background(), func(msg string) {
			ch <- msg
		})
		close(ch)
		return historyDoneMsg{count: len(records), err: err}
	}
}

func (m HistoryModel) waitForProgress() tea.Cmd {
	ch := m.ch
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return historyProgressMsg(msg)
	}
}

// View renders the history screen
func (m HistoryModel) View() string {
	var sections []string

	sections = append(sections, cardTitleStyle.Render("Year History"))

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, "\n"+statusStyle.Render("  Press 's' or Enter to retry"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.running {
		sections = append(sections, fmt.Sprintf("\n  %s Building the year population...", m.spinner.View()))
		sections = append(sections, m.renderProgressTail())
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.loaded {
		sections = append(sections, successStyle.Render(fmt.Sprintf("\n  Year history loaded: %d effort records", m.count)))
		sections = append(sections, "")
		sections = append(sections, "  Best efforts are now ranked against the last 365 days.")
		sections = append(sections, "")
		sections = append(sections, statusStyle.Render("  Press 'x' to clear, then 's' to rebuild from scratch"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, m.renderStartPrompt())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m HistoryModel) renderStartPrompt() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  Builds the ranking population from a full year of rides:")
	lines = append(lines, "")
	lines = append(lines, "  1. List power-meter rides from the last 365 days")
	lines = append(lines, "  2. Download each ride's streams and extract best efforts")
	lines = append(lines, "  3. Store one record per (ride, duration) pair")
	lines = append(lines, "")
	lines = append(lines, warningStyle.Render("  A year of rides can take a while and counts against API limits."))
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Press 's' or Enter to start"))

	return strings.Join(lines, "\n")
}

func (m HistoryModel) renderProgressTail() string {
	var lines []string
	lines = append(lines, "")

	start := len(m.progress) - 5
	if start < 0 {
		start = 0
	}
	for _, p := range m.progress[start:] {
		lines = append(lines, statusStyle.Render("  "+p))
	}

	return strings.Join(lines, "\n")
}
