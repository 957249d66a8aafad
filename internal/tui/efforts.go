package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/paoloacx/wattlet/internal/curve"
	"github.com/paoloacx/wattlet/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// EffortsModel is the best-efforts detail screen: every ladder entry with
// the ride it came from, scrollable.
type EffortsModel struct {
	svc      *service.Service
	snap     *curve.Snapshot
	ranks    map[int]curve.Rank
	viewport viewport.Model
	loading  bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewEffortsModel creates a new best-efforts model
func NewEffortsModel(svc *service.Service, width, height int) EffortsModel {
	m := EffortsModel{
		svc:     svc,
		loading: true,
		width:   width,
		height:  height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.ready = true
	}

	return m
}

// Init initializes the efforts screen
func (m EffortsModel) Init() tea.Cmd {
	return m.loadEfforts
}

type effortsLoadedMsg struct {
	snap  *curve.Snapshot
	ranks map[int]curve.Rank
	err   error
}

func (m EffortsModel) loadEfforts() tea.Msg {
	snap, err := m.svc.PowerCurve(context.Background())
	if err != nil {
		return effortsLoadedMsg{err: err}
	}
	ranks, _ := m.svc.SnapshotRanks(snap)
	return effortsLoadedMsg{snap: snap, ranks: ranks}
}

// Update handles messages
func (m EffortsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case effortsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.snap = msg.snap
		m.ranks = msg.ranks
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.snap != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadEfforts
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the efforts screen
func (m EffortsModel) View() string {
	if m.loading {
		return "\n  Loading best efforts..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  j/k or arrows: scroll  r: reload")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m EffortsModel) renderContent() string {
	if m.snap == nil || !m.snap.HasData() {
		return "No best efforts yet. Press '3' to fetch your rides."
	}

	var sections []string

	title := cardTitleStyle.Render("Best Efforts (12 weeks)")
	sections = append(sections, title)

	for _, e := range m.snap.Efforts {
		if e.Watts == 0 {
			continue
		}
		sections = append(sections, m.renderEffort(e))
	}

	if recent := m.snap.RecentEfforts(5); len(recent) > 0 {
		sections = append(sections, "")
		sections = append(sections, cardTitleStyle.Render("Most Recent Bests"))
		for _, e := range recent {
			sections = append(sections, fmt.Sprintf("  %s  %s %dW  %s",
				e.Date.Format("Jan 02"), e.Label, e.Watts, e.ActivityName))
		}
	}

	return strings.Join(sections, "\n")
}

func (m EffortsModel) renderEffort(e curve.BestEffort) string {
	line := fmt.Sprintf("  %-4s %5dW", e.Label, e.Watts)
	if e.Heartrate > 0 {
		line += fmt.Sprintf("  %3d bpm", e.Heartrate)
	} else {
		line += "         "
	}
	line += fmt.Sprintf("  %s  %s", e.Date.Format("Jan 02"), e.ActivityName)

	if r, ok := m.ranks[e.DurationSeconds]; ok {
		badge := fmt.Sprintf("  #%d of %d this year", r.Position, r.PopulationSize)
		if r.Position == 1 {
			if r.ImprovementPct > 0 {
				badge += fmt.Sprintf(", %.1f%% over previous best", r.ImprovementPct)
			}
			line += successStyle.Render(badge)
		} else {
			line += helpDescStyle.Render(badge)
		}
	}

	return line
}
