package tui

import (
	"context"
	"fmt"

	"github.com/paoloacx/wattlet/internal/curve"
	"github.com/paoloacx/wattlet/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// CurveModel is the power-curve dashboard screen.
type CurveModel struct {
	svc     *service.Service
	snap    *curve.Snapshot
	points  []curve.PowerPoint
	ranks   map[int]curve.Rank
	limits  curve.Thresholds
	hasEst  bool
	loading bool
	err     error
}

// NewCurveModel creates a new curve dashboard model
func NewCurveModel(svc *service.Service) CurveModel {
	return CurveModel{
		svc:     svc,
		loading: true,
	}
}

// Init initializes the dashboard
func (m CurveModel) Init() tea.Cmd {
	return m.loadData
}

type curveDataMsg struct {
	snap   *curve.Snapshot
	points []curve.PowerPoint
	ranks  map[int]curve.Rank
	limits curve.Thresholds
	hasEst bool
	err    error
}

func (m CurveModel) loadData() tea.Msg {
	snap, err := m.svc.PowerCurve(context.Background())
	if err != nil {
		return curveDataMsg{err: err}
	}

	// The chart plots the slim points cache; the table and estimates read
	// the full snapshot. Ranks and thresholds are best effort; the curve
	// renders without them.
	points, err := m.svc.PowerCurvePoints(context.Background())
	if err != nil {
		points = snap.Points()
	}
	ranks, _ := m.svc.SnapshotRanks(snap)
	limits, hasEst := curve.EstimateThresholds(snap)

	return curveDataMsg{snap: snap, points: points, ranks: ranks, limits: limits, hasEst: hasEst}
}

// Update handles messages
func (m CurveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case curveDataMsg:
		m.loading = false
		m.err = msg.err
		m.snap = msg.snap
		m.points = msg.points
		m.ranks = msg.ranks
		m.limits = msg.limits
		m.hasEst = msg.hasEst
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m CurveModel) View() string {
	if m.loading {
		return "\n  Loading power curve..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.snap == nil || !m.snap.HasData() {
		return "\n  No power data yet. Press '3' to fetch your rides."
	}

	var sections []string

	sections = append(sections, m.renderChart())

	row := m.renderTable()
	if m.hasEst {
		row = lipgloss.JoinHorizontal(lipgloss.Top, row, "  ", m.renderThresholds())
	}
	sections = append(sections, row)

	age := statusStyle.Render(fmt.Sprintf("Curve captured %s. Press 'r' to reload, '3' to refetch.",
		m.snap.CapturedAt.Format("Jan 02 15:04")))
	sections = append(sections, age)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m CurveModel) renderChart() string {
	title := cardTitleStyle.Render("Best Power by Duration (12 weeks)")

	var series []float64
	for _, p := range m.points {
		if p.Watts > 0 {
			series = append(series, float64(p.Watts))
		}
	}
	if len(series) < 2 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "Not enough data to plot"))
	}

	graph := asciigraph.Plot(series,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m CurveModel) renderTable() string {
	title := cardTitleStyle.Render("Duration Ladder")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-5s  %6s  %5s  %-8s", "Dur", "Watts", "HR", "Rank"))

	rows := []string{header}
	for _, e := range m.snap.Efforts {
		watts := "-"
		hr := "-"
		rank := ""
		if e.Watts > 0 {
			watts = fmt.Sprintf("%dW", e.Watts)
			if e.Heartrate > 0 {
				hr = fmt.Sprintf("%d", e.Heartrate)
			}
			if r, ok := m.ranks[e.DurationSeconds]; ok {
				rank = fmt.Sprintf("%d/%d", r.Position, r.PopulationSize)
				if r.Position == 1 && r.ImprovementPct > 0 {
					rank += fmt.Sprintf(" +%.1f%%", r.ImprovementPct)
				}
			}
		}
		rows = append(rows, tableRowStyle.Render(
			fmt.Sprintf("%-5s  %6s  %5s  %-8s", e.Label, watts, hr, rank)))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func (m CurveModel) renderThresholds() string {
	title := cardTitleStyle.Render("Estimated Thresholds")

	lines := []string{
		RenderMetric("FTP", m.formatPowerHR(m.limits.FTP, m.limits.FTPHeartrate)),
		RenderMetric("VT1", m.formatPowerHR(m.limits.VT1Power, m.limits.VT1Heartrate)),
		RenderMetric("VT2", m.formatPowerHR(m.limits.VT2Power, m.limits.VT2Heartrate)),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m CurveModel) formatPowerHR(watts, hr int) string {
	if hr > 0 {
		return fmt.Sprintf("%dW @ %d bpm", watts, hr)
	}
	return fmt.Sprintf("%dW", watts)
}
