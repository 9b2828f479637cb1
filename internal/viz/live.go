package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/semodel/internal/agent"
	"github.com/san-kum/semodel/internal/metrics"
	"github.com/san-kum/semodel/internal/sim"
)

const (
	chartWidth  = 60
	chartHeight = 14
	minInterval = 10 * time.Millisecond
	maxInterval = 2 * time.Second
)

type TickMsg time.Time

// LiveModel steps a simulation on a timer and renders its bands.
type LiveModel struct {
	sim      *sim.Simulation
	title    string
	running  bool
	maxTicks int
	interval time.Duration
	showHelp bool
}

// NewLiveModel drives s at fps steps per second. maxTicks of 0 means no limit.
func NewLiveModel(s *sim.Simulation, title string, fps, maxTicks int) LiveModel {
	if fps <= 0 {
		fps = 10
	}
	return LiveModel{
		sim:      s,
		title:    title,
		running:  true,
		maxTicks: maxTicks,
		interval: clampInterval(time.Second / time.Duration(fps)),
	}
}

func (m LiveModel) Init() tea.Cmd {
	return m.tick()
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			m.running = !m.running
		case "n":
			if m.canStep() {
				m.sim.Step()
			}
		case "+", "=":
			m.interval = clampInterval(m.interval / 2)
		case "-", "_":
			m.interval = clampInterval(m.interval * 2)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.canStep() {
			m.sim.Step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m LiveModel) canStep() bool {
	return m.maxTicks <= 0 || m.sim.Tick() < m.maxTicks
}

func (m LiveModel) Running() bool { return m.running }

func (m LiveModel) Simulation() *sim.Simulation { return m.sim }

func (m LiveModel) View() string {
	histories := m.sim.Histories()

	status := runningStyle.Render("RUNNING")
	if !m.Running() {
		status = pausedStyle.Render("PAUSED")
	} else if !m.canStep() {
		status = pausedStyle.Render("DONE")
	}

	header := titleStyle.Render(fmt.Sprintf("%s  tick %d", m.title, m.sim.Tick())) + "  " + status

	chart := PlotBands(histories, chartWidth, chartHeight)
	left := panelStyle.Render(chart)
	right := statsStyle.Render(m.stats())

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	help := "space pause  n step  +/- speed  ? help  q quit"
	if m.showHelp {
		help = strings.Join([]string{
			"space/p  pause or resume",
			"n        advance one tick",
			"+ / -    faster / slower",
			"q        quit",
		}, "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, helpStyle.Render(help))
}

func (m LiveModel) stats() string {
	pos := m.sim.Count(agent.Positive)
	neg := m.sim.Count(agent.Negative)
	neu := m.sim.Count(agent.Neutral)

	lines := []string{
		row("Positive/Negative", fmt.Sprintf("%.2f", m.sim.PositiveNegativeRatio())),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Positive"), positiveStyle.Render(fmt.Sprint(pos))),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Negative"), negativeStyle.Render(fmt.Sprint(neg))),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Neutral"), neutralStyle.Render(fmt.Sprint(neu))),
		row("Public opinion", fmt.Sprintf("%+.3f", m.sim.PublicOpinion())),
		"",
	}
	for _, name := range []string{metrics.TotalEngagement, metrics.TotalTrustability, metrics.TotalRecovery, metrics.TotalExperience} {
		v, _ := m.sim.Latest(name)
		lines = append(lines, row(name, fmt.Sprintf("%.2f", v)))
	}

	lines = append(lines, "", titleStyle.Render("Stakeholders"))
	placed := m.sim.Stakeholders()
	cats := make([]sim.Category, 0, len(placed))
	for c := range placed {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	for _, c := range cats {
		p, _ := m.sim.Participant(placed[c])
		lines = append(lines, row(c.Label(), fmt.Sprintf("%+.2f", p.Opinion)))
	}
	return strings.Join(lines, "\n")
}

func clampInterval(d time.Duration) time.Duration {
	if d < minInterval {
		return minInterval
	}
	if d > maxInterval {
		return maxInterval
	}
	return d
}
