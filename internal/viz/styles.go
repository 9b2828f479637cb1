package viz

import "github.com/charmbracelet/lipgloss"

// Band colors shared by the network portrayal and the terminal views.
const (
	NegativeColor = "#FF0000"
	NeutralColor  = "#808080"
	PositiveColor = "#0400ff"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 2)

	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(40)

	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(20)
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(PositiveColor)).Bold(true)
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(NegativeColor)).Bold(true)
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(NeutralColor))
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Bold(true)
	pausedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaa00")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}
