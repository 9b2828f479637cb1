package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/semodel/internal/metrics"
	"github.com/san-kum/semodel/internal/sim"
)

func newSim(t *testing.T) *sim.Simulation {
	t.Helper()
	s, err := sim.NewSeeded(sim.DefaultParams(), 1)
	if err != nil {
		t.Fatalf("sim failed: %v", err)
	}
	return s
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLiveModelTicks(t *testing.T) {
	m := NewLiveModel(newSim(t), "test", 30, 2)

	var model tea.Model = m
	for i := 0; i < 5; i++ {
		var cmd tea.Cmd
		model, cmd = model.Update(TickMsg{})
		if cmd == nil {
			t.Fatal("tick should schedule the next tick")
		}
	}

	if got := model.(LiveModel).Simulation().Tick(); got != 2 {
		t.Errorf("expected to stop at 2 ticks, got %d", got)
	}
}

func TestLiveModelPauseAndStep(t *testing.T) {
	m := NewLiveModel(newSim(t), "test", 30, 0)

	model, _ := m.Update(key(" "))
	if model.(LiveModel).Running() {
		t.Fatal("space should pause")
	}

	model, _ = model.Update(TickMsg{})
	if model.(LiveModel).Simulation().Tick() != 0 {
		t.Error("paused model should not step on tick")
	}

	model, _ = model.Update(key("n"))
	if model.(LiveModel).Simulation().Tick() != 1 {
		t.Error("n should advance one tick")
	}
}

func TestLiveModelQuit(t *testing.T) {
	m := NewLiveModel(newSim(t), "test", 30, 0)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestLiveModelView(t *testing.T) {
	s := newSim(t)
	s.Run(3)
	view := NewLiveModel(s, "taipei", 30, 0).View()

	for _, want := range []string{"taipei", "tick 3", "Public opinion", "Stakeholders"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPlotHelpers(t *testing.T) {
	s := newSim(t)
	s.Run(5)

	if PlotBands(s.Histories(), 40, 8) == "" {
		t.Error("expected band chart")
	}
	if PlotBands(map[string][]float64{}, 40, 8) != "" {
		t.Error("empty histories should not plot")
	}
	out := PlotHistories([]string{metrics.TotalEngagement, "missing"}, s.Histories(), 40, 5)
	if !strings.Contains(out, metrics.TotalEngagement) {
		t.Error("expected caption in chart output")
	}
}

func TestSummaryText(t *testing.T) {
	got := SummaryText(1.5, 3, 2)
	want := "Positive/Negative Ratio: 1.50\nPositive Opinion: 3\nNegative Opinion: 2"
	if got != want {
		t.Errorf("SummaryText = %q, want %q", got, want)
	}
}
