package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/semodel/internal/agent"
)

func population(opinions ...float64) []*agent.Participant {
	pop := make([]*agent.Participant, len(opinions))
	for i, o := range opinions {
		pop[i] = agent.New(i, agent.Profile{
			Engagement:       0.5,
			Trustability:     0.2,
			Influenceability: 0.5,
			Recovery:         0.6,
			Experience:       1,
		}, o)
	}
	return pop
}

func TestCollectorCounts(t *testing.T) {
	c := DefaultCollector()
	pop := population(-0.9, -0.6, 0, 0.2, 0.7)

	c.Collect(pop)

	tests := []struct {
		name string
		want float64
	}{
		{Negative, 2},
		{Neutral, 2},
		{Positive, 1},
		{TotalEngagement, 2.5},
		{TotalTrustability, 1.0},
		{TotalRecovery, 3.0},
		{TotalExperience, 5},
	}

	for _, tt := range tests {
		got, ok := c.Latest(tt.name)
		if !ok {
			t.Fatalf("metric %s not collected", tt.name)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}

	mean, _ := c.Latest(PublicOpinion)
	if math.Abs(mean-(-0.12)) > 1e-9 {
		t.Errorf("public opinion = %v, want -0.12", mean)
	}
}

func TestCollectorHistory(t *testing.T) {
	c := DefaultCollector()
	pop := population(0.9, -0.9)

	c.Collect(pop)
	pop[1].Opinion = 0.9
	c.Collect(pop)

	if n := len(c.History(Neutral)); n != 2 {
		t.Fatalf("expected 2 samples, got %d", n)
	}

	pos := c.History(Positive)
	if pos[0] != 1 || pos[1] != 2 {
		t.Errorf("unexpected positive history %v", pos)
	}

	pos[0] = 99
	if c.History(Positive)[0] != 1 {
		t.Error("History must return a copy")
	}

	if c.History("missing") != nil {
		t.Error("unknown metric should have nil history")
	}
	if len(c.Names()) != 8 {
		t.Errorf("expected 8 metrics, got %d", len(c.Names()))
	}
}

func TestBoundaryNotCounted(t *testing.T) {
	c := DefaultCollector()
	c.Collect(population(0.5, -0.5, 0.1))

	total := 0.0
	for _, name := range []string{Negative, Neutral, Positive} {
		v, _ := c.Latest(name)
		total += v
	}
	if total != 1 {
		t.Errorf("boundary opinions must not be counted, got %v", total)
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		pos, neg, want float64
	}{
		{3, 2, 1.5},
		{0, 0, 0},
		{5, 0, 0},
		{0, 4, 0},
		{1, 1, 1},
	}
	for _, tt := range tests {
		if got := Ratio(tt.pos, tt.neg); got != tt.want {
			t.Errorf("Ratio(%v, %v) = %v, want %v", tt.pos, tt.neg, got, tt.want)
		}
	}
}

func TestMeanEmpty(t *testing.T) {
	if Mean(nil) != 0 {
		t.Error("mean of empty population should be 0")
	}
}
