package sweep

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/semodel/internal/metrics"
	"github.com/san-kum/semodel/internal/sim"
)

func TestCombinations(t *testing.T) {
	r := NewRunner(sim.DefaultParams(), []Variable{
		{Name: "avg_node_degree", Values: []float64{1, 2, 3}},
		{Name: "engagement", Values: []float64{0.2, 0.8}},
	})

	combos := r.Combinations()
	if len(combos) != 6 {
		t.Fatalf("expected 6 combinations, got %d", len(combos))
	}
	if combos[0]["avg_node_degree"] != 1 || combos[0]["engagement"] != 0.2 {
		t.Errorf("unexpected first combination %v", combos[0])
	}
	if combos[1]["avg_node_degree"] != 1 || combos[1]["engagement"] != 0.8 {
		t.Errorf("last variable should vary fastest, got %v", combos[1])
	}
	if combos[5]["avg_node_degree"] != 3 {
		t.Errorf("unexpected last combination %v", combos[5])
	}
}

func TestCombinationsNoVariables(t *testing.T) {
	r := NewRunner(sim.DefaultParams(), nil)
	if n := len(r.Combinations()); n != 1 {
		t.Errorf("expected a single empty combination, got %d", n)
	}
}

func TestRunDeterministicAcrossWorkers(t *testing.T) {
	vars := []Variable{{Name: "avg_node_degree", Values: []float64{1, 3}}}
	base := sim.DefaultParams()
	base.NumNodes = 40

	serial, err := NewRunner(base, vars, WithIterations(2), WithMaxSteps(10), WithSeedStart(5), WithWorkers(1)).Run(context.Background())
	if err != nil {
		t.Fatalf("serial run failed: %v", err)
	}
	parallel, err := NewRunner(base, vars, WithIterations(2), WithMaxSteps(10), WithSeedStart(5), WithWorkers(3)).Run(context.Background())
	if err != nil {
		t.Fatalf("parallel run failed: %v", err)
	}

	if len(serial) != 4 || len(parallel) != 4 {
		t.Fatalf("expected 4 results, got %d and %d", len(serial), len(parallel))
	}
	for i := range serial {
		if serial[i].Seed != int64(5+i) {
			t.Errorf("run %d seed %d", i, serial[i].Seed)
		}
		if serial[i].Final[metrics.Positive] != parallel[i].Final[metrics.Positive] {
			t.Errorf("run %d differs between worker counts", i)
		}
		if serial[i].Err != nil {
			t.Errorf("run %d failed: %v", i, serial[i].Err)
		}
	}
	if serial[2].Iteration != 0 || serial[3].Iteration != 1 {
		t.Error("iterations should cycle within a combination")
	}
}

func TestRunRecordsConstructionErrors(t *testing.T) {
	vars := []Variable{{Name: "num_nodes", Values: []float64{3, 20}}}
	results, err := NewRunner(sim.DefaultParams(), vars, WithMaxSteps(2)).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !errors.Is(results[0].Err, sim.ErrInsufficientNodes) {
		t.Errorf("expected ErrInsufficientNodes, got %v", results[0].Err)
	}
	if results[1].Err != nil {
		t.Errorf("unexpected error %v", results[1].Err)
	}
}

func TestRunUnknownParameter(t *testing.T) {
	_, err := NewRunner(sim.DefaultParams(), []Variable{{Name: "charisma", Values: []float64{1}}}).Run(context.Background())
	if !errors.Is(err, sim.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(sim.DefaultParams(), nil).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSetParam(t *testing.T) {
	p := sim.DefaultParams()
	for _, name := range ParamNames() {
		v := 0.25
		if name == "num_nodes" {
			v = 40
		}
		if err := SetParam(&p, name, v); err != nil {
			t.Errorf("SetParam(%s) failed: %v", name, err)
		}
	}
	if p.Stakeholders[sim.Media] != 0.25 || p.Population.Recovery != 0.25 || p.NumNodes != 40 {
		t.Errorf("values not applied: %+v", p)
	}
	if err := SetParam(&p, "media", 1); err == nil {
		t.Error("category without suffix should be rejected")
	}
}

func TestSetParamNodesMustBeWhole(t *testing.T) {
	for _, v := range []float64{100.7, math.NaN(), math.Inf(1), math.Inf(-1)} {
		p := sim.DefaultParams()
		err := SetParam(&p, "num_nodes", v)
		if !errors.Is(err, sim.ErrInvalidParameter) {
			t.Errorf("SetParam(num_nodes, %v) = %v, want ErrInvalidParameter", v, err)
		}
		if p.NumNodes != sim.DefaultParams().NumNodes {
			t.Errorf("num_nodes changed to %d on error", p.NumNodes)
		}
	}
}
