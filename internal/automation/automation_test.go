package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const scenarioYAML = `name: cities
description: compare city networks
steps:
  - preset: taipei
    steps: 5
    seed: 1
  - preset: tallinn
    steps: 3
    seed: 2
    params:
      num_nodes: 40
      media_opinion: 1
    save_as: tallinn-media
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}
	if sc.Name != "cities" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}
	if sc.Steps[1].Params["num_nodes"] != 40 {
		t.Errorf("params not decoded: %v", sc.Steps[1].Params)
	}
}

func TestLoadScenarioEmpty(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestResolve(t *testing.T) {
	cfg, err := ScenarioStep{Preset: "tallinn", Steps: 7, Seed: 9, Params: map[string]float64{"num_nodes": 40, "media_opinion": 1}}.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.NumNodes != 40 || cfg.Steps != 7 || cfg.Seed != 9 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Stakeholders.Media != 1 {
		t.Errorf("media opinion = %v, want 1", cfg.Stakeholders.Media)
	}

	if _, err := (ScenarioStep{Preset: "atlantis"}).Resolve(); err == nil {
		t.Error("expected unknown preset error")
	}
	if _, err := (ScenarioStep{Params: map[string]float64{"num_nodes": 3}}).Resolve(); err == nil {
		t.Error("expected validation error for too few nodes")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	results, err := RunScenario(context.Background(), sc, nil)
	if err != nil {
		t.Fatalf("RunScenario failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "cities-1" || results[1].Name != "tallinn-media" {
		t.Errorf("unexpected names: %s, %s", results[0].Name, results[1].Name)
	}
	if results[0].Sim.Tick() != 5 || results[1].Sim.Tick() != 3 {
		t.Error("steps not honored")
	}
	if results[1].Sim.NumParticipants() != 40 {
		t.Errorf("expected 40 participants, got %d", results[1].Sim.NumParticipants())
	}
}

func TestRunScenarioCancelled(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := RunScenario(ctx, sc, nil); err == nil {
		t.Error("expected context error")
	}
}
