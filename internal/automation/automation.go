// Package automation runs scripted sequences of simulations from YAML.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/semodel/internal/agent"
	"github.com/san-kum/semodel/internal/config"
	"github.com/san-kum/semodel/internal/logging"
	"github.com/san-kum/semodel/internal/sim"
	"github.com/san-kum/semodel/internal/sweep"
)

type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one simulation in a scenario. Params are applied on top of
// the preset using the sweep parameter names.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Steps  int                `yaml:"steps"`
	Seed   int64              `yaml:"seed"`
	Params map[string]float64 `yaml:"params"`
	SaveAs string             `yaml:"save_as"`
}

type StepResult struct {
	Name     string
	Preset   string
	Seed     int64
	Steps    int
	Config   *config.Config
	Positive int
	Negative int
	Ratio    float64
	Sim      *sim.Simulation
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Resolve builds the configuration for a step.
func (st ScenarioStep) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if st.Preset != "" {
		cfg = config.GetPreset(st.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", st.Preset)
		}
	}
	if st.Steps > 0 {
		cfg.Steps = st.Steps
	}
	cfg.Seed = st.Seed

	p := cfg.Params()
	for name, v := range st.Params {
		if err := sweep.SetParam(&p, name, v); err != nil {
			return nil, err
		}
	}
	out := &config.Config{
		Name:           cfg.Name,
		NumNodes:       p.NumNodes,
		AvgNodeDegree:  p.AvgNodeDegree,
		Population:     p.Population,
		InitialOpinion: p.InitialOpinion,
		Stakeholders:   config.FromMap(p.Stakeholders),
		Steps:          cfg.Steps,
		Seed:           cfg.Seed,
	}
	return out, out.Validate()
}

// RunScenario executes the steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, logger *log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s-%d", scenario.Name, i+1)
		}
		logger.Info("running scenario step", "step", i+1, "of", len(scenario.Steps), "name", name, "preset", step.Preset)

		s, err := sim.NewSeeded(cfg.Params(), cfg.Seed, sim.WithLogger(logger))
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		for t := 0; t < cfg.Steps; t++ {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			s.Step()
		}

		results = append(results, StepResult{
			Name:     name,
			Preset:   step.Preset,
			Seed:     cfg.Seed,
			Steps:    cfg.Steps,
			Config:   cfg,
			Positive: s.Count(agent.Positive),
			Negative: s.Count(agent.Negative),
			Ratio:    s.PositiveNegativeRatio(),
			Sim:      s,
		})
	}

	return results, nil
}
