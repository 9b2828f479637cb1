package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/semodel/internal/config"
	"github.com/san-kum/semodel/internal/sim"
	"github.com/san-kum/semodel/internal/sweep"
)

var (
	configFile       string
	preset           string
	numNodes         int
	avgDegree        float64
	steps            int
	seed             int64
	initialOpinion   float64
	engagement       float64
	trustability     float64
	influenceability float64
	recovery         float64
	experience       float64
	stakeholderFlags map[string]string
)

// addModelFlags registers the flags shared by every command that builds a model.
func addModelFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVar(&numNodes, "nodes", def.NumNodes, "number of participants")
	f.Float64Var(&avgDegree, "degree", def.AvgNodeDegree, "average node degree")
	f.IntVar(&steps, "steps", def.Steps, "number of ticks")
	f.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	f.Float64Var(&initialOpinion, "initial-opinion", def.InitialOpinion, "initial opinion of the population")
	f.Float64Var(&engagement, "engagement", def.Population.Engagement, "population engagement")
	f.Float64Var(&trustability, "trustability", def.Population.Trustability, "population trustability")
	f.Float64Var(&influenceability, "influenceability", def.Population.Influenceability, "population influenceability")
	f.Float64Var(&recovery, "recovery", def.Population.Recovery, "population recovery")
	f.Float64Var(&experience, "experience", def.Population.Experience, "population experience")
	f.StringToStringVar(&stakeholderFlags, "stakeholder", nil, "stakeholder opinions, e.g. media=1,civil=-1")
}

// resolveConfig layers defaults, preset, config file and explicit flags,
// in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("nodes") {
		cfg.NumNodes = numNodes
	}
	if f.Changed("degree") {
		cfg.AvgNodeDegree = avgDegree
	}
	if f.Changed("steps") {
		cfg.Steps = steps
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("initial-opinion") {
		cfg.InitialOpinion = initialOpinion
	}
	if f.Changed("engagement") {
		cfg.Population.Engagement = engagement
	}
	if f.Changed("trustability") {
		cfg.Population.Trustability = trustability
	}
	if f.Changed("influenceability") {
		cfg.Population.Influenceability = influenceability
	}
	if f.Changed("recovery") {
		cfg.Population.Recovery = recovery
	}
	if f.Changed("experience") {
		cfg.Population.Experience = experience
	}
	for name, raw := range stakeholderFlags {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("stakeholder %s: %w", name, err)
		}
		if !cfg.Stakeholders.Set(sim.Category(name), v) {
			return nil, fmt.Errorf("unknown stakeholder category: %s", name)
		}
	}

	if cfg.Seed == 0 {
		cfg.Seed = clockSeed()
	}

	return cfg, cfg.Validate()
}

// parseVariable reads "name=v1,v2,v3" or "name=min:max:step".
func parseVariable(s string) (sweep.Variable, error) {
	name, rhs, ok := strings.Cut(s, "=")
	if !ok || name == "" || rhs == "" {
		return sweep.Variable{}, fmt.Errorf("invalid variable %q, want name=values", s)
	}

	if parts := strings.Split(rhs, ":"); len(parts) == 3 {
		bounds := make([]float64, 3)
		for i, p := range parts {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return sweep.Variable{}, fmt.Errorf("variable %s: %w", name, err)
			}
			bounds[i] = v
		}
		lo, hi, step := bounds[0], bounds[1], bounds[2]
		if step <= 0 || hi < lo {
			return sweep.Variable{}, fmt.Errorf("variable %s: invalid range %s", name, rhs)
		}
		var values []float64
		n := int(math.Floor((hi-lo)/step+1e-9)) + 1
		for i := 0; i < n; i++ {
			values = append(values, lo+float64(i)*step)
		}
		return sweep.Variable{Name: name, Values: values}, nil
	}

	var values []float64
	for _, p := range strings.Split(rhs, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return sweep.Variable{}, fmt.Errorf("variable %s: %w", name, err)
		}
		values = append(values, v)
	}
	return sweep.Variable{Name: name, Values: values}, nil
}
