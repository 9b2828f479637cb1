package sim

import (
	"math"

	"github.com/san-kum/semodel/internal/agent"
	"github.com/san-kum/semodel/internal/network"
)

// PermSource draws the activation order of a tick.
type PermSource interface {
	Perm(n int) []int
}

// Source supplies all randomness of a simulation. *rand.Rand satisfies it.
type Source interface {
	network.Float64Source
	PermSource
}

// Params are the construction parameters of a simulation.
type Params struct {
	NumNodes       int
	AvgNodeDegree  float64
	Population     agent.Profile
	InitialOpinion float64
	// Stakeholders holds the initial opinion of each category. A missing
	// category starts at 0.
	Stakeholders map[Category]float64
}

func DefaultParams() Params {
	return Params{
		NumNodes:      100,
		AvgNodeDegree: 3,
		Population: agent.Profile{
			Engagement:       0.49,
			Trustability:     0.21,
			Influenceability: 0.53,
			Recovery:         0.63,
			Experience:       1,
		},
		InitialOpinion: 0,
		Stakeholders: map[Category]float64{
			PublicSector: 1,
			Corporate:    1,
			Startup:      1,
			Academic:     -1,
			Civil:        -1,
			Media:        -1,
		},
	}
}

// Validate rejects malformed input. Personality values are not range-checked.
func (p Params) Validate() error {
	if p.NumNodes < 1 {
		return &ParameterError{Field: "num_nodes", Value: p.NumNodes, Reason: "must be positive", Wrapped: ErrInvalidParameter}
	}
	if p.AvgNodeDegree < 0 || !finite(p.AvgNodeDegree) {
		return &ParameterError{Field: "avg_node_degree", Value: p.AvgNodeDegree, Reason: "must be a non-negative number", Wrapped: ErrInvalidParameter}
	}

	fields := []struct {
		name  string
		value float64
	}{
		{"engagement", p.Population.Engagement},
		{"trustability", p.Population.Trustability},
		{"influenceability", p.Population.Influenceability},
		{"recovery", p.Population.Recovery},
		{"experience", p.Population.Experience},
		{"initial_opinion", p.InitialOpinion},
	}
	for _, c := range Categories {
		fields = append(fields, struct {
			name  string
			value float64
		}{string(c) + "_opinion", p.Stakeholders[c]})
	}
	for _, f := range fields {
		if !finite(f.value) {
			return &ParameterError{Field: f.name, Value: f.value, Reason: "must be finite", Wrapped: ErrInvalidParameter}
		}
	}

	if p.NumNodes < len(Categories) {
		return &ParameterError{Field: "num_nodes", Value: p.NumNodes, Reason: "need one distinct node per stakeholder category", Wrapped: ErrInsufficientNodes}
	}
	return nil
}

// Clone returns a copy with its own stakeholder map.
func (p Params) Clone() Params {
	c := p
	c.Stakeholders = make(map[Category]float64, len(p.Stakeholders))
	for k, v := range p.Stakeholders {
		c.Stakeholders[k] = v
	}
	return c
}

// NodeOpinion is the read-only view handed to rendering consumers.
type NodeOpinion struct {
	ID      int     `json:"id"`
	Opinion float64 `json:"opinion"`
}

// Observer is notified after every completed tick.
type Observer interface {
	OnTick(s *Simulation)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
