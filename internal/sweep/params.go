package sweep

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/semodel/internal/sim"
)

const opinionSuffix = "_opinion"

// ParamNames lists every parameter a sweep can vary.
func ParamNames() []string {
	names := []string{
		"num_nodes", "avg_node_degree", "engagement", "trustability",
		"influenceability", "recovery", "experience", "initial_opinion",
	}
	for _, c := range sim.Categories {
		names = append(names, string(c)+opinionSuffix)
	}
	sort.Strings(names)
	return names
}

// SetParam assigns one named value on p.
func SetParam(p *sim.Params, name string, value float64) error {
	switch name {
	case "num_nodes":
		if math.IsNaN(value) || math.IsInf(value, 0) || value != math.Trunc(value) {
			return fmt.Errorf("%w: num_nodes must be a whole number, got %v", sim.ErrInvalidParameter, value)
		}
		p.NumNodes = int(value)
	case "avg_node_degree":
		p.AvgNodeDegree = value
	case "engagement":
		p.Population.Engagement = value
	case "trustability":
		p.Population.Trustability = value
	case "influenceability":
		p.Population.Influenceability = value
	case "recovery":
		p.Population.Recovery = value
	case "experience":
		p.Population.Experience = value
	case "initial_opinion":
		p.InitialOpinion = value
	default:
		c := sim.Category(strings.TrimSuffix(name, opinionSuffix))
		if _, ok := sim.StakeholderProfile(c); !ok || !strings.HasSuffix(name, opinionSuffix) {
			return fmt.Errorf("%w: unknown sweep parameter %q", sim.ErrInvalidParameter, name)
		}
		if p.Stakeholders == nil {
			p.Stakeholders = make(map[sim.Category]float64)
		}
		p.Stakeholders[c] = value
	}
	return nil
}
