package viz

import (
	"strconv"

	"github.com/san-kum/semodel/internal/agent"
	"github.com/san-kum/semodel/internal/network"
	"github.com/san-kum/semodel/internal/sim"
)

const nodeSize = 6

type PortrayalNode struct {
	ID      int    `json:"id"`
	Size    int    `json:"size"`
	Color   string `json:"color"`
	Tooltip string `json:"tooltip"`
}

type PortrayalEdge struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	Color  string `json:"color"`
	Width  int    `json:"width"`
}

// Portrayal is a render-ready description of the network.
type Portrayal struct {
	Nodes []PortrayalNode `json:"nodes"`
	Edges []PortrayalEdge `json:"edges"`
}

// NodeColor colors by band; boundary opinions render as neutral.
func NodeColor(opinion float64) string {
	switch agent.Classify(opinion) {
	case agent.Positive:
		return PositiveColor
	case agent.Negative:
		return NegativeColor
	default:
		return NeutralColor
	}
}

// EdgeColor highlights edges whose endpoints share a polarity.
func EdgeColor(a, b float64) string {
	ba, bb := agent.Classify(a), agent.Classify(b)
	switch {
	case ba == agent.Positive && bb == agent.Positive:
		return PositiveColor
	case ba == agent.Negative && bb == agent.Negative:
		return NegativeColor
	default:
		return NeutralColor
	}
}

// EdgeWidth thickens edges between two positive participants only.
func EdgeWidth(a, b float64) int {
	if agent.Classify(a) == agent.Positive && agent.Classify(b) == agent.Positive {
		return 3
	}
	return 2
}

func BuildPortrayal(g *network.Graph, opinions []sim.NodeOpinion) Portrayal {
	byID := make(map[int]float64, len(opinions))
	for _, o := range opinions {
		byID[o.ID] = o.Opinion
	}

	p := Portrayal{
		Nodes: make([]PortrayalNode, 0, len(opinions)),
		Edges: make([]PortrayalEdge, 0, g.NumEdges()),
	}
	for _, o := range opinions {
		p.Nodes = append(p.Nodes, PortrayalNode{
			ID:      o.ID,
			Size:    nodeSize,
			Color:   NodeColor(o.Opinion),
			Tooltip: "id: " + strconv.Itoa(o.ID) + "<br>opinion: " + strconv.FormatFloat(o.Opinion, 'g', -1, 64),
		})
	}
	for _, e := range g.Edges() {
		a, b := byID[e[0]], byID[e[1]]
		p.Edges = append(p.Edges, PortrayalEdge{
			Source: e[0],
			Target: e[1],
			Color:  EdgeColor(a, b),
			Width:  EdgeWidth(a, b),
		})
	}
	return p
}

// PortrayalOf describes the current state of s.
func PortrayalOf(s *sim.Simulation) Portrayal {
	return BuildPortrayal(s.Graph(), s.Opinions())
}
