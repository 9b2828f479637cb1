// Package sim composes the network, the participants, the scheduler and the
// metrics collector into a steppable opinion-diffusion simulation.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/san-kum/semodel/internal/agent"
	"github.com/san-kum/semodel/internal/logging"
	"github.com/san-kum/semodel/internal/metrics"
	"github.com/san-kum/semodel/internal/network"
)

type Simulation struct {
	params       Params
	src          Source
	graph        *network.Graph
	participants []*agent.Participant
	neighbors    [][]*agent.Participant
	scheduler    *Scheduler
	collector    *metrics.Collector
	stakeholders map[Category]int
	observers    []Observer
	logger       *log.Logger
}

type Option func(*Simulation)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCollector replaces the default metric set.
func WithCollector(c *metrics.Collector) Option {
	return func(s *Simulation) {
		if c != nil {
			s.collector = c
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.observers = append(s.observers, o) }
}

// New builds the network, creates one participant per node, places the
// stakeholder representatives on distinct random nodes and collects the
// initial metric sample. All randomness comes from src.
func New(p Params, src Source, opts ...Option) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		params:       p.Clone(),
		src:          src,
		collector:    metrics.DefaultCollector(),
		stakeholders: make(map[Category]int, len(Categories)),
		logger:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	g, err := network.ErdosRenyi(p.NumNodes, p.AvgNodeDegree, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	s.graph = g
	s.logger.Debug("network generated", "nodes", g.Nodes(), "edges", g.NumEdges(), "avg_degree", g.AverageDegree())

	s.participants = make([]*agent.Participant, g.Nodes())
	for id := range s.participants {
		s.participants[id] = agent.New(id, p.Population, p.InitialOpinion)
	}

	nodes := src.Perm(g.Nodes())[:len(Categories)]
	for i, c := range Categories {
		profile, _ := StakeholderProfile(c)
		s.participants[nodes[i]].Apply(profile, p.Stakeholders[c])
		s.stakeholders[c] = nodes[i]
		s.logger.Debug("stakeholder placed", "category", c, "node", nodes[i], "opinion", p.Stakeholders[c])
	}

	s.neighbors = make([][]*agent.Participant, g.Nodes())
	for id := range s.neighbors {
		ns := g.Neighbors(id)
		s.neighbors[id] = make([]*agent.Participant, len(ns))
		for i, n := range ns {
			s.neighbors[id][i] = s.participants[n]
		}
	}

	s.scheduler = NewScheduler(src)
	for _, a := range s.participants {
		s.scheduler.Add(a)
	}

	s.collector.Collect(s.participants)
	s.logger.Info("finished initialising model", "nodes", g.Nodes(), "edges", g.NumEdges(), "scheduled", s.scheduler.Len())

	return s, nil
}

// NewSeeded is New with a math/rand source seeded by seed.
func NewSeeded(p Params, seed int64, opts ...Option) (*Simulation, error) {
	return New(p, rand.New(rand.NewSource(seed)), opts...)
}

// Neighbors implements agent.Env.
func (s *Simulation) Neighbors(id int) []*agent.Participant {
	if id < 0 || id >= len(s.neighbors) {
		return nil
	}
	return s.neighbors[id]
}

// Step advances one tick and collects metrics.
func (s *Simulation) Step() {
	s.scheduler.Step(s)
	s.collector.Collect(s.participants)

	s.logger.Debug("tick",
		"tick", s.Tick(),
		"positive", metrics.Count(s.participants, agent.Positive),
		"neutral", metrics.Count(s.participants, agent.Neutral),
		"negative", metrics.Count(s.participants, agent.Negative),
	)
	for _, o := range s.observers {
		o.OnTick(s)
	}
}

// Run performs n sequential steps.
func (s *Simulation) Run(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// PositiveNegativeRatio divides the positive count by the negative count,
// or returns 0 when nobody is negative.
func (s *Simulation) PositiveNegativeRatio() float64 {
	pos := metrics.Count(s.participants, agent.Positive)
	neg := metrics.Count(s.participants, agent.Negative)
	return metrics.Ratio(float64(pos), float64(neg))
}

// PublicOpinion is the mean opinion over all participants.
func (s *Simulation) PublicOpinion() float64 {
	return metrics.Mean(s.participants)
}

func (s *Simulation) Count(band agent.Band) int {
	return metrics.Count(s.participants, band)
}

func (s *Simulation) Tick() int                          { return s.scheduler.Steps() }
func (s *Simulation) Params() Params                     { return s.params.Clone() }
func (s *Simulation) NumParticipants() int               { return len(s.participants) }
func (s *Simulation) MetricNames() []string              { return s.collector.Names() }
func (s *Simulation) History(name string) []float64      { return s.collector.History(name) }
func (s *Simulation) Histories() map[string][]float64    { return s.collector.Histories() }
func (s *Simulation) Latest(name string) (float64, bool) { return s.collector.Latest(name) }

// Graph returns the network. It is immutable for the run and must not be modified.
func (s *Simulation) Graph() *network.Graph { return s.graph }

func (s *Simulation) Opinions() []NodeOpinion {
	out := make([]NodeOpinion, len(s.participants))
	for i, p := range s.participants {
		out[i] = NodeOpinion{ID: p.ID, Opinion: p.Opinion}
	}
	return out
}

// Participant returns a copy of the participant bound to node id.
func (s *Simulation) Participant(id int) (agent.Participant, bool) {
	if id < 0 || id >= len(s.participants) {
		return agent.Participant{}, false
	}
	return *s.participants[id], true
}

func (s *Simulation) Participants() []agent.Participant {
	out := make([]agent.Participant, len(s.participants))
	for i, p := range s.participants {
		out[i] = *p
	}
	return out
}

// Stakeholders maps each category to the node its representative occupies.
func (s *Simulation) Stakeholders() map[Category]int {
	out := make(map[Category]int, len(s.stakeholders))
	for c, id := range s.stakeholders {
		out[c] = id
	}
	return out
}
