// Package metrics aggregates population-level values after every tick.
package metrics

import "github.com/san-kum/semodel/internal/agent"

const (
	Negative          = "Negative"
	Neutral           = "Neutral"
	Positive          = "Positive"
	TotalEngagement   = "Total Engagement"
	TotalTrustability = "Total Trustability"
	TotalRecovery     = "Total Recovery"
	TotalExperience   = "Total Experience"
	PublicOpinion     = "Public Opinion"
)

// Metric folds a population into a single number. Observe is called once per
// participant between a Reset and a Value.
type Metric interface {
	Name() string
	Observe(p *agent.Participant)
	Value() float64
	Reset()
}

type Collector struct {
	metrics []Metric
	history map[string][]float64
}

func NewCollector(ms ...Metric) *Collector {
	c := &Collector{
		metrics: make([]Metric, 0, len(ms)),
		history: make(map[string][]float64, len(ms)),
	}
	for _, m := range ms {
		c.Add(m)
	}
	return c
}

// DefaultCollector tracks band counts, personality totals and public opinion.
func DefaultCollector() *Collector {
	return NewCollector(
		NewBandCount(Negative, agent.Negative),
		NewBandCount(Neutral, agent.Neutral),
		NewBandCount(Positive, agent.Positive),
		NewTotal(TotalEngagement, func(p *agent.Participant) float64 { return p.Engagement }),
		NewTotal(TotalTrustability, func(p *agent.Participant) float64 { return p.Trustability }),
		NewTotal(TotalRecovery, func(p *agent.Participant) float64 { return p.Recovery }),
		NewTotal(TotalExperience, func(p *agent.Participant) float64 { return p.Experience }),
		NewMeanOpinion(),
	)
}

func (c *Collector) Add(m Metric) {
	c.metrics = append(c.metrics, m)
	c.history[m.Name()] = make([]float64, 0)
}

// Collect appends one sample per metric.
func (c *Collector) Collect(pop []*agent.Participant) {
	for _, m := range c.metrics {
		m.Reset()
		for _, p := range pop {
			m.Observe(p)
		}
		c.history[m.Name()] = append(c.history[m.Name()], m.Value())
	}
}

// Names returns the metric names in registration order.
func (c *Collector) Names() []string {
	names := make([]string, len(c.metrics))
	for i, m := range c.metrics {
		names[i] = m.Name()
	}
	return names
}

// History returns a copy of the samples for name, or nil if it is not tracked.
func (c *Collector) History(name string) []float64 {
	h, ok := c.history[name]
	if !ok {
		return nil
	}
	out := make([]float64, len(h))
	copy(out, h)
	return out
}

func (c *Collector) Histories() map[string][]float64 {
	out := make(map[string][]float64, len(c.history))
	for name := range c.history {
		out[name] = c.History(name)
	}
	return out
}

func (c *Collector) Latest(name string) (float64, bool) {
	h := c.history[name]
	if len(h) == 0 {
		return 0, false
	}
	return h[len(h)-1], true
}

// Ratio divides positive by negative, returning 0 when negative is zero.
func Ratio(positive, negative float64) float64 {
	if negative == 0 {
		return 0
	}
	return positive / negative
}
