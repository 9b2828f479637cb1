package metrics

import "github.com/san-kum/semodel/internal/agent"

// BandCount counts participants whose opinion falls in one band.
type BandCount struct {
	name  string
	band  agent.Band
	count int
}

func NewBandCount(name string, band agent.Band) *BandCount {
	return &BandCount{name: name, band: band}
}

func (b *BandCount) Name() string { return b.name }

func (b *BandCount) Observe(p *agent.Participant) {
	if agent.Classify(p.Opinion) == b.band {
		b.count++
	}
}

func (b *BandCount) Value() float64 { return float64(b.count) }
func (b *BandCount) Reset()         { b.count = 0 }

// Total is a plain sum of one participant field.
type Total struct {
	name  string
	field func(*agent.Participant) float64
	sum   float64
}

func NewTotal(name string, field func(*agent.Participant) float64) *Total {
	return &Total{name: name, field: field}
}

func (t *Total) Name() string                 { return t.name }
func (t *Total) Observe(p *agent.Participant) { t.sum += t.field(p) }
func (t *Total) Value() float64               { return t.sum }
func (t *Total) Reset()                       { t.sum = 0 }

// MeanOpinion is the population's orientation: the opinion sum divided by
// the number of participants observed in the same pass.
type MeanOpinion struct {
	sum     float64
	samples int
}

func NewMeanOpinion() *MeanOpinion { return &MeanOpinion{} }

func (m *MeanOpinion) Name() string { return PublicOpinion }

func (m *MeanOpinion) Observe(p *agent.Participant) {
	m.sum += p.Opinion
	m.samples++
}

func (m *MeanOpinion) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanOpinion) Reset() {
	m.sum = 0
	m.samples = 0
}

// Count returns how many participants are currently in band.
func Count(pop []*agent.Participant, band agent.Band) int {
	n := 0
	for _, p := range pop {
		if agent.Classify(p.Opinion) == band {
			n++
		}
	}
	return n
}

// Mean returns the average opinion of pop, or 0 for an empty population.
func Mean(pop []*agent.Participant) float64 {
	m := NewMeanOpinion()
	for _, p := range pop {
		m.Observe(p)
	}
	return m.Value()
}
