// Package agent holds per-participant opinion state and the update rules a
// participant runs once per tick.
package agent

// Opinion thresholds. Classification is exclusive at ±0.5 while the influence
// trigger is inclusive, so a participant sitting exactly on a threshold can
// act as an influencer but is never counted in any band.
const (
	PositiveThreshold = 0.5
	NegativeThreshold = -0.5
)

type Band int

const (
	Boundary Band = iota
	Neutral
	Positive
	Negative
)

func (b Band) String() string {
	switch b {
	case Neutral:
		return "neutral"
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "boundary"
	}
}

// Classify places an opinion in a band. Exactly ±0.5 (and NaN) is Boundary.
func Classify(opinion float64) Band {
	switch {
	case opinion > PositiveThreshold:
		return Positive
	case opinion < NegativeThreshold:
		return Negative
	case opinion > NegativeThreshold && opinion < PositiveThreshold:
		return Neutral
	default:
		return Boundary
	}
}

// Profile is the personality of a participant.
type Profile struct {
	Engagement       float64 `json:"engagement" yaml:"engagement"`
	Trustability     float64 `json:"trustability" yaml:"trustability"`
	Influenceability float64 `json:"influenceability" yaml:"influenceability"`
	Recovery         float64 `json:"recovery" yaml:"recovery"`
	Experience       float64 `json:"experience" yaml:"experience"`
}

// Participant is the opinion state bound to one graph node.
// Personality fields are never clamped; only Opinion is rescaled.
type Participant struct {
	ID             int
	Opinion        float64
	InitialOpinion float64

	Engagement       float64
	Trustability     float64
	Influenceability float64
	Recovery         float64
	Experience       float64
}

func New(id int, profile Profile, initialOpinion float64) *Participant {
	p := &Participant{ID: id}
	p.Apply(profile, initialOpinion)
	return p
}

// Apply overwrites the personality and resets both opinions to initialOpinion.
func (p *Participant) Apply(profile Profile, initialOpinion float64) {
	p.Engagement = profile.Engagement
	p.Trustability = profile.Trustability
	p.Influenceability = profile.Influenceability
	p.Recovery = profile.Recovery
	p.Experience = profile.Experience
	p.InitialOpinion = initialOpinion
	p.Opinion = initialOpinion
}

func (p *Participant) Profile() Profile {
	return Profile{
		Engagement:       p.Engagement,
		Trustability:     p.Trustability,
		Influenceability: p.Influenceability,
		Recovery:         p.Recovery,
		Experience:       p.Experience,
	}
}

func (p *Participant) Band() Band { return Classify(p.Opinion) }

func (p *Participant) Clone() *Participant {
	c := *p
	return &c
}
