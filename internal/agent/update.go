package agent

import "math"

// Env exposes the neighbor lookup a participant needs during its step.
type Env interface {
	Neighbors(id int) []*Participant
}

// Steppable is anything the scheduler can activate once per tick.
type Steppable interface {
	Step(env Env)
}

// Neighborhood is the partition of a participant's neighbors taken at
// classification time. Boundary neighbors appear in no list.
type Neighborhood struct {
	Neutral  []*Participant
	Positive []*Participant
	Negative []*Participant
}

// Step runs classify, influence, recover and rescale, in that order.
// Writes to neighbors are visible immediately to anyone stepping later.
func (p *Participant) Step(env Env) {
	nb := p.Classify(env)
	p.Influence(nb)
	p.Recover()
	p.Rescale()
}

func (p *Participant) Classify(env Env) Neighborhood {
	var nb Neighborhood
	for _, a := range env.Neighbors(p.ID) {
		switch Classify(a.Opinion) {
		case Neutral:
			nb.Neutral = append(nb.Neutral, a)
		case Positive:
			nb.Positive = append(nb.Positive, a)
		case Negative:
			nb.Negative = append(nb.Negative, a)
		}
	}
	return nb
}

// Influence pushes neighbors toward p's polarity. The positive trigger is
// re-read after the negative pass, so a negative actor pushed over +0.5 by a
// stronger positive neighbor also acts as a positive one in the same tick.
func (p *Participant) Influence(nb Neighborhood) {
	if p.Opinion <= NegativeThreshold {
		p.act(-1, nb.Neutral, nb.Negative, nb.Positive)
	}
	if p.Opinion >= PositiveThreshold {
		p.act(1, nb.Neutral, nb.Positive, nb.Negative)
	}
}

func (p *Participant) act(sign float64, neutral, same, opposite []*Participant) {
	for _, a := range neutral {
		a.Opinion = a.Opinion + sign*p.push()
		p.Engagement += 0.05 - (0.05 * a.Influenceability)
	}
	for _, a := range same {
		a.Opinion = a.Opinion + sign*p.push()
		p.Engagement += 0.01 - (0.01 * a.Influenceability)
	}
	for _, a := range opposite {
		// Both comparisons read the current opinions; equal magnitudes change nothing.
		if math.Abs(p.Opinion)-math.Abs(a.Opinion) > 0 {
			a.Opinion = a.Opinion + sign*p.push()
			p.Engagement += 0.1 - (0.1 * a.Influenceability)
		}
		if math.Abs(p.Opinion)-math.Abs(a.Opinion) < 0 {
			p.Opinion = p.Opinion - sign*(0.1*a.Trustability*p.Engagement)
			p.Trustability -= 0.1
		}
	}
}

func (p *Participant) push() float64 {
	return 0.1 * p.Trustability * p.Engagement
}

// Recover pulls the opinion back when it differs from the initial one and
// grows experience, less so for influenceable participants.
func (p *Participant) Recover() {
	if p.Opinion != p.InitialOpinion {
		p.Opinion = p.Opinion * p.Recovery * p.Experience
		p.Experience += 0.1 - (0.1 * p.Influenceability)
	}
}

// Rescale clamps the opinion into [-1, 1].
func (p *Participant) Rescale() {
	if p.Opinion < -1 {
		p.Opinion = -1
	}
	if p.Opinion > 1 {
		p.Opinion = 1
	}
}
