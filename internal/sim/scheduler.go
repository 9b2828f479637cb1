package sim

import "github.com/san-kum/semodel/internal/agent"

// Scheduler activates every agent once per tick in a fresh random order.
// Agents run one at a time against shared state, so later agents see the
// writes of earlier ones within the same tick.
type Scheduler struct {
	src    PermSource
	agents []agent.Steppable
	steps  int
}

func NewScheduler(src PermSource) *Scheduler {
	return &Scheduler{src: src, agents: make([]agent.Steppable, 0)}
}

func (s *Scheduler) Add(a agent.Steppable) { s.agents = append(s.agents, a) }
func (s *Scheduler) Len() int              { return len(s.agents) }
func (s *Scheduler) Steps() int            { return s.steps }

func (s *Scheduler) Step(env agent.Env) {
	for _, i := range s.src.Perm(len(s.agents)) {
		s.agents[i].Step(env)
	}
	s.steps++
}
