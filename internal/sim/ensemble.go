package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent simulations with consecutive seeds in parallel.
// Each simulation is still stepped by a single goroutine.
type Ensemble struct {
	params    Params
	numRuns   int
	seedStart int64
	runOpts   func(run int) []Option
}

func NewEnsemble(p Params, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{params: p, numRuns: numRuns, seedStart: seedStart}
}

// WithRunOptions sets a factory called once per member. Members run
// concurrently, so the options it returns must not share a collector or
// observer between runs.
func (e *Ensemble) WithRunOptions(f func(run int) []Option) *Ensemble {
	e.runOpts = f
	return e
}

// Run steps every member for steps ticks. Results are indexed by run, so
// run i always used seed seedStart+i.
func (e *Ensemble) Run(ctx context.Context, steps int) ([]*Simulation, error) {
	results := make([]*Simulation, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			var opts []Option
			if e.runOpts != nil {
				opts = e.runOpts(idx)
			}
			s, err := NewSeeded(e.params, e.seedStart+int64(idx), opts...)
			if err != nil {
				errs[idx] = err
				return
			}
			for t := 0; t < steps; t++ {
				select {
				case <-ctx.Done():
					errs[idx] = ctx.Err()
					return
				default:
				}
				s.Step()
			}
			results[idx] = s
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// MeanHistory averages one metric across ensemble members tick by tick.
func MeanHistory(runs []*Simulation, name string) []float64 {
	if len(runs) == 0 {
		return nil
	}
	var out []float64
	for _, r := range runs {
		h := r.History(name)
		if out == nil {
			out = make([]float64, len(h))
		}
		for i := 0; i < len(out) && i < len(h); i++ {
			out[i] += h[i]
		}
	}
	for i := range out {
		out[i] /= float64(len(runs))
	}
	return out
}
