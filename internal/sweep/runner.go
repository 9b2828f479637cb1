// Package sweep runs a simulation for every combination of a parameter grid.
package sweep

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/san-kum/semodel/internal/logging"
	"github.com/san-kum/semodel/internal/sim"
)

// Variable is one swept parameter and the values it takes.
type Variable struct {
	Name   string
	Values []float64
}

type Result struct {
	Index     int
	Iteration int
	Seed      int64
	Params    map[string]float64
	Final     map[string]float64
	Ratio     float64
	Err       error
}

type Runner struct {
	base       sim.Params
	variables  []Variable
	iterations int
	maxSteps   int
	seedStart  int64
	workers    int
	logger     *log.Logger
}

type Option func(*Runner)

func WithIterations(n int) Option { return func(r *Runner) { r.iterations = n } }
func WithMaxSteps(n int) Option   { return func(r *Runner) { r.maxSteps = n } }
func WithSeedStart(s int64) Option {
	return func(r *Runner) { r.seedStart = s }
}
func WithWorkers(n int) Option { return func(r *Runner) { r.workers = n } }
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewRunner(base sim.Params, variables []Variable, opts ...Option) *Runner {
	r := &Runner{
		base:       base,
		variables:  variables,
		iterations: 1,
		maxSteps:   100,
		workers:    4,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Combinations expands the grid in declaration order, last variable fastest.
func (r *Runner) Combinations() []map[string]float64 {
	out := make([]map[string]float64, 0)
	r.expand(0, map[string]float64{}, &out)
	return out
}

func (r *Runner) expand(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(r.variables) {
		c := make(map[string]float64, len(current))
		for k, v := range current {
			c[k] = v
		}
		*out = append(*out, c)
		return
	}

	v := r.variables[depth]
	for _, val := range v.Values {
		next := make(map[string]float64, len(current)+1)
		for k, cv := range current {
			next[k] = cv
		}
		next[v.Name] = val
		r.expand(depth+1, next, out)
	}
}

// Run executes iterations runs per combination. Run i uses seed seedStart+i,
// so results are reproducible regardless of the worker count.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	for _, v := range r.variables {
		if err := SetParam(&sim.Params{}, v.Name, 0); err != nil {
			return nil, err
		}
	}
	if r.iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be positive, got %d", sim.ErrInvalidParameter, r.iterations)
	}

	combos := r.Combinations()
	total := len(combos) * r.iterations
	results := make([]Result, total)

	r.logger.Info("sweep started", "combinations", len(combos), "iterations", r.iterations, "runs", total)

	parallelFor(total, r.workers, func(start, end int) {
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				results[i] = Result{Index: i, Err: ctx.Err()}
				continue
			}
			results[i] = r.runOne(i, combos[i/r.iterations], i%r.iterations)
		}
	})

	if err := ctx.Err(); err != nil {
		return results, err
	}

	r.logger.Info("sweep finished", "runs", total)
	return results, nil
}

func (r *Runner) runOne(idx int, combo map[string]float64, iteration int) Result {
	res := Result{
		Index:     idx,
		Iteration: iteration,
		Seed:      r.seedStart + int64(idx),
		Params:    combo,
	}

	p := r.base.Clone()
	for name, val := range combo {
		if err := SetParam(&p, name, val); err != nil {
			res.Err = err
			return res
		}
	}

	s, err := sim.NewSeeded(p, res.Seed)
	if err != nil {
		res.Err = err
		r.logger.Warn("sweep run rejected", "index", idx, "error", err)
		return res
	}
	s.Run(r.maxSteps)

	res.Final = make(map[string]float64)
	for _, name := range s.MetricNames() {
		res.Final[name], _ = s.Latest(name)
	}
	res.Ratio = s.PositiveNegativeRatio()
	r.logger.Debug("sweep run done", "index", idx, "seed", res.Seed, "ratio", res.Ratio)
	return res
}

// parallelFor splits [0, n) into one contiguous chunk per worker.
func parallelFor(n, workers int, fn func(start, end int)) {
	if workers <= 1 || n <= 1 {
		fn(0, n)
		return
	}
	if workers > n {
		workers = n
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
