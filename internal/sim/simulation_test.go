package sim_test

import (
	"context"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/semodel/internal/agent"
	"github.com/san-kum/semodel/internal/metrics"
	"github.com/san-kum/semodel/internal/sim"
)

type tickCounter struct{ ticks []int }

func (c *tickCounter) OnTick(s *sim.Simulation) { c.ticks = append(c.ticks, s.Tick()) }

var _ = Describe("Simulation", func() {
	var params sim.Params

	BeforeEach(func() {
		params = sim.DefaultParams()
	})

	Describe("construction", func() {
		It("rejects a non-positive node count", func() {
			params.NumNodes = 0
			_, err := sim.NewSeeded(params, 1)
			Expect(err).To(MatchError(sim.ErrInvalidParameter))
		})

		It("rejects a negative degree", func() {
			params.AvgNodeDegree = -0.5
			_, err := sim.NewSeeded(params, 1)
			Expect(err).To(MatchError(sim.ErrInvalidParameter))
		})

		It("needs a distinct node per stakeholder", func() {
			params.NumNodes = 5
			s, err := sim.NewSeeded(params, 1)
			Expect(err).To(MatchError(sim.ErrInsufficientNodes))
			Expect(s).To(BeNil())
		})

		It("places every stakeholder on its own node with its profile", func() {
			s, err := sim.NewSeeded(params, 11)
			Expect(err).NotTo(HaveOccurred())

			placed := s.Stakeholders()
			Expect(placed).To(HaveLen(len(sim.Categories)))

			seen := map[int]bool{}
			for _, c := range sim.Categories {
				id := placed[c]
				Expect(seen).NotTo(HaveKey(id))
				seen[id] = true

				p, ok := s.Participant(id)
				Expect(ok).To(BeTrue())
				profile, _ := sim.StakeholderProfile(c)
				Expect(p.Profile()).To(Equal(profile))
				Expect(p.Opinion).To(Equal(params.Stakeholders[c]))
				Expect(p.InitialOpinion).To(Equal(params.Stakeholders[c]))
			}
		})

		It("gives everyone else the population defaults", func() {
			s, err := sim.NewSeeded(params, 11)
			Expect(err).NotTo(HaveOccurred())

			stakeholderNodes := map[int]bool{}
			for _, id := range s.Stakeholders() {
				stakeholderNodes[id] = true
			}
			for _, p := range s.Participants() {
				if stakeholderNodes[p.ID] {
					continue
				}
				Expect(p.Profile()).To(Equal(params.Population))
				Expect(p.Opinion).To(Equal(params.InitialOpinion))
			}
		})

		It("collects an initial sample", func() {
			s, err := sim.NewSeeded(params, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.History(metrics.Positive)).To(Equal([]float64{3}))
			Expect(s.History(metrics.Negative)).To(Equal([]float64{3}))
			Expect(s.Tick()).To(Equal(0))
		})
	})

	Describe("stepping", func() {
		It("keeps every opinion within [-1, 1]", func() {
			params.NumNodes = 200
			params.AvgNodeDegree = 4
			params.Population.Engagement = 3
			params.Population.Recovery = 1.5
			s, err := sim.NewSeeded(params, 21)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 60; i++ {
				s.Step()
				for _, o := range s.Opinions() {
					Expect(o.Opinion).To(BeNumerically(">=", -1))
					Expect(o.Opinion).To(BeNumerically("<=", 1))
				}
			}
		})

		It("appends one sample per metric per tick", func() {
			s, err := sim.NewSeeded(params, 8)
			Expect(err).NotTo(HaveOccurred())
			s.Run(25)

			Expect(s.Tick()).To(Equal(25))
			for _, name := range s.MetricNames() {
				Expect(s.History(name)).To(HaveLen(26), name)
			}
		})

		It("accounts for every participant in the band counts", func() {
			s, err := sim.NewSeeded(params, 5)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 30; i++ {
				s.Step()
				neg, _ := s.Latest(metrics.Negative)
				neu, _ := s.Latest(metrics.Neutral)
				pos, _ := s.Latest(metrics.Positive)
				boundary := float64(s.Count(agent.Boundary))
				Expect(neg + neu + pos + boundary).To(Equal(float64(s.NumParticipants())))
			}
		})

		It("notifies observers after each tick", func() {
			c := &tickCounter{}
			s, err := sim.NewSeeded(params, 2, sim.WithObserver(c))
			Expect(err).NotTo(HaveOccurred())
			s.Run(3)
			Expect(c.ticks).To(Equal([]int{1, 2, 3}))
		})
	})

	Describe("determinism", func() {
		It("reproduces trajectories for the same seed", func() {
			a, err := sim.New(params, rand.New(rand.NewSource(99)))
			Expect(err).NotTo(HaveOccurred())
			b, err := sim.New(params, rand.New(rand.NewSource(99)))
			Expect(err).NotTo(HaveOccurred())

			Expect(a.Graph().Edges()).To(Equal(b.Graph().Edges()))
			for i := 0; i < 40; i++ {
				a.Step()
				b.Step()
				Expect(a.Opinions()).To(Equal(b.Opinions()))
			}
			Expect(a.Histories()).To(Equal(b.Histories()))
		})
	})

	Describe("positive/negative ratio", func() {
		It("returns 0 when nobody is negative", func() {
			for _, c := range sim.Categories {
				params.Stakeholders[c] = 1
			}
			s, err := sim.NewSeeded(params, 4)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.PositiveNegativeRatio()).To(Equal(0.0))
			s.Run(10)
			Expect(s.Count(agent.Negative)).To(Equal(0))
			Expect(s.PositiveNegativeRatio()).To(Equal(0.0))
		})

		It("returns 0 with no positives and no negatives", func() {
			for _, c := range sim.Categories {
				params.Stakeholders[c] = 0
			}
			s, err := sim.NewSeeded(params, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.PositiveNegativeRatio()).To(Equal(0.0))
		})

		It("divides positives by negatives", func() {
			s, err := sim.NewSeeded(params, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.PositiveNegativeRatio()).To(Equal(1.0))
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("matches individually seeded runs", func() {
		params := sim.DefaultParams()
		runs, err := sim.NewEnsemble(params, 4, 100).Run(context.Background(), 15)
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(4))

		for i, r := range runs {
			single, err := sim.NewSeeded(params, 100+int64(i))
			Expect(err).NotTo(HaveOccurred())
			single.Run(15)
			Expect(r.Opinions()).To(Equal(single.Opinions()))
		}

		mean := sim.MeanHistory(runs, metrics.Positive)
		Expect(mean).To(HaveLen(16))
	})

	It("gives every member its own collector and observer", func() {
		const steps = 10
		collectors := make([]*metrics.Collector, 4)
		counters := make([]*tickCounter, 4)
		runs, err := sim.NewEnsemble(sim.DefaultParams(), 4, 1).
			WithRunOptions(func(run int) []sim.Option {
				collectors[run] = metrics.DefaultCollector()
				counters[run] = &tickCounter{}
				return []sim.Option{sim.WithCollector(collectors[run]), sim.WithObserver(counters[run])}
			}).
			Run(context.Background(), steps)
		Expect(err).NotTo(HaveOccurred())

		for i, r := range runs {
			Expect(r.History(metrics.Positive)).To(HaveLen(steps + 1))
			Expect(collectors[i].History(metrics.Positive)).To(Equal(r.History(metrics.Positive)))
			Expect(counters[i].ticks).To(HaveLen(steps))
		}
	})

	It("propagates construction errors", func() {
		params := sim.DefaultParams()
		params.NumNodes = 2
		_, err := sim.NewEnsemble(params, 3, 1).Run(context.Background(), 5)
		Expect(err).To(MatchError(sim.ErrInsufficientNodes))
	})

	It("stops on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := sim.NewEnsemble(sim.DefaultParams(), 2, 1).Run(ctx, 5)
		Expect(err).To(MatchError(context.Canceled))
	})
})
