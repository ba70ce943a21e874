package sim_test

import (
	"context"
	"math"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dpend/internal/analysis"
	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/metrics"
	"github.com/san-kum/dpend/internal/physics"
	"github.com/san-kum/dpend/internal/sim"
)

var _ = Describe("Double pendulum trajectories", func() {
	var (
		acc dynamo.Accelerations
		cfg sim.Config
		ctx context.Context
	)

	BeforeEach(func() {
		var err error
		acc, err = physics.Derive()
		Expect(err).NotTo(HaveOccurred())
		cfg = sim.DefaultConfig()
		ctx = context.Background()
	})

	run := func(p dynamo.Params, x0 dynamo.State, c sim.Config) *dynamo.Trajectory {
		tr, err := sim.Run(ctx, acc, p, x0, c)
		Expect(err).NotTo(HaveOccurred())
		return tr
	}

	drift := func(tr *dynamo.Trajectory) float64 {
		sys := physics.NewDoublePendulum(acc, tr.Params)
		return metrics.Evaluate(tr, metrics.NewEnergyDrift(sys))["energy_drift"]
	}

	Describe("shape", func() {
		It("samples T=10, Δt=0.02 at exactly 501 grid times", func() {
			tr := run(dynamo.DefaultParams(), dynamo.State{math.Pi / 4, 0, math.Pi / 4, 0}, cfg)

			Expect(tr.Len()).To(Equal(501))
			for i, s := range tr.Samples {
				Expect(s.Time).To(Equal(float64(i) * 0.02))
			}
			Expect(tr.Final().Time).To(BeNumerically("~", 10.0, 1e-12))
		})
	})

	Describe("energy", func() {
		x0 := dynamo.State{math.Pi / 4, 0, math.Pi / 4, 0}

		It("stays within 1% at tight tolerance", func() {
			Expect(drift(run(dynamo.DefaultParams(), x0, cfg))).To(BeNumerically("<", 0.01))
		})

		It("drifts less as the tolerance tightens", func() {
			loose := cfg
			loose.Tolerance = dynamo.Tolerance{Rel: 1e-6, Abs: 1e-6}

			tight := drift(run(dynamo.DefaultParams(), x0, cfg))
			coarse := drift(run(dynamo.DefaultParams(), x0, loose))
			Expect(tight).To(BeNumerically("<", coarse))
		})

		DescribeTable("holds for every method",
			func(method string) {
				c := cfg
				c.Method = method
				c.Tolerance = dynamo.Tolerance{Rel: 1e-8, Abs: 1e-8}
				Expect(drift(run(dynamo.DefaultParams(), x0, c))).To(BeNumerically("<", 1e-3))
			},
			Entry("Dormand-Prince", "dopri5"),
			Entry("Bogacki-Shampine", "bs23"),
			Entry("RK4 step doubling", "rk4"),
		)
	})

	Describe("equilibrium", func() {
		It("stays exactly at rest when hanging straight down", func() {
			tr := run(dynamo.DefaultParams(), dynamo.State{}, cfg)
			for _, s := range tr.Samples {
				Expect(s.State).To(Equal(dynamo.State{}))
			}
		})
	})

	Describe("small angles", func() {
		It("swings like a simple pendulum when the outer bob is negligible", func() {
			p := dynamo.Params{M1: 1, M2: 1e-6, G: 9.81}
			tr := run(p, dynamo.State{0.05, 0, 0.05, 0}, cfg)

			period, err := analysis.Period(tr.Times(), tr.Column(dynamo.Theta1))
			Expect(err).NotTo(HaveOccurred())
			Expect(period).To(BeNumerically("~", physics.SmallAnglePeriod(p.G), 0.02*2.006))
			Expect(physics.SmallAnglePeriod(p.G)).To(BeNumerically("~", 2.006, 1e-3))
		})
	})

	Describe("determinism", func() {
		It("reproduces a run bit for bit", func() {
			x0 := dynamo.State{3 * math.Pi / 4, 0, 3 * math.Pi / 4, 0}
			a := run(dynamo.DefaultParams(), x0, cfg)
			b := run(dynamo.DefaultParams(), x0, cfg)
			Expect(cmp.Diff(a, b)).To(BeEmpty())
		})

		It("matches between a sweep and serial runs", func() {
			jobs := []sim.Job{
				{Name: "gentle", Params: dynamo.DefaultParams(), Initial: dynamo.State{0.3, 0, 0.3, 0}},
				{Name: "wild", Params: dynamo.DefaultParams(), Initial: dynamo.State{2.5, 0, 2.5, 0}},
			}
			results, err := sim.Sweep(ctx, acc, jobs, cfg, 2)
			Expect(err).NotTo(HaveOccurred())
			for i, job := range jobs {
				Expect(cmp.Diff(run(job.Params, job.Initial, cfg), results[i])).To(BeEmpty())
			}
		})
	})

	Describe("chaos", func() {
		It("separates runs whose θ2 differs by 1e-8", func() {
			x0 := dynamo.State{3 * math.Pi / 4, 0, 3 * math.Pi / 4, 0}
			perturbed := x0
			perturbed[dynamo.Theta2] += 1e-8

			base := run(dynamo.DefaultParams(), x0, cfg)
			other := run(dynamo.DefaultParams(), perturbed, cfg)

			d, err := analysis.Divergence(base, other)
			Expect(err).NotTo(HaveOccurred())
			Expect(d[0]).To(BeNumerically("~", 1e-8, 1e-15))
			Expect(maxOf(d)).To(BeNumerically(">", 1e-4))

			lambda, err := analysis.FiniteTimeLyapunov(base, other)
			Expect(err).NotTo(HaveOccurred())
			Expect(lambda).To(BeNumerically(">", 0))
		})

		It("keeps nearby gentle runs close", func() {
			x0 := dynamo.State{0.1, 0, 0.1, 0}
			perturbed := x0
			perturbed[dynamo.Theta2] += 1e-8

			d, err := analysis.Divergence(run(dynamo.DefaultParams(), x0, cfg), run(dynamo.DefaultParams(), perturbed, cfg))
			Expect(err).NotTo(HaveOccurred())
			Expect(maxOf(d)).To(BeNumerically("<", 1e-6))
		})
	})
})

func maxOf(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		m = math.Max(m, x)
	}
	return m
}
