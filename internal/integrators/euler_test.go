package integrators_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/eulersim/internal/dynamo"
	"github.com/san-kum/eulersim/internal/integrators"
)

func decay(t, y float64) float64 { return -2 * y }

var _ = Describe("Euler", func() {
	var (
		solver *dynamo.Solver
		ctx    context.Context
		p      dynamo.Problem
	)

	BeforeEach(func() {
		solver = dynamo.New(integrators.NewEuler())
		ctx = context.Background()
		p = dynamo.Problem{T0: 0, Y0: 1, H: 0.01, Steps: 1000, RHS: decay}
	})

	It("returns steps+1 points", func() {
		for _, steps := range []int{0, 1, 7, 1000} {
			p.Steps = steps
			tr, err := solver.Integrate(ctx, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Points).To(HaveLen(steps + 1))
		}
	})

	It("starts exactly at the initial condition", func() {
		p.T0, p.Y0 = 3.25, -0.7
		tr, err := solver.Integrate(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Points[0]).To(Equal(dynamo.Point{T: 3.25, Y: -0.7}))
	})

	It("follows the forward Euler recurrence for dy/dt = -2y", func() {
		tr, err := solver.Integrate(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Points[1].Y).To(Equal(0.98))
		for i := 1; i < tr.Len(); i++ {
			prev := tr.Points[i-1].Y
			Expect(tr.Points[i].Y).To(Equal(prev + p.H*(-2*prev)))
		}
	})

	It("samples time on the uniform grid", func() {
		p.T0 = 0.5
		tr, err := solver.Integrate(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		for i, pt := range tr.Points {
			Expect(pt.T).To(Equal(p.T0 + float64(i)*p.H))
		}
	})

	It("yields only the initial condition for zero steps", func() {
		p.Steps = 0
		tr, err := solver.Integrate(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Points).To(Equal([]dynamo.Point{{T: 0, Y: 1}}))
		Expect(tr.Stats.Evaluations).To(BeZero())
	})

	DescribeTable("rejects a non-positive step size",
		func(h float64) {
			p.H = h
			tr, err := solver.Integrate(ctx, p)
			Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
			Expect(tr).To(BeNil())
		},
		Entry("zero", 0.0),
		Entry("negative", -0.01),
	)

	It("rejects a negative step count", func() {
		p.Steps = -1
		_, err := solver.Integrate(ctx, p)
		Expect(errors.Is(err, dynamo.ErrInvalidParameter)).To(BeTrue())
	})

	It("stops at the first non-finite derivative", func() {
		calls := 0
		p.Steps = 10
		p.RHS = func(t, y float64) float64 {
			calls++
			if calls == 6 {
				return math.Inf(1)
			}
			return -2 * y
		}

		tr, err := solver.Integrate(ctx, p)
		Expect(tr).To(BeNil())

		var numErr *dynamo.NumericalError
		Expect(errors.As(err, &numErr)).To(BeTrue())
		Expect(numErr.Step).To(Equal(5))
		Expect(numErr.Time).To(Equal(5 * p.H))
		Expect(math.IsInf(numErr.Derivative, 1)).To(BeTrue())
		Expect(calls).To(Equal(6))
		Expect(dynamo.Kind(err)).To(Equal(dynamo.KindNumerical))
	})

	It("reports a NaN derivative", func() {
		p.RHS = func(t, y float64) float64 { return math.NaN() }
		_, err := solver.Integrate(ctx, p)
		Expect(err).To(MatchError(dynamo.ErrNumerical))
	})

	It("reports overflow of the value itself", func() {
		p.Y0 = math.MaxFloat64
		p.H = 1
		p.RHS = func(t, y float64) float64 { return y }
		_, err := solver.Integrate(ctx, p)

		var numErr *dynamo.NumericalError
		Expect(errors.As(err, &numErr)).To(BeTrue())
		Expect(numErr.Step).To(BeZero())
		Expect(numErr.Reason).To(Equal("non-finite value"))
	})

	It("is bit-for-bit reproducible", func() {
		a, err := solver.Integrate(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		b, err := solver.Integrate(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Points).To(Equal(b.Points))
	})

	It("streams the same points it integrates", func() {
		tr, err := solver.Integrate(ctx, p)
		Expect(err).NotTo(HaveOccurred())

		var streamed []dynamo.Point
		for pt, err := range solver.Stream(ctx, p) {
			Expect(err).NotTo(HaveOccurred())
			streamed = append(streamed, pt)
		}
		Expect(streamed).To(Equal(tr.Points))
	})

	It("streams the numerical error and stops", func() {
		p.Steps = 10
		p.RHS = func(t, y float64) float64 {
			if t >= 0.03 {
				return math.Inf(-1)
			}
			return -2 * y
		}

		var got []dynamo.Point
		var last error
		for pt, err := range solver.Stream(ctx, p) {
			if err != nil {
				last = err
				break
			}
			got = append(got, pt)
		}
		Expect(got).To(HaveLen(4))
		Expect(last).To(MatchError(dynamo.ErrNumerical))
	})

	It("returns a partial trajectory when canceled", func() {
		cctx, cancel := context.WithCancel(ctx)
		calls := 0
		p.RHS = func(t, y float64) float64 {
			calls++
			if calls == 10 {
				cancel()
			}
			return -2 * y
		}

		tr, err := solver.Integrate(cctx, p)
		Expect(err).To(MatchError(context.Canceled))
		Expect(tr.Incomplete).To(BeTrue())
		Expect(tr.Points).To(HaveLen(11))
	})
})

var _ = Describe("Lookup", func() {
	It("resolves every registered method", func() {
		for _, name := range integrators.Names() {
			s, err := integrators.Lookup(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Name()).To(Equal(name))
		}
	})

	It("rejects unknown methods as invalid parameters", func() {
		_, err := integrators.Lookup("leapfrog")
		Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
	})
})

var _ = Describe("Convergence order", func() {
	globalError := func(s dynamo.Stepper, h float64) float64 {
		steps := int(math.Round(1.0 / h))
		tr, err := dynamo.New(s).Integrate(context.Background(), dynamo.Problem{Y0: 1, H: h, Steps: steps, RHS: decay})
		Expect(err).NotTo(HaveOccurred())
		return math.Abs(tr.Final().Y - math.Exp(-2))
	}

	DescribeTable("halving h divides the error by 2^order",
		func(s dynamo.Stepper, h, lo, hi float64) {
			ratio := globalError(s, h) / globalError(s, h/2)
			Expect(ratio).To(BeNumerically(">", lo))
			Expect(ratio).To(BeNumerically("<", hi))
		},
		Entry("euler", integrators.NewEuler(), 0.01, 1.8, 2.2),
		Entry("heun", integrators.NewHeun(), 0.01, 3.6, 4.4),
		Entry("rk4", integrators.NewRK4(), 0.1, 14.0, 18.0),
	)

	It("counts right-hand-side evaluations per stage", func() {
		for name, per := range map[string]int{"euler": 1, "heun": 2, "rk4": 4} {
			s, err := integrators.Lookup(name)
			Expect(err).NotTo(HaveOccurred())
			tr, err := dynamo.New(s).Integrate(context.Background(), dynamo.Problem{Y0: 1, H: 0.1, Steps: 10, RHS: decay})
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Stats.Evaluations).To(Equal(10 * per))
		}
	})
})
