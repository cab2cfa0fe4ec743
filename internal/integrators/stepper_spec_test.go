package integrators_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dopri/internal/dynamo"
	"github.com/san-kum/dopri/internal/integrators"
)

var _ = Describe("Stepper", func() {
	var decay dynamo.System

	BeforeEach(func() {
		decay = dynamo.Func(1, func(_ float64, y, dy dynamo.State) {
			dy[0] = -y[0]
		})
	})

	DescribeTable("reaches the analytic solution of y' = -y",
		func(m integrators.Method, rtol float64, tol float64) {
			s := m.New(decay, 0, 1, 0.2, dynamo.State{1}, rtol, rtol, m.DefaultParams(0, 1))
			stats, err := s.Integrate()
			Expect(err).NotTo(HaveOccurred())

			ys := s.YOut()
			Expect(s.XOut()).To(HaveLen(6))
			Expect(ys[len(ys)-1][0]).To(BeNumerically("~", math.Exp(-1), tol))
			Expect(stats.NumEval).To(BeNumerically(">", stats.AcceptedSteps))
		},
		Entry("dopri5 loose", integrators.Dopri5, 1e-6, 1e-5),
		Entry("dopri5 tight", integrators.Dopri5, 1e-12, 1e-10),
		Entry("dop853 loose", integrators.Dop853, 1e-6, 1e-5),
		Entry("dop853 tight", integrators.Dop853, 1e-12, 1e-10),
	)

	Context("counting function evaluations", func() {
		It("spends 6 evaluations per dopri5 attempt on top of the start-up cost", func() {
			p := integrators.Dopri5.DefaultParams(0, 1)
			p.OutType = dynamo.Sparse
			s := integrators.NewDopri5WithParams(decay, 0, 1, 0, dynamo.State{1}, 1e-6, 1e-6, p)
			stats, err := s.Integrate()
			Expect(err).NotTo(HaveOccurred())

			attempts := stats.AcceptedSteps + stats.RejectedSteps
			Expect(stats.NumEval).To(BeNumerically(">=", 3+6*attempts))
		})

		It("adds 3 dense evaluations per accepted dop853 step", func() {
			sparse := integrators.Dop853.DefaultParams(0, 1)
			sparse.OutType = dynamo.Sparse
			a := integrators.NewDop853WithParams(decay, 0, 1, 0, dynamo.State{1}, 1e-8, 1e-8, sparse)
			sa, err := a.Integrate()
			Expect(err).NotTo(HaveOccurred())

			b := integrators.NewDop853(decay, 0, 1, 0.1, dynamo.State{1}, 1e-8, 1e-8)
			sb, err := b.Integrate()
			Expect(err).NotTo(HaveOccurred())

			Expect(sb.AcceptedSteps).To(Equal(sa.AcceptedSteps))
			Expect(sb.NumEval - sa.NumEval).To(Equal(3 * sa.AcceptedSteps))
		})
	})

	Context("when the interval is empty", func() {
		It("returns the initial point only", func() {
			s := integrators.NewDop853(decay, 2, 2, 0.1, dynamo.State{4}, 1e-6, 1e-6)
			stats, err := s.Integrate()
			Expect(err).NotTo(HaveOccurred())
			Expect(stats).To(BeZero())
			Expect(s.XOut()).To(Equal([]float64{2}))
			Expect(s.YOut()).To(Equal([]dynamo.State{{4}}))
		})
	})

	Context("when the problem is stiff", func() {
		It("reports stiffness instead of grinding to n_max", func() {
			robertson := dynamo.Func(3, func(_ float64, y, dy dynamo.State) {
				dy[0] = -0.04*y[0] + 1e4*y[1]*y[2]
				dy[1] = 0.04*y[0] - 1e4*y[1]*y[2] - 3e7*y[1]*y[1]
				dy[2] = 3e7 * y[1] * y[1]
			})
			s := integrators.NewDop853(robertson, 0, 100, 1, dynamo.State{1, 0, 0}, 1e-2, 1e-6)
			stats, err := s.Integrate()
			Expect(err).To(MatchError(dynamo.ErrStiffnessDetected))
			Expect(stats.AcceptedSteps).To(BeNumerically("<", 100000))
		})
	})
})
