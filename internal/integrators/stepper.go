package integrators

import (
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/dopri/internal/control"
	"github.com/san-kum/dopri/internal/dynamo"
	"github.com/san-kum/dopri/internal/tableau"
)

// uround is the unit roundoff of float64.
const uround = 2.220446049250313e-16

// Stepper integrates one initial value problem with an explicit
// Dormand-Prince method. It is not safe for concurrent use.
type Stepper struct {
	sys  dynamo.System
	tab  *tableau.Tableau
	ctrl *control.StepSize

	x0, x, xOld, xEnd float64
	dx                float64
	h, hOld           float64
	y                 dynamo.State
	rtol, atol        float64
	nMax, nStiff      int
	outType           dynamo.OutputType

	k      []dynamo.State
	yNext  dynamo.State
	yStage dynamo.State
	yStiff dynamo.State
	bsum   dynamo.State
	diff   dynamo.State
	rcont  []dynamo.State
	nDense int

	stiff  stiffnessDetector
	solout dynamo.SoloutFunc
	log    *logrus.Logger

	xOut  []float64
	yOut  []dynamo.State
	stats dynamo.Stats
	done  bool
}

func newStepper(tab *tableau.Tableau, ctrl *control.StepSize, sys dynamo.System, x, xEnd, dx float64, y dynamo.State, rtol, atol float64, p Params) *Stepper {
	n := len(y)
	s := &Stepper{
		sys:     sys,
		tab:     tab,
		ctrl:    ctrl,
		x0:      x,
		x:       x,
		xOld:    x,
		xEnd:    xEnd,
		dx:      dx,
		h:       p.H,
		y:       y.Clone(),
		rtol:    rtol,
		atol:    atol,
		nMax:    p.NMax,
		nStiff:  p.NStiff,
		outType: p.OutType,
		yNext:   dynamo.NewState(n),
		yStage:  dynamo.NewState(n),
		yStiff:  dynamo.NewState(n),
		bsum:    dynamo.NewState(n),
		diff:    dynamo.NewState(n),
		stiff:   stiffnessDetector{threshold: tab.StiffThreshold},
		solout:  dynamo.NeverStop,
		log:     discardLogger(),
	}

	s.k = make([]dynamo.State, tab.TotalStages())
	for i := range s.k {
		s.k[i] = dynamo.NewState(n)
	}
	s.rcont = make([]dynamo.State, tab.DenseRows())
	for i := range s.rcont {
		s.rcont[i] = dynamo.NewState(n)
	}
	return s
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SetSolout installs a callback run after every accepted step. Returning
// true stops the integration successfully.
func (s *Stepper) SetSolout(fn dynamo.SoloutFunc) {
	if fn == nil {
		fn = dynamo.NeverStop
	}
	s.solout = fn
}

// SetLogger routes step diagnostics to l. Rejections and stiffness streaks
// log at debug level, accepted steps at trace level.
func (s *Stepper) SetLogger(l *logrus.Logger) {
	if l == nil {
		l = discardLogger()
	}
	s.log = l
}

// Method returns the tableau name.
func (s *Stepper) Method() string { return s.tab.Name }

// XOut returns the recorded abscissae.
func (s *Stepper) XOut() []float64 { return s.xOut }

// YOut returns the recorded states, aligned with XOut.
func (s *Stepper) YOut() []dynamo.State { return s.yOut }

// Stats returns the counters accumulated so far.
func (s *Stepper) Stats() dynamo.Stats { return s.stats }

// X returns the current abscissa.
func (s *Stepper) X() float64 { return s.x }

// Y returns a copy of the current state.
func (s *Stepper) Y() dynamo.State { return s.y.Clone() }

func (s *Stepper) validate() error {
	if s.sys == nil {
		return fmt.Errorf("%w: nil system", dynamo.ErrParameterBounds)
	}
	if s.sys.Dim() != len(s.y) {
		return fmt.Errorf("%w: state has %d components, system expects %d",
			dynamo.ErrDimensionMismatch, len(s.y), s.sys.Dim())
	}
	if !(s.rtol >= 0) || !(s.atol >= 0) || s.rtol+s.atol == 0 {
		return fmt.Errorf("%w: tolerances must be non-negative and not both zero (rtol=%g, atol=%g)",
			dynamo.ErrParameterBounds, s.rtol, s.atol)
	}
	if s.nMax <= 0 {
		return fmt.Errorf("%w: n_max must be positive, got %d", dynamo.ErrParameterBounds, s.nMax)
	}
	if s.nStiff <= 0 {
		return fmt.Errorf("%w: n_stiff must be positive, got %d", dynamo.ErrParameterBounds, s.nStiff)
	}
	if math.IsNaN(s.x) || math.IsNaN(s.xEnd) || math.IsInf(s.x, 0) || math.IsInf(s.xEnd, 0) {
		return fmt.Errorf("%w: interval [%g, %g] is not finite", dynamo.ErrParameterBounds, s.x, s.xEnd)
	}
	return nil
}

// validateSpan runs the checks that only make sense on a non-empty interval.
func (s *Stepper) validateSpan() error {
	if err := s.ctrl.Validate(); err != nil {
		return err
	}
	if s.outType == dynamo.Dense && (s.dx == 0 || math.IsNaN(s.dx) || math.IsInf(s.dx, 0)) {
		return fmt.Errorf("%w: dense output needs a finite non-zero dx, got %g", dynamo.ErrParameterBounds, s.dx)
	}
	if math.IsNaN(s.h) || math.IsInf(s.h, 0) {
		return fmt.Errorf("%w: initial step must be finite, got %g", dynamo.ErrParameterBounds, s.h)
	}
	return nil
}
