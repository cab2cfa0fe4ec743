package integrators

import (
	"fmt"

	"github.com/san-kum/dopri/internal/dynamo"
)

// prepareDense fills the continuous extension of the step just accepted.
// It must run before y is advanced.
func (s *Stepper) prepareDense() {
	tab := s.tab
	final := tab.FinalStage()

	for st := final + 1; st < tab.TotalStages(); st++ {
		s.stageState(st, s.yStage)
		s.sys.Derive(s.x+tab.CNode[st]*s.h, s.yStage, s.k[st])
	}
	s.stats.NumEval += tab.DenseStages

	h := s.h
	for i := range s.y {
		ydiff := s.yNext[i] - s.y[i]
		bspl := h*s.k[0][i] - ydiff
		s.rcont[0][i] = s.y[i]
		s.rcont[1][i] = ydiff
		s.rcont[2][i] = bspl
		s.rcont[3][i] = ydiff - h*s.k[final][i] - bspl

		for r, row := range tab.DRows {
			acc := 0.0
			for j, d := range row {
				if d != 0 {
					acc += d * s.k[j][i]
				}
			}
			s.rcont[4+r][i] = h * acc
		}
	}
}

// interpolate evaluates the continuous extension at theta in [0, 1] of the
// last accepted step. Rows alternate between theta and 1-theta factors.
func (s *Stepper) interpolate(theta float64, out dynamo.State) {
	theta1 := 1 - theta
	last := len(s.rcont) - 1
	copy(out, s.rcont[last])
	for r := last - 1; r >= 0; r-- {
		m := theta
		if r%2 == 1 {
			m = theta1
		}
		row := s.rcont[r]
		for i := range out {
			out[i] = row[i] + m*out[i]
		}
	}
}

// Interpolate evaluates the dense output at xq inside the last accepted
// step. It is meant to be called from a solout callback to locate events
// between grid points.
func (s *Stepper) Interpolate(xq float64) (dynamo.State, error) {
	if s.outType != dynamo.Dense || s.stats.AcceptedSteps == 0 {
		return nil, fmt.Errorf("%w: no dense step available", dynamo.ErrParameterBounds)
	}
	lo, hi := s.xOld, s.x
	if (xq-lo)*s.ctrl.PosNeg < 0 || (xq-hi)*s.ctrl.PosNeg > 0 {
		return nil, fmt.Errorf("%w: x = %g outside last step [%g, %g]", dynamo.ErrParameterBounds, xq, lo, hi)
	}
	out := dynamo.NewState(len(s.y))
	s.interpolate((xq-s.xOld)/s.hOld, out)
	return out, nil
}
