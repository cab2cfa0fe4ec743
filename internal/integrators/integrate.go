package integrators

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/dopri/internal/dynamo"
)

// Integrate runs the integration to xEnd, or until the solout callback asks
// to stop. A stepper integrates once; later calls return
// dynamo.ErrAlreadyIntegrated.
//
// On failure the returned stats and the output recorded so far stay valid.
func (s *Stepper) Integrate() (dynamo.Stats, error) {
	if s.done {
		return s.stats, dynamo.ErrAlreadyIntegrated
	}
	s.done = true

	if err := s.validate(); err != nil {
		return s.stats, err
	}
	if s.x == s.xEnd {
		s.xOut = append(s.xOut, s.x)
		s.yOut = append(s.yOut, s.y.Clone())
		return s.stats, nil
	}
	if err := s.validateSpan(); err != nil {
		return s.stats, err
	}

	posneg := s.ctrl.PosNeg
	s.dx = math.Abs(s.dx) * posneg

	if s.h == 0 {
		s.h = s.hinit()
		s.stats.NumEval += 2
	} else {
		s.h = math.Abs(s.h) * posneg
	}
	s.hOld = s.h

	if s.outType == dynamo.Sparse {
		s.xOut = append(s.xOut, s.x)
		s.yOut = append(s.yOut, s.y.Clone())
	}

	s.sys.Derive(s.x, s.y, s.k[0])
	s.stats.NumEval++

	final := s.tab.FinalStage()
	nStep := 0
	last := false

	for {
		if nStep > s.nMax {
			s.log.WithFields(logrus.Fields{"x": s.x, "steps": nStep}).Warn("maximum number of steps reached")
			return s.stats, dynamo.MaxNumStepReached(s.x, nStep)
		}
		if 0.1*math.Abs(s.h) <= uround*math.Abs(s.x) {
			s.log.WithFields(logrus.Fields{"x": s.x, "h": s.h}).Warn("step size underflow")
			return s.stats, dynamo.StepSizeUnderflow(s.x)
		}
		if (s.x+1.01*s.h-s.xEnd)*posneg > 0 {
			s.h = s.xEnd - s.x
			last = true
		}
		nStep++

		s.attempt()
		err := s.errorNorm()
		hNew, ok := s.ctrl.Accept(err, s.h)

		if !ok {
			if s.stats.AcceptedSteps >= 1 {
				s.stats.RejectedSteps++
			}
			s.log.WithFields(logrus.Fields{"x": s.x, "h": s.h, "err": err}).Debug("step rejected")
			last = false
			s.h = hNew
			continue
		}

		s.stats.AcceptedSteps++
		if s.log.IsLevelEnabled(logrus.TraceLevel) {
			s.log.WithFields(logrus.Fields{"x": s.x, "h": s.h, "err": err}).Trace("step accepted")
		}

		if !s.tab.FSAL {
			s.sys.Derive(s.x+s.h, s.yNext, s.k[final])
			s.stats.NumEval++
		}

		if s.stiff.observe(s.stiffnessQuotient()) {
			s.log.WithFields(logrus.Fields{"x": s.x, "h": s.h}).Warn("stiffness detected")
			return s.stats, dynamo.StiffnessDetected(s.x)
		} else if s.stiff.stiff > 0 {
			s.log.WithFields(logrus.Fields{"x": s.x, "streak": s.stiff.stiff}).Debug("stiff step")
		}

		if s.outType == dynamo.Dense {
			s.prepareDense()
		}

		copy(s.k[0], s.k[final])
		copy(s.y, s.yNext)
		s.xOld = s.x
		s.x += s.h
		s.hOld = s.h
		if last {
			s.x = s.xEnd
		}

		s.record()

		if s.solout(s.x, s.y, s.k[0]) {
			last = true
		}
		if last {
			return s.stats, nil
		}
		s.h = hNew
	}
}

// attempt evaluates the attempt stages for the current step and forms yNext.
func (s *Stepper) attempt() {
	tab := s.tab
	for st := 1; st < tab.Stages; st++ {
		s.stageState(st, s.yStage)
		if tab.FSAL && st == tab.Stages-1 {
			copy(s.yNext, s.yStage)
		}
		if st == tab.FinalStage()-1 {
			copy(s.yStiff, s.yStage)
		}
		s.sys.Derive(s.x+tab.CNode[st]*s.h, s.yStage, s.k[st])
	}
	s.stats.NumEval += tab.Stages - 1

	if tab.FSAL {
		return
	}
	for i := range s.bsum {
		acc := 0.0
		for j, b := range tab.B {
			if b != 0 {
				acc += b * s.k[j][i]
			}
		}
		s.bsum[i] = acc
		s.yNext[i] = s.y[i] + s.h*acc
	}
}

// stageState writes y + h * sum_j a(st, j) k_j into out.
func (s *Stepper) stageState(st int, out dynamo.State) {
	row := s.tab.AStage[st]
	for i := range out {
		acc := 0.0
		for j, a := range row {
			if a != 0 {
				acc += a * s.k[j][i]
			}
		}
		out[i] = s.y[i] + s.h*acc
	}
}

// errorNorm is the scaled RMS of the embedded error estimate. Values at or
// below 1 accept the step.
func (s *Stepper) errorNorm() float64 {
	n := float64(len(s.y))
	tab := s.tab

	if tab.BHH == nil {
		sum := 0.0
		for i := range s.y {
			sk := s.atol + math.Max(math.Abs(s.y[i]), math.Abs(s.yNext[i]))*s.rtol
			e := 0.0
			for j, w := range tab.EWeights {
				if w != 0 {
					e += w * s.k[j][i]
				}
			}
			e *= s.h
			sum += (e / sk) * (e / sk)
		}
		return math.Sqrt(sum / n)
	}

	// blended 5th and 3rd order estimates
	err, err2 := 0.0, 0.0
	for i := range s.y {
		sk := s.atol + math.Max(math.Abs(s.y[i]), math.Abs(s.yNext[i]))*s.rtol
		e2 := s.bsum[i]
		for j, w := range tab.BHH {
			if w != 0 {
				e2 -= w * s.k[j][i]
			}
		}
		err2 += (e2 / sk) * (e2 / sk)

		e := 0.0
		for j, w := range tab.EWeights {
			if w != 0 {
				e += w * s.k[j][i]
			}
		}
		err += (e / sk) * (e / sk)
	}
	deno := err + 0.01*err2
	if deno <= 0 {
		deno = 1
	}
	return math.Abs(s.h) * err * math.Sqrt(1/(n*deno))
}

// record appends the output of the step that just completed.
func (s *Stepper) record() {
	if s.outType == dynamo.Sparse {
		s.xOut = append(s.xOut, s.x)
		s.yOut = append(s.yOut, s.y.Clone())
		return
	}

	posneg := s.ctrl.PosNeg
	for {
		xd := s.x0 + float64(s.nDense)*s.dx
		slack := 8 * uround * math.Max(math.Abs(s.x), math.Abs(xd))
		if (xd-s.x)*posneg > slack {
			return
		}
		out := dynamo.NewState(len(s.y))
		s.interpolate((xd-s.xOld)/s.hOld, out)
		s.xOut = append(s.xOut, xd)
		s.yOut = append(s.yOut, out)
		s.nDense++
	}
}
