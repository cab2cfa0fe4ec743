package integrators

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	stiffStreak    = 15
	nonStiffStreak = 6
)

// stiffnessDetector counts consecutive accepted steps whose h*lambda
// estimate exceeds the stability bound of the method.
type stiffnessDetector struct {
	threshold float64
	stiff     int
	nonStiff  int
}

// observe records one accepted step and reports whether the stiff streak
// just reached its limit.
func (d *stiffnessDetector) observe(hLamb float64) bool {
	if hLamb > d.threshold {
		d.nonStiff = 0
		d.stiff++
		return d.stiff == stiffStreak
	}
	d.nonStiff++
	if d.nonStiff == nonStiffStreak {
		d.stiff = 0
	}
	return false
}

// stiffnessQuotient estimates h * lambda from the last two stages, which
// share the abscissa x+h. The signed h makes the quotient negative on
// backward runs, so the detector never fires there.
func (s *Stepper) stiffnessQuotient() float64 {
	final := s.tab.FinalStage()

	floats.SubTo(s.diff, s.k[final], s.k[final-1])
	num := s.diff.Dot(s.diff)
	floats.SubTo(s.diff, s.yNext, s.yStiff)
	den := s.diff.Dot(s.diff)

	if den <= 0 {
		return 0
	}
	return s.h * math.Sqrt(num/den)
}
