package metrics

import (
	"math"

	"github.com/san-kum/dopri/internal/dynamo"
)

// Stability is the fraction of samples whose components all stay finite
// and within the bound. NaN and Inf count as violations.
type Stability struct {
	bound      float64
	violations int
	samples    int
	firstBad   float64
}

func NewStability(bound float64) *Stability {
	return &Stability{bound: bound, firstBad: math.NaN()}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(x float64, y dynamo.State) {
	s.samples++
	if s.within(y) {
		return
	}
	if s.violations == 0 {
		s.firstBad = x
	}
	s.violations++
}

func (s *Stability) within(y dynamo.State) bool {
	if !y.IsValid() {
		return false
	}
	for _, v := range y {
		if math.Abs(v) > s.bound {
			return false
		}
	}
	return true
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1
	}
	return 1 - float64(s.violations)/float64(s.samples)
}

// FirstViolation is the abscissa of the first sample out of bounds, NaN if
// there was none.
func (s *Stability) FirstViolation() float64 { return s.firstBad }

func (s *Stability) Reset() {
	s.violations, s.samples = 0, 0
	s.firstBad = math.NaN()
}
