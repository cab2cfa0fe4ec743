package analysis

import (
	"math"

	"github.com/san-kum/dopri/internal/dynamo"
	"github.com/san-kum/dopri/internal/integrators"
)

// Crossing is the plane y[Index] = Value, crossed upward.
type Crossing struct {
	Index int
	Value float64
}

// PoincareSection records points when a trajectory crosses a plane.
type PoincareSection struct {
	Times  []float64
	Points []Point
}

const bisectIters = 60

// PoincareSectionOf integrates sys over [x0, xEnd] and records components
// recordX and recordY at every upward crossing of c. Crossings are located
// by bisection on the dense output of the step that contains them.
func PoincareSectionOf(opts Options, sys dynamo.System, x0, xEnd float64, y0 dynamo.State, c Crossing, recordX, recordY int) (*PoincareSection, error) {
	for _, ix := range []struct {
		name string
		idx  int
	}{{"crossing", c.Index}, {"x", recordX}, {"y", recordY}} {
		if err := checkIndex(ix.name, ix.idx, len(y0)); err != nil {
			return nil, err
		}
	}

	section := &PoincareSection{}
	s := opts.stepper(sys, x0, xEnd, xEnd-x0, y0, dynamo.Dense)

	prevX, prevV := x0, y0[c.Index]
	var locErr error
	s.SetSolout(func(x float64, y, _ dynamo.State) bool {
		v := y[c.Index]
		if x != prevX && prevV < c.Value && v >= c.Value {
			xc, yc, err := locate(s, c, prevX, x)
			if err != nil {
				locErr = err
				return true
			}
			section.Times = append(section.Times, xc)
			section.Points = append(section.Points, Point{X: yc[recordX], Y: yc[recordY]})
		}
		prevX, prevV = x, v
		return false
	})

	if _, err := s.Integrate(); err != nil {
		return section, err
	}
	return section, locErr
}

// locate bisects the last step [lo, hi] for the crossing of c.
func locate(s *integrators.Stepper, c Crossing, lo, hi float64) (float64, dynamo.State, error) {
	yHi, err := s.Interpolate(hi)
	if err != nil {
		return 0, nil, err
	}
	yc := yHi
	for i := 0; i < bisectIters && math.Abs(hi-lo) > 0; i++ {
		mid := 0.5 * (lo + hi)
		ym, err := s.Interpolate(mid)
		if err != nil {
			return 0, nil, err
		}
		if ym[c.Index] >= c.Value {
			hi, yc = mid, ym
		} else {
			lo = mid
		}
	}
	return hi, yc, nil
}

// ASCII renders the section points.
func (p *PoincareSection) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 {
		return "no crossings detected"
	}
	return scatter(p.Points, width, height, false)
}
