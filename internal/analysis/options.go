package analysis

import (
	"fmt"

	"github.com/san-kum/dopri/internal/dynamo"
	"github.com/san-kum/dopri/internal/integrators"
)

// Options selects the method and tolerances used for every integration an
// analysis performs.
type Options struct {
	Method integrators.Method
	RTol   float64
	ATol   float64
}

func (o Options) stepper(sys dynamo.System, x0, xEnd, dx float64, y0 dynamo.State, out dynamo.OutputType) *integrators.Stepper {
	p := o.Method.DefaultParams(x0, xEnd)
	p.OutType = out
	return o.Method.New(sys, x0, xEnd, dx, y0, o.RTol, o.ATol, p)
}

// advance integrates sys from x0 to xEnd and returns the final state.
func (o Options) advance(sys dynamo.System, x0, xEnd float64, y0 dynamo.State) (dynamo.State, error) {
	s := o.stepper(sys, x0, xEnd, 0, y0, dynamo.Sparse)
	if _, err := s.Integrate(); err != nil {
		return nil, err
	}
	return s.Y(), nil
}

func checkIndex(name string, idx, dim int) error {
	if idx < 0 || idx >= dim {
		return fmt.Errorf("%w: %s index %d out of range for dimension %d", dynamo.ErrParameterBounds, name, idx, dim)
	}
	return nil
}
