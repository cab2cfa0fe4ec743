package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/dopri/internal/dynamo"
)

// LargestLyapunov estimates the largest Lyapunov exponent of sys along the
// trajectory from y0 over [x0, xEnd]. A companion trajectory starts d0 away
// in the first component; after every segment the separation is measured
// and rescaled back to d0. A positive value indicates chaos.
func LargestLyapunov(opts Options, sys dynamo.System, y0 dynamo.State, x0, xEnd, segment, d0 float64) (float64, error) {
	if len(y0) == 0 {
		return 0, fmt.Errorf("%w: empty state", dynamo.ErrParameterBounds)
	}
	if !(segment > 0) || !(d0 > 0) {
		return 0, fmt.Errorf("%w: segment and perturbation must be positive", dynamo.ErrParameterBounds)
	}
	if !(xEnd > x0) {
		return 0, fmt.Errorf("%w: need x_end > x0", dynamo.ErrParameterBounds)
	}

	y := y0.Clone()
	yp := y0.Clone()
	yp[0] += d0

	sumLog := 0.0
	for x := x0; x < xEnd; {
		next := math.Min(x+segment, xEnd)

		var err error
		if y, err = opts.advance(sys, x, next, y); err != nil {
			return 0, fmt.Errorf("reference trajectory: %w", err)
		}
		if yp, err = opts.advance(sys, x, next, yp); err != nil {
			return 0, fmt.Errorf("perturbed trajectory: %w", err)
		}

		sep := yp.Sub(y).Norm()
		if sep == 0 {
			return math.Inf(-1), nil
		}
		sumLog += math.Log(sep / d0)

		// rescale the separation back to d0
		for i := range yp {
			yp[i] = y[i] + (yp[i]-y[i])*d0/sep
		}
		x = next
	}

	return sumLog / (xEnd - x0), nil
}
