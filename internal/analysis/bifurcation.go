package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/dopri/internal/dynamo"
	"github.com/san-kum/dopri/internal/physics"
)

// BifurcationPoint holds the distinct local maxima found for one parameter
// value.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// Sweep describes a bifurcation sweep over one model parameter.
type Sweep struct {
	Param     string
	Values    []float64
	Index     int     // state component whose maxima are recorded
	Transient float64 // integration time discarded before recording
	Record    float64 // integration time recorded
	Dx        float64 // dense output spacing while recording
}

// BifurcationDiagram builds a fresh model per parameter value, lets it
// settle, then records the distinct local maxima of one component. Maxima
// closer than 1e-3 count once.
func BifurcationDiagram(opts Options, newModel func() physics.Model, sw Sweep) ([]BifurcationPoint, error) {
	if !(sw.Dx > 0) || !(sw.Record > 0) || sw.Transient < 0 {
		return nil, fmt.Errorf("%w: sweep needs dx > 0, record > 0, transient >= 0", dynamo.ErrParameterBounds)
	}

	results := make([]BifurcationPoint, 0, len(sw.Values))
	for _, param := range sw.Values {
		model := newModel()
		if err := model.SetParam(sw.Param, param); err != nil {
			return results, err
		}
		y := model.DefaultState()
		if err := checkIndex("state", sw.Index, len(y)); err != nil {
			return results, err
		}

		if sw.Transient > 0 {
			var err error
			if y, err = opts.advance(model, 0, sw.Transient, y); err != nil {
				return results, fmt.Errorf("%s = %g: %w", sw.Param, param, err)
			}
		}

		s := opts.stepper(model, sw.Transient, sw.Transient+sw.Record, sw.Dx, y, dynamo.Dense)
		if _, err := s.Integrate(); err != nil {
			return results, fmt.Errorf("%s = %g: %w", sw.Param, param, err)
		}

		samples, err := Column(s.YOut(), sw.Index)
		if err != nil {
			return results, err
		}
		results = append(results, BifurcationPoint{Param: param, Values: distinctMaxima(samples)})
	}
	return results, nil
}

func distinctMaxima(samples []float64) []float64 {
	var values []float64
	seen := make(map[int64]bool)
	for i := 1; i+1 < len(samples); i++ {
		v := samples[i]
		if v <= samples[i-1] || v < samples[i+1] {
			continue
		}
		key := int64(math.Round(v * 1000))
		if !seen[key] {
			seen[key] = true
			values = append(values, v)
		}
	}
	return values
}

// BifurcationASCII plots parameter against recorded maxima.
func BifurcationASCII(data []BifurcationPoint, width, height int) string {
	var points []Point
	for _, p := range data {
		for _, v := range p.Values {
			points = append(points, Point{X: p.Param, Y: v})
		}
	}
	if len(points) == 0 {
		return ""
	}
	return scatter(points, width, height, false)
}
