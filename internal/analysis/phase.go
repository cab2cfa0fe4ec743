package analysis

import (
	"github.com/san-kum/dopri/internal/dynamo"
)

type Point struct {
	X, Y float64
}

// PhasePortrait2D holds a trajectory projected onto two state components.
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []Point
}

// NewPhasePortrait projects recorded states onto components xIdx and yIdx.
func NewPhasePortrait(states []dynamo.State, xIdx, yIdx int) (*PhasePortrait2D, error) {
	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, len(states)),
	}
	if len(states) == 0 {
		return portrait, nil
	}
	dim := len(states[0])
	if err := checkIndex("x", xIdx, dim); err != nil {
		return nil, err
	}
	if err := checkIndex("y", yIdx, dim); err != nil {
		return nil, err
	}

	for _, y := range states {
		portrait.Points = append(portrait.Points, Point{X: y[xIdx], Y: y[yIdx]})
	}
	return portrait, nil
}

// ASCII renders the portrait on a width x height character grid.
func (p *PhasePortrait2D) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 {
		return ""
	}
	return scatter(p.Points, width, height, true)
}
