package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/dopri/internal/dynamo"
)

// PathLength sums the Euclidean distance between consecutive samples.
type PathLength struct {
	name   string
	prev   dynamo.State
	length float64
}

func NewPathLength() *PathLength {
	return &PathLength{name: "path_length"}
}

func (p *PathLength) Name() string { return p.name }

func (p *PathLength) Observe(_ float64, y dynamo.State) {
	if p.prev != nil {
		p.length += floats.Distance(p.prev, y, 2)
	}
	p.prev = append(p.prev[:0], y...)
}

func (p *PathLength) Value() float64 { return p.length }

func (p *PathLength) Reset() {
	p.prev = nil
	p.length = 0
}
