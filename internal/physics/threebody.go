package physics

import (
	"math"

	"github.com/san-kum/dopri/internal/dynamo"
)

// ThreeBody implements a planar gravitational three-body problem.
// State: [x1, y1, vx1, vy1, x2, y2, vx2, vy2, x3, y3, vx3, vy3]
// Each body has mass, position (x, y), and velocity (vx, vy).
type ThreeBody struct {
	m1, m2, m3 float64 // Masses
	g          float64 // Gravitational constant
	softening  float64 // Prevent singularities
}

func NewThreeBody() *ThreeBody {
	return &ThreeBody{
		m1:        1.0,
		m2:        1.0,
		m3:        1.0,
		g:         1.0,
		softening: 0.1,
	}
}

func (t *ThreeBody) Dim() int { return 12 }

func (t *ThreeBody) Derive(_ float64, state, ds dynamo.State) {
	x1, y1, vx1, vy1 := state[0], state[1], state[2], state[3]
	x2, y2, vx2, vy2 := state[4], state[5], state[6], state[7]
	x3, y3, vx3, vy3 := state[8], state[9], state[10], state[11]

	eps2 := t.softening * t.softening
	r12 := math.Sqrt((x2-x1)*(x2-x1) + (y2-y1)*(y2-y1) + eps2)
	r13 := math.Sqrt((x3-x1)*(x3-x1) + (y3-y1)*(y3-y1) + eps2)
	r23 := math.Sqrt((x3-x2)*(x3-x2) + (y3-y2)*(y3-y2) + eps2)
	c12 := t.g / (r12 * r12 * r12)
	c13 := t.g / (r13 * r13 * r13)
	c23 := t.g / (r23 * r23 * r23)

	ds[0], ds[1] = vx1, vy1
	ds[2] = c12*t.m2*(x2-x1) + c13*t.m3*(x3-x1)
	ds[3] = c12*t.m2*(y2-y1) + c13*t.m3*(y3-y1)

	ds[4], ds[5] = vx2, vy2
	ds[6] = c12*t.m1*(x1-x2) + c23*t.m3*(x3-x2)
	ds[7] = c12*t.m1*(y1-y2) + c23*t.m3*(y3-y2)

	ds[8], ds[9] = vx3, vy3
	ds[10] = c13*t.m1*(x1-x3) + c23*t.m2*(x2-x3)
	ds[11] = c13*t.m1*(y1-y3) + c23*t.m2*(y2-y3)
}

func (t *ThreeBody) DefaultState() dynamo.State {
	// Figure-8 solution initial conditions (approximately)
	return dynamo.State{
		-1.0, 0.0, 0.347, 0.532, // Body 1
		1.0, 0.0, 0.347, 0.532, // Body 2
		0.0, 0.0, -0.694, -1.064, // Body 3
	}
}

// Energy is the total energy with the softened potential.
func (t *ThreeBody) Energy(s dynamo.State) float64 {
	masses := [3]float64{t.m1, t.m2, t.m3}
	ke, pe := 0.0, 0.0
	for i := 0; i < 3; i++ {
		vx, vy := s[4*i+2], s[4*i+3]
		ke += 0.5 * masses[i] * (vx*vx + vy*vy)
		for j := i + 1; j < 3; j++ {
			dx, dy := s[4*j]-s[4*i], s[4*j+1]-s[4*i+1]
			r := math.Sqrt(dx*dx + dy*dy + t.softening*t.softening)
			pe -= t.g * masses[i] * masses[j] / r
		}
	}
	return ke + pe
}

// GetParams implements dynamo.Configurable
func (t *ThreeBody) GetParams() map[string]float64 {
	return map[string]float64{
		"m1":        t.m1,
		"m2":        t.m2,
		"m3":        t.m3,
		"g":         t.g,
		"softening": t.softening,
	}
}

// SetParam implements dynamo.Configurable
func (t *ThreeBody) SetParam(name string, value float64) error {
	switch name {
	case "m1":
		t.m1 = value
	case "m2":
		t.m2 = value
	case "m3":
		t.m3 = value
	case "g":
		t.g = value
	case "softening":
		t.softening = value
	default:
		return unknownParam(name)
	}
	return nil
}
