package physics

import (
	"math"

	"github.com/san-kum/dopri/internal/dynamo"
)

// EarthMoonMu is the mass ratio of the Earth-Moon system.
const EarthMoonMu = 0.012300118882173

// RestrictedThreeBody is the circular restricted three-body problem in the
// rotating frame, normalised so the primaries sit at (-mu, 0, 0) and
// (1-mu, 0, 0).
// State: [x, y, z, vx, vy, vz]
type RestrictedThreeBody struct {
	Mu float64
}

func NewRestrictedThreeBody() *RestrictedThreeBody {
	return &RestrictedThreeBody{Mu: EarthMoonMu}
}

func (c *RestrictedThreeBody) Dim() int { return 6 }

func (c *RestrictedThreeBody) distances(y dynamo.State) (d, r float64) {
	d = math.Sqrt((y[0]+c.Mu)*(y[0]+c.Mu) + y[1]*y[1] + y[2]*y[2])
	r = math.Sqrt((y[0]-1+c.Mu)*(y[0]-1+c.Mu) + y[1]*y[1] + y[2]*y[2])
	return d, r
}

func (c *RestrictedThreeBody) Derive(_ float64, y, dy dynamo.State) {
	mu := c.Mu
	d, r := c.distances(y)
	d3, r3 := d*d*d, r*r*r

	dy[0] = y[3]
	dy[1] = y[4]
	dy[2] = y[5]
	dy[3] = y[0] + 2*y[4] - (1-mu)*(y[0]+mu)/d3 - mu*(y[0]-1+mu)/r3
	dy[4] = -2*y[3] + y[1] - (1-mu)*y[1]/d3 - mu*y[1]/r3
	dy[5] = -(1-mu)*y[2]/d3 - mu*y[2]/r3
}

func (c *RestrictedThreeBody) DefaultState() dynamo.State {
	return dynamo.State{-0.271, -0.42, 0.0, 0.3, -1.0, 0.0}
}

// Jacobi returns the Jacobi constant, the only integral of motion of the
// restricted problem.
func (c *RestrictedThreeBody) Jacobi(y dynamo.State) float64 {
	d, r := c.distances(y)
	v2 := y[3]*y[3] + y[4]*y[4] + y[5]*y[5]
	return y[0]*y[0] + y[1]*y[1] + 2*(1-c.Mu)/d + 2*c.Mu/r - v2
}

// Energy implements dynamo.Hamiltonian with the Jacobi constant.
func (c *RestrictedThreeBody) Energy(y dynamo.State) float64 {
	return c.Jacobi(y)
}

func (c *RestrictedThreeBody) GetParams() map[string]float64 {
	return map[string]float64{"mu": c.Mu}
}

func (c *RestrictedThreeBody) SetParam(name string, value float64) error {
	if name != "mu" {
		return unknownParam(name)
	}
	if value <= 0 || value >= 0.5 {
		return fmtBounds(name, value, "(0, 0.5)")
	}
	c.Mu = value
	return nil
}
