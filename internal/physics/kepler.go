package physics

import (
	"math"

	"github.com/san-kum/dopri/internal/dynamo"
)

// EarthMu is the gravitational parameter of the Earth in km^3/s^2.
const EarthMu = 398600.435436

// Kepler is the two-body problem around a central mass.
// State: [x, y, z, vx, vy, vz]
type Kepler struct {
	Mu float64
}

func NewKepler() *Kepler { return &Kepler{Mu: EarthMu} }

func (k *Kepler) Dim() int { return 6 }

func (k *Kepler) Derive(_ float64, y, dy dynamo.State) {
	r := math.Sqrt(y[0]*y[0] + y[1]*y[1] + y[2]*y[2])
	c := -k.Mu / (r * r * r)

	dy[0] = y[3]
	dy[1] = y[4]
	dy[2] = y[5]
	dy[3] = c * y[0]
	dy[4] = c * y[1]
	dy[5] = c * y[2]
}

// DefaultState is an inclined orbit with a 20000 km semi-major axis.
func (k *Kepler) DefaultState() dynamo.State {
	return dynamo.State{
		-5007.248417988539, -1444.918140151374, 3628.534606178356,
		0.717716656891, -10.224093784269, 0.748229399696,
	}
}

// Energy is the specific orbital energy v^2/2 - mu/r.
func (k *Kepler) Energy(y dynamo.State) float64 {
	r := math.Sqrt(y[0]*y[0] + y[1]*y[1] + y[2]*y[2])
	v2 := y[3]*y[3] + y[4]*y[4] + y[5]*y[5]
	return 0.5*v2 - k.Mu/r
}

// Period returns the orbital period for semi-major axis a.
func (k *Kepler) Period(a float64) float64 {
	return 2 * math.Pi * math.Sqrt(a*a*a/k.Mu)
}

// SemiMajorAxis derives a from the specific energy of y.
func (k *Kepler) SemiMajorAxis(y dynamo.State) float64 {
	return -k.Mu / (2 * k.Energy(y))
}

func (k *Kepler) GetParams() map[string]float64 {
	return map[string]float64{"mu": k.Mu}
}

func (k *Kepler) SetParam(name string, value float64) error {
	if name != "mu" {
		return unknownParam(name)
	}
	k.Mu = value
	return nil
}
