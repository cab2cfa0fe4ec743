package physics

import "github.com/san-kum/dopri/internal/dynamo"

// Robertson is the autocatalytic reaction system of Robertson (1966), a
// standard stiff test problem.
//
//	y1' = -k1 y1 + k3 y2 y3
//	y2' =  k1 y1 - k3 y2 y3 - k2 y2^2
//	y3' =  k2 y2^2
type Robertson struct {
	K1, K2, K3 float64
}

func NewRobertson() *Robertson {
	return &Robertson{K1: 0.04, K2: 3e7, K3: 1e4}
}

func (r *Robertson) Dim() int { return 3 }

func (r *Robertson) Derive(_ float64, y, dy dynamo.State) {
	dy[0] = -r.K1*y[0] + r.K3*y[1]*y[2]
	dy[1] = r.K1*y[0] - r.K3*y[1]*y[2] - r.K2*y[1]*y[1]
	dy[2] = r.K2 * y[1] * y[1]
}

func (r *Robertson) DefaultState() dynamo.State { return dynamo.State{1, 0, 0} }

// Mass is the conserved total concentration.
func (r *Robertson) Mass(y dynamo.State) float64 { return y[0] + y[1] + y[2] }

// Energy implements dynamo.Hamiltonian with the total concentration.
func (r *Robertson) Energy(y dynamo.State) float64 { return r.Mass(y) }

func (r *Robertson) GetParams() map[string]float64 {
	return map[string]float64{"k1": r.K1, "k2": r.K2, "k3": r.K3}
}

func (r *Robertson) SetParam(name string, value float64) error {
	switch name {
	case "k1":
		r.K1 = value
	case "k2":
		r.K2 = value
	case "k3":
		r.K3 = value
	default:
		return unknownParam(name)
	}
	return nil
}
