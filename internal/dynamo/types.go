package dynamo

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// State is an ordered, fixed-length vector of real values.
type State []float64

// NewState returns a zero state of dimension n.
func NewState(n int) State {
	return make(State, n)
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Norm(s, 2)
}

func (s State) Dot(other State) float64 {
	return floats.Dot(s, other)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	floats.SubTo(result, s, other)
	return result
}

// AddScaled performs s += alpha*other in place.
func (s State) AddScaled(alpha float64, other State) {
	floats.AddScaled(s, alpha, other)
}

// System is the derivative capability of an ODE dy/dt = f(t, y).
//
// Derive writes f(t, y) into dy, which always has length Dim(). It may be
// called any number of times with the same arguments and must not retain y
// or dy.
type System interface {
	Dim() int
	Derive(t float64, y State, dy State)
}

// DeriveFunc adapts a plain function to the System interface.
type DeriveFunc func(t float64, y State, dy State)

type funcSystem struct {
	dim int
	fn  DeriveFunc
}

// Func wraps fn as a System of dimension dim.
func Func(dim int, fn DeriveFunc) System {
	return &funcSystem{dim: dim, fn: fn}
}

func (f *funcSystem) Dim() int                            { return f.dim }
func (f *funcSystem) Derive(t float64, y State, dy State) { f.fn(t, y, dy) }

// SoloutFunc is evaluated after every accepted step with the new point, state
// and derivative. Returning true ends the integration successfully.
type SoloutFunc func(x float64, y State, dy State) bool

// NeverStop is the default SoloutFunc.
func NeverStop(float64, State, State) bool { return false }

// Hamiltonian is implemented by systems with a conserved scalar quantity.
type Hamiltonian interface {
	Energy(y State) float64
}

// Configurable is implemented by systems with named parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// OutputType selects how accepted steps are recorded.
type OutputType int

const (
	// Dense records the solution on a uniform grid using the continuous extension.
	Dense OutputType = iota
	// Sparse records the solution at every accepted step.
	Sparse
)

func (o OutputType) String() string {
	switch o {
	case Dense:
		return "dense"
	case Sparse:
		return "sparse"
	}
	return fmt.Sprintf("OutputType(%d)", int(o))
}

// ParseOutputType accepts "dense" or "sparse", case-insensitively.
func ParseOutputType(s string) (OutputType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dense":
		return Dense, nil
	case "sparse":
		return Sparse, nil
	}
	return Dense, fmt.Errorf("%w: unknown output type %q", ErrParameterBounds, s)
}

// Stats holds the counters of an integration run.
type Stats struct {
	NumEval       int `json:"num_eval" yaml:"num_eval"`
	AcceptedSteps int `json:"accepted_steps" yaml:"accepted_steps"`
	RejectedSteps int `json:"rejected_steps" yaml:"rejected_steps"`
}

func (s Stats) String() string {
	return fmt.Sprintf("Number of function evaluations: %d\nNumber of accepted steps: %d\nNumber of rejected steps: %d",
		s.NumEval, s.AcceptedSteps, s.RejectedSteps)
}
