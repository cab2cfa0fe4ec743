package metrics

import "github.com/san-kum/dopri/internal/dynamo"

// Metric accumulates a scalar over the points of a trajectory.
type Metric interface {
	Name() string
	Observe(x float64, y dynamo.State)
	Value() float64
	Reset()
}

// Evaluate resets every metric, feeds it the trajectory and returns the
// values keyed by metric name.
func Evaluate(xs []float64, ys []dynamo.State, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for i, y := range ys {
			m.Observe(xs[i], y)
		}
		out[m.Name()] = m.Value()
	}
	return out
}

// ForSystem returns the metrics that make sense for sys: invariant drift
// when it has one, plus path length and boundedness.
func ForSystem(sys dynamo.System, bound float64) []Metric {
	ms := []Metric{NewPathLength(), NewStability(bound)}
	if _, ok := sys.(dynamo.Hamiltonian); ok {
		ms = append([]Metric{NewEnergyDrift(sys)}, ms...)
	}
	return ms
}
