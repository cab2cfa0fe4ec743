// Package physics provides example dynamical systems for the steppers.
//
// Each model implements [dynamo.System] with an in-place Derive, plus
// [Model] for a default initial state and [dynamo.Configurable] for
// parameter adjustment:
//
//   - [Decay], [Harmonic]: problems with closed-form solutions
//   - [Lorenz], [Rossler]: strange attractors
//   - [VanDerPol], [Duffing], [DoubleWell], [Pendulum]: nonlinear oscillators
//   - [SpringMass]: chain of damped springs
//   - [Kepler]: two-body orbit around a central mass
//   - [ThreeBody]: planar gravitational three-body problem
//   - [RestrictedThreeBody]: circular restricted three-body problem
//   - [Robertson]: stiff chemical kinetics
//
// Conservative models also implement [dynamo.Hamiltonian]. For the
// restricted problem the invariant is the Jacobi constant.
//
//	m := physics.NewKepler()
//	if h, ok := m.(dynamo.Hamiltonian); ok {
//	    energy := h.Energy(state)
//	}
package physics
