// Package dynamo provides the core primitives shared by the integrators.
//
// The package defines the fundamental interfaces and types for the numerical
// integration of initial value problems dy/dt = f(t, y):
//
//   - [State]: fixed-length vector of float64 values
//   - [System]: derivative capability with a fixed dimension
//   - [SoloutFunc]: early-stop predicate evaluated after every accepted step
//   - [Stats]: evaluation and step counters returned by a run
//   - [IntegrationError]: the terminal conditions of a run
//
// # Example
//
//	sys := physics.NewLorenz()
//	stepper := integrators.NewDop853(sys, 0, 100, 1e-3, sys.DefaultState(), 1e-4, 1e-4)
//	stats, err := stepper.Integrate()
//
// # Thread Safety
//
// Systems are evaluated synchronously from a single goroutine. A system may
// be shared between steppers only if its Derive method has no side effects.
package dynamo
