// Package control provides the step-size controllers of the adaptive integrators.
//
// [StepSize] is a PI controller: the proportional term reacts to the error of
// the current step and the integral term to the error of the last accepted
// step, which damps oscillations of the step size.
//
// # Usage
//
//	ctrl := control.Dopri5Default(x0, xEnd)
//	hNew, ok := ctrl.Accept(err, h)
//	// ok reports err <= 1; hNew is the proposal for the next attempt
//
// StepSize implements [dynamo.Configurable] for tuning from configuration files.
package control
