package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrMaxNumStepReached indicates the step budget was exhausted before x_end.
	ErrMaxNumStepReached = errors.New("dynamo: maximum number of steps reached")

	// ErrStepSizeUnderflow indicates the step size fell below what x can resolve.
	ErrStepSizeUnderflow = errors.New("dynamo: step size underflow")

	// ErrStiffnessDetected indicates the problem appears stiff for an explicit method.
	ErrStiffnessDetected = errors.New("dynamo: stiffness detected")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDimensionMismatch indicates a state whose length differs from the system dimension.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrAlreadyIntegrated indicates a second Integrate call on a consumed stepper.
	ErrAlreadyIntegrated = errors.New("dynamo: stepper already integrated")
)

// IntegrationError is the terminal error of a run. It wraps one of
// ErrMaxNumStepReached, ErrStepSizeUnderflow or ErrStiffnessDetected.
type IntegrationError struct {
	X       float64
	NStep   int
	Wrapped error
}

func (e *IntegrationError) Error() string {
	if errors.Is(e.Wrapped, ErrMaxNumStepReached) {
		return fmt.Sprintf("%v at x = %g (%d steps)", e.Wrapped, e.X, e.NStep)
	}
	return fmt.Sprintf("%v at x = %g", e.Wrapped, e.X)
}

func (e *IntegrationError) Unwrap() error {
	return e.Wrapped
}

func MaxNumStepReached(x float64, nStep int) *IntegrationError {
	return &IntegrationError{X: x, NStep: nStep, Wrapped: ErrMaxNumStepReached}
}

func StepSizeUnderflow(x float64) *IntegrationError {
	return &IntegrationError{X: x, Wrapped: ErrStepSizeUnderflow}
}

func StiffnessDetected(x float64) *IntegrationError {
	return &IntegrationError{X: x, Wrapped: ErrStiffnessDetected}
}
