package physics

import (
	"fmt"

	"github.com/san-kum/dopri/internal/dynamo"
)

// Model is a system that ships with a default initial state and tunable
// parameters.
type Model interface {
	dynamo.System
	dynamo.Configurable
	DefaultState() dynamo.State
}

func unknownParam(name string) error {
	return fmt.Errorf("%w: unknown param: %s", dynamo.ErrParameterBounds, name)
}

func fmtBounds(name string, value float64, interval string) error {
	return fmt.Errorf("%w: %s = %g outside %s", dynamo.ErrParameterBounds, name, value, interval)
}
