package control

import (
	"fmt"
	"math"

	"github.com/san-kum/dopri/internal/dynamo"
)

// minErrOld floors the remembered error so a zero error cannot poison the
// integral term.
const minErrOld = 1e-4

// StepSize is a PI step-size controller.
//
//	fac   = err^Alpha / errOld^Beta / Safety, clamped to [1/FacMax, 1/FacMin]
//	h_new = h / fac
type StepSize struct {
	Alpha  float64
	Beta   float64
	FacMax float64
	FacMin float64
	HMax   float64
	Safety float64
	PosNeg float64

	errOld float64
	reject bool
}

func NewStepSize(alpha, beta, facMax, facMin, hMax, safety, posNeg float64) *StepSize {
	return &StepSize{
		Alpha:  alpha,
		Beta:   beta,
		FacMax: facMax,
		FacMin: facMin,
		HMax:   hMax,
		Safety: safety,
		PosNeg: sign(1, posNeg),
		errOld: 1,
	}
}

// Dopri5Alpha is the proportional exponent paired with beta for the 5(4) pair.
func Dopri5Alpha(beta float64) float64 { return 0.2 - beta*0.75 }

// Dop853Alpha is the proportional exponent paired with beta for the 8(5,3) method.
func Dop853Alpha(beta float64) float64 { return 1.0/8.0 - beta*0.2 }

// Dopri5Default returns the controller tuning of the 5(4) pair for [x, xEnd].
func Dopri5Default(x, xEnd float64) *StepSize {
	const beta = 0.04
	return NewStepSize(Dopri5Alpha(beta), beta, 10.0, 0.2, math.Abs(xEnd-x), 0.9, xEnd-x)
}

// Dop853Default returns the controller tuning of the 8(5,3) method for [x, xEnd].
func Dop853Default(x, xEnd float64) *StepSize {
	const beta = 0.0
	return NewStepSize(Dop853Alpha(beta), beta, 6.0, 0.333, math.Abs(xEnd-x), 0.9, xEnd-x)
}

// Accept reports whether a step with scaled error err is accepted and
// proposes the size of the next attempt.
func (c *StepSize) Accept(err, h float64) (float64, bool) {
	fac11 := math.Pow(err, c.Alpha)

	if err <= 1.0 {
		fac := fac11 / math.Pow(c.errOld, c.Beta)
		fac = math.Max(1/c.FacMax, math.Min(1/c.FacMin, fac/c.Safety))
		hNew := h / fac

		c.errOld = math.Max(err, minErrOld)
		if math.Abs(hNew) > c.HMax {
			hNew = c.HMax
		}
		// no growth right after a rejection
		if c.reject {
			hNew = math.Min(math.Abs(hNew), math.Abs(h))
		}
		c.reject = false
		return sign(hNew, c.PosNeg), true
	}

	hNew := h / math.Min(1/c.FacMin, fac11/c.Safety)
	if math.Abs(hNew) > c.HMax {
		hNew = c.HMax
	}
	c.reject = true
	return sign(hNew, c.PosNeg), false
}

// Validate checks fac_min < 1 < fac_max, h_max > 0 and a positive safety factor.
func (c *StepSize) Validate() error {
	if !(c.FacMin > 0 && c.FacMin < 1) {
		return fmt.Errorf("%w: fac_min must be in (0, 1), got %g", dynamo.ErrParameterBounds, c.FacMin)
	}
	if !(c.FacMax > 1) {
		return fmt.Errorf("%w: fac_max must be greater than 1, got %g", dynamo.ErrParameterBounds, c.FacMax)
	}
	if !(c.HMax > 0) {
		return fmt.Errorf("%w: h_max must be positive, got %g", dynamo.ErrParameterBounds, c.HMax)
	}
	if !(c.Safety > 0 && c.Safety <= 1) {
		return fmt.Errorf("%w: safety factor must be in (0, 1], got %g", dynamo.ErrParameterBounds, c.Safety)
	}
	return nil
}

// GetParams returns tunable parameters
func (c *StepSize) GetParams() map[string]float64 {
	return map[string]float64{
		"alpha":   c.Alpha,
		"beta":    c.Beta,
		"fac_max": c.FacMax,
		"fac_min": c.FacMin,
		"h_max":   c.HMax,
		"safety":  c.Safety,
	}
}

// SetParam adjusts a controller parameter
func (c *StepSize) SetParam(name string, value float64) error {
	switch name {
	case "alpha":
		c.Alpha = value
	case "beta":
		c.Beta = value
	case "fac_max":
		c.FacMax = value
	case "fac_min":
		c.FacMin = value
	case "h_max":
		c.HMax = value
	case "safety":
		c.Safety = value
	default:
		return fmt.Errorf("%w: unknown controller parameter %q", dynamo.ErrParameterBounds, name)
	}
	return nil
}

// sign returns |a| carrying the sign of b; b == 0 counts as negative.
func sign(a, b float64) float64 {
	if b > 0 {
		return math.Abs(a)
	}
	return -math.Abs(a)
}
