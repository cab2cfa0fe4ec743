package physics

import "github.com/san-kum/dopri/internal/dynamo"

// Harmonic is the undamped oscillator x” = -omega^2 x.
// State: [x, v]
type Harmonic struct {
	Omega float64
}

func NewHarmonic() *Harmonic { return &Harmonic{Omega: 1.0} }

func (h *Harmonic) Dim() int { return 2 }

func (h *Harmonic) Derive(_ float64, y, dy dynamo.State) {
	dy[0] = y[1]
	dy[1] = -h.Omega * h.Omega * y[0]
}

func (h *Harmonic) DefaultState() dynamo.State { return dynamo.State{1.0, 0.0} }

func (h *Harmonic) Energy(y dynamo.State) float64 {
	return 0.5*y[1]*y[1] + 0.5*h.Omega*h.Omega*y[0]*y[0]
}

func (h *Harmonic) GetParams() map[string]float64 {
	return map[string]float64{"omega": h.Omega}
}

func (h *Harmonic) SetParam(name string, value float64) error {
	if name != "omega" {
		return unknownParam(name)
	}
	h.Omega = value
	return nil
}
