package physics

import "github.com/san-kum/dopri/internal/dynamo"

// Decay is y' = -rate * y, solved by y0 * exp(-rate * t).
type Decay struct {
	Rate float64
}

func NewDecay() *Decay { return &Decay{Rate: 1.0} }

func (d *Decay) Dim() int { return 1 }

func (d *Decay) Derive(_ float64, y, dy dynamo.State) {
	dy[0] = -d.Rate * y[0]
}

func (d *Decay) DefaultState() dynamo.State { return dynamo.State{1.0} }

func (d *Decay) GetParams() map[string]float64 {
	return map[string]float64{"rate": d.Rate}
}

func (d *Decay) SetParam(name string, value float64) error {
	if name != "rate" {
		return unknownParam(name)
	}
	d.Rate = value
	return nil
}
