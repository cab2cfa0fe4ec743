package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/dopri/internal/control"
	"github.com/san-kum/dopri/internal/dynamo"
	"github.com/san-kum/dopri/internal/tableau"
)

const (
	defaultNMax   = 100000
	defaultNStiff = 1000
)

// Params tunes a stepper. Zero H asks for the automatic initial step.
type Params struct {
	Safety  float64           `yaml:"safety" json:"safety"`
	Beta    float64           `yaml:"beta" json:"beta"`
	FacMin  float64           `yaml:"fac_min" json:"fac_min"`
	FacMax  float64           `yaml:"fac_max" json:"fac_max"`
	HMax    float64           `yaml:"h_max" json:"h_max"`
	H       float64           `yaml:"h" json:"h"`
	NMax    int               `yaml:"n_max" json:"n_max"`
	NStiff  int               `yaml:"n_stiff" json:"n_stiff"`
	OutType dynamo.OutputType `yaml:"-" json:"-"`
}

// Method binds a tableau to its controller tuning.
type Method struct {
	Name        string
	Description string
	Tableau     func() *tableau.Tableau
	Alpha       func(beta float64) float64
	Controller  func(x, xEnd float64) *control.StepSize
}

var (
	Dopri5 = Method{
		Name:        "dopri5",
		Description: "Dormand-Prince 5(4), 4th order dense output",
		Tableau:     tableau.DormandPrince54,
		Alpha:       control.Dopri5Alpha,
		Controller:  control.Dopri5Default,
	}

	Dop853 = Method{
		Name:        "dop853",
		Description: "Dormand-Prince 8(5,3), 7th order dense output",
		Tableau:     tableau.DormandPrince853,
		Alpha:       control.Dop853Alpha,
		Controller:  control.Dop853Default,
	}

	methods = map[string]Method{
		Dopri5.Name: Dopri5,
		Dop853.Name: Dop853,
	}
)

// LookupMethod finds a method by name.
func LookupMethod(name string) (Method, error) {
	m, ok := methods[name]
	if !ok {
		return Method{}, fmt.Errorf("unknown method: %s", name)
	}
	return m, nil
}

// Methods lists the registered methods sorted by name.
func Methods() []Method {
	out := make([]Method, 0, len(methods))
	for _, m := range methods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DefaultParams returns the tuning used by the short constructors.
func (m Method) DefaultParams(x, xEnd float64) Params {
	c := m.Controller(x, xEnd)
	return Params{
		Safety:  c.Safety,
		Beta:    c.Beta,
		FacMin:  c.FacMin,
		FacMax:  c.FacMax,
		HMax:    c.HMax,
		NMax:    defaultNMax,
		NStiff:  defaultNStiff,
		OutType: dynamo.Dense,
	}
}

// New builds a stepper integrating sys from (x, y) to xEnd. The state is
// copied. dx is the dense output spacing; its sign is ignored.
func (m Method) New(sys dynamo.System, x, xEnd, dx float64, y dynamo.State, rtol, atol float64, p Params) *Stepper {
	ctrl := control.NewStepSize(m.Alpha(p.Beta), p.Beta, p.FacMax, p.FacMin, p.HMax, p.Safety, xEnd-x)
	return newStepper(m.Tableau(), ctrl, sys, x, xEnd, dx, y, rtol, atol, p)
}

// NewDopri5 builds a 5(4) stepper with default tuning and dense output.
func NewDopri5(sys dynamo.System, x, xEnd, dx float64, y dynamo.State, rtol, atol float64) *Stepper {
	return Dopri5.New(sys, x, xEnd, dx, y, rtol, atol, Dopri5.DefaultParams(x, xEnd))
}

func NewDopri5WithParams(sys dynamo.System, x, xEnd, dx float64, y dynamo.State, rtol, atol float64, p Params) *Stepper {
	return Dopri5.New(sys, x, xEnd, dx, y, rtol, atol, p)
}

// NewDop853 builds an 8(5,3) stepper with default tuning and dense output.
func NewDop853(sys dynamo.System, x, xEnd, dx float64, y dynamo.State, rtol, atol float64) *Stepper {
	return Dop853.New(sys, x, xEnd, dx, y, rtol, atol, Dop853.DefaultParams(x, xEnd))
}

func NewDop853WithParams(sys dynamo.System, x, xEnd, dx float64, y dynamo.State, rtol, atol float64, p Params) *Stepper {
	return Dop853.New(sys, x, xEnd, dx, y, rtol, atol, p)
}
