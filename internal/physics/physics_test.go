package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/dopri/internal/dynamo"
)

func allModels() map[string]Model {
	return map[string]Model{
		"decay":      NewDecay(),
		"harmonic":   NewHarmonic(),
		"lorenz":     NewLorenz(),
		"rossler":    NewRossler(),
		"vanderpol":  NewVanDerPol(),
		"duffing":    NewDuffing(),
		"pendulum":   NewPendulum(),
		"doublewell": NewDoubleWell(),
		"springmass": NewSpringMassChain(3),
		"threebody":  NewThreeBody(),
		"kepler":     NewKepler(),
		"cr3bp":      NewRestrictedThreeBody(),
		"robertson":  NewRobertson(),
	}
}

func TestModels_DefaultState(t *testing.T) {
	for name, m := range allModels() {
		t.Run(name, func(t *testing.T) {
			y := m.DefaultState()
			if len(y) != m.Dim() {
				t.Fatalf("default state has %d components, Dim() = %d", len(y), m.Dim())
			}
			dy := dynamo.NewState(m.Dim())
			m.Derive(0, y, dy)
			if !dy.IsValid() {
				t.Errorf("derivative at default state is not finite: %v", dy)
			}
		})
	}
}

func TestModels_Params(t *testing.T) {
	for name, m := range allModels() {
		t.Run(name, func(t *testing.T) {
			params := m.GetParams()
			if len(params) == 0 {
				t.Fatal("no parameters exposed")
			}
			for p, v := range params {
				if err := m.SetParam(p, v); err != nil {
					t.Errorf("SetParam(%q, %g): %v", p, v, err)
				}
				if got := m.GetParams()[p]; got != v {
					t.Errorf("param %q = %g after set, want %g", p, got, v)
				}
			}
			err := m.SetParam("no_such_param", 1)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestRestrictedThreeBody_MassRatioBounds(t *testing.T) {
	c := NewRestrictedThreeBody()
	if err := c.SetParam("mu", 0.7); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if c.Mu != EarthMoonMu {
		t.Errorf("mu changed on rejected set: %g", c.Mu)
	}
}

func TestDecay_Derive(t *testing.T) {
	d := NewDecay()
	_ = d.SetParam("rate", 2)
	dy := dynamo.NewState(1)
	d.Derive(0, dynamo.State{3}, dy)
	if dy[0] != -6 {
		t.Errorf("dy = %g, want -6", dy[0])
	}
}

func TestRobertson_ConservesMass(t *testing.T) {
	r := NewRobertson()
	y := dynamo.State{0.7, 3e-5, 0.3}
	dy := dynamo.NewState(3)
	r.Derive(0, y, dy)
	if sum := dy[0] + dy[1] + dy[2]; math.Abs(sum) > 1e-12 {
		t.Errorf("total rate = %g, want 0", sum)
	}
}

func TestKepler_CircularOrbit(t *testing.T) {
	k := NewKepler()
	r := 7000.0
	v := math.Sqrt(k.Mu / r)
	y := dynamo.State{r, 0, 0, 0, v, 0}

	if a := k.SemiMajorAxis(y); math.Abs(a-r) > 1e-9*r {
		t.Errorf("semi-major axis %g, want %g", a, r)
	}

	dy := dynamo.NewState(6)
	k.Derive(0, y, dy)
	// centripetal acceleration v^2/r toward the origin
	if math.Abs(dy[3]+v*v/r) > 1e-12 {
		t.Errorf("radial acceleration %g, want %g", dy[3], -v*v/r)
	}
}

func TestKepler_DefaultOrbitPeriod(t *testing.T) {
	k := NewKepler()
	a := k.SemiMajorAxis(k.DefaultState())
	if math.Abs(a-20000) > 1e-6 {
		t.Errorf("semi-major axis %g, want about 20000", a)
	}
	if p := k.Period(20000); math.Abs(p-28148.5467) > 1e-3 {
		t.Errorf("period %g, want about 28148.5 s", p)
	}
}

func TestRestrictedThreeBody_Symmetry(t *testing.T) {
	c := NewRestrictedThreeBody()
	y := dynamo.State{0.5, 0.2, 0.1, 0.01, -0.02, 0.03}
	mirror := dynamo.State{0.5, -0.2, 0.1, -0.01, -0.02, -0.03}

	dy, dm := dynamo.NewState(6), dynamo.NewState(6)
	c.Derive(0, y, dy)
	c.Derive(0, mirror, dm)

	// reflection y -> -y with time reversal maps solutions onto solutions
	want := []float64{-dy[0], dy[1], -dy[2], dy[3], -dy[4], dy[5]}
	for i := range want {
		if math.Abs(dm[i]-want[i]) > 1e-12 {
			t.Errorf("component %d: %g, want %g", i, dm[i], want[i])
		}
	}
	if math.Abs(c.Jacobi(y)-c.Jacobi(mirror)) > 1e-12 {
		t.Error("Jacobi constant not symmetric")
	}
}

func TestHarmonic_Energy(t *testing.T) {
	h := NewHarmonic()
	if e := h.Energy(dynamo.State{1, 0}); e != 0.5 {
		t.Errorf("energy %g, want 0.5", e)
	}
	if e := h.Energy(dynamo.State{0, 1}); e != 0.5 {
		t.Errorf("energy %g, want 0.5", e)
	}
}

func TestThreeBody_MomentumConserved(t *testing.T) {
	tb := NewThreeBody()
	y := tb.DefaultState()
	dy := dynamo.NewState(12)
	tb.Derive(0, y, dy)

	px, py := 0.0, 0.0
	for i := 0; i < 3; i++ {
		px += dy[4*i+2]
		py += dy[4*i+3]
	}
	if math.Abs(px) > 1e-12 || math.Abs(py) > 1e-12 {
		t.Errorf("net force (%g, %g), want 0", px, py)
	}
}

func TestSpringMass_ChainSetParam(t *testing.T) {
	s := NewSpringMassChain(4)
	if err := s.SetParam("stiffness", 3); err != nil {
		t.Fatal(err)
	}
	for i, k := range s.Stiffness {
		if k != 3 {
			t.Errorf("stiffness[%d] = %g", i, k)
		}
	}
}
