package integrators

import (
	"testing"

	"github.com/san-kum/dopri/internal/dynamo"
)

func TestLookupMethod(t *testing.T) {
	for _, name := range []string{"dopri5", "dop853"} {
		m, err := LookupMethod(name)
		if err != nil {
			t.Fatalf("LookupMethod(%q): %v", name, err)
		}
		if m.Tableau().Name != name {
			t.Errorf("method %q builds tableau %q", name, m.Tableau().Name)
		}
	}
	if _, err := LookupMethod("rk4"); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestMethods_Sorted(t *testing.T) {
	ms := Methods()
	if len(ms) != 2 || ms[0].Name != "dop853" || ms[1].Name != "dopri5" {
		t.Errorf("unexpected method list: %v", ms)
	}
}

func TestDefaultParams(t *testing.T) {
	tests := []struct {
		method Method
		want   Params
	}{
		{Dopri5, Params{Safety: 0.9, Beta: 0.04, FacMin: 0.2, FacMax: 10, HMax: 5, NMax: 100000, NStiff: 1000, OutType: dynamo.Dense}},
		{Dop853, Params{Safety: 0.9, Beta: 0, FacMin: 0.333, FacMax: 6, HMax: 5, NMax: 100000, NStiff: 1000, OutType: dynamo.Dense}},
	}

	for _, tt := range tests {
		t.Run(tt.method.Name, func(t *testing.T) {
			if got := tt.method.DefaultParams(5, 0); got != tt.want {
				t.Errorf("DefaultParams = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStepper_Method(t *testing.T) {
	s := NewDop853(decay(), 0, 1, 0.1, dynamo.State{1}, 1e-6, 1e-6)
	if s.Method() != "dop853" {
		t.Errorf("Method() = %q", s.Method())
	}
}
