package control

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/dopri/internal/dynamo"
)

func TestDopri5Default(t *testing.T) {
	c := Dopri5Default(0, 10)

	if math.Abs(c.Alpha-(0.2-0.04*0.75)) > 1e-15 {
		t.Errorf("alpha = %v", c.Alpha)
	}
	if c.Beta != 0.04 || c.FacMin != 0.2 || c.FacMax != 10 || c.Safety != 0.9 {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if c.HMax != 10 {
		t.Errorf("h_max = %v, want 10", c.HMax)
	}
	if c.PosNeg != 1 {
		t.Errorf("posneg = %v, want 1", c.PosNeg)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestDefaultBackward(t *testing.T) {
	c := Dop853Default(5, -5)
	if c.PosNeg != -1 {
		t.Errorf("posneg = %v, want -1", c.PosNeg)
	}
	if c.HMax != 10 {
		t.Errorf("h_max = %v, want 10", c.HMax)
	}

	h, ok := c.Accept(0.5, -0.1)
	if !ok {
		t.Fatal("err 0.5 rejected")
	}
	if h >= 0 {
		t.Errorf("proposal %v lost the integration direction", h)
	}
}

func TestAccept_Threshold(t *testing.T) {
	tests := []struct {
		err    float64
		accept bool
	}{
		{0, true},
		{0.3, true},
		{1.0, true},
		{1.0000001, false},
		{50, false},
	}

	for _, tt := range tests {
		c := Dopri5Default(0, 1)
		_, ok := c.Accept(tt.err, 0.01)
		if ok != tt.accept {
			t.Errorf("Accept(%v) = %v, want %v", tt.err, ok, tt.accept)
		}
	}
}

func TestAccept_Clamps(t *testing.T) {
	c := Dopri5Default(0, 100)

	h, _ := c.Accept(0, 0.01)
	if math.Abs(h-0.1) > 1e-15 {
		t.Errorf("zero error should grow by fac_max: got %v", h)
	}

	c = Dopri5Default(0, 100)
	h, ok := c.Accept(1e12, 0.01)
	if ok {
		t.Fatal("huge error accepted")
	}
	if math.Abs(h-0.002) > 1e-15 {
		t.Errorf("huge error should shrink by fac_min: got %v", h)
	}

	c = Dopri5Default(0, 0.05)
	h, _ = c.Accept(1e-8, 0.04)
	if h != 0.05 {
		t.Errorf("h_max not enforced: got %v", h)
	}
}

func TestAccept_MonotoneResponse(t *testing.T) {
	errs := []float64{1e-6, 1e-3, 0.01, 0.1, 0.5, 0.9, 1.0}
	prev := math.Inf(1)
	for _, e := range errs {
		c := Dopri5Default(0, 100)
		h, ok := c.Accept(e, 0.1)
		if !ok {
			t.Fatalf("err %v rejected", e)
		}
		if h > prev {
			t.Errorf("err %v proposed %v, larger than %v for a smaller error", e, h, prev)
		}
		prev = h
	}
}

func TestAccept_NoGrowthAfterReject(t *testing.T) {
	c := Dopri5Default(0, 100)

	h, ok := c.Accept(4, 0.1)
	if ok {
		t.Fatal("err 4 accepted")
	}
	if h >= 0.1 {
		t.Errorf("rejection did not shrink the step: %v", h)
	}

	next, ok := c.Accept(1e-6, h)
	if !ok {
		t.Fatal("tiny error rejected")
	}
	if next > h {
		t.Errorf("step grew right after rejection: %v > %v", next, h)
	}

	grown, _ := c.Accept(1e-6, next)
	if grown <= next {
		t.Errorf("step did not grow once the rejection cleared: %v <= %v", grown, next)
	}
}

func TestAccept_IntegralTerm(t *testing.T) {
	low := Dopri5Default(0, 100)
	low.Accept(0.1, 0.1)
	hLow, _ := low.Accept(0.5, 0.1)

	high := Dopri5Default(0, 100)
	high.Accept(0.9, 0.1)
	hHigh, _ := high.Accept(0.5, 0.1)

	if hHigh <= hLow {
		t.Errorf("a larger previous error should allow a larger step: %v <= %v", hHigh, hLow)
	}

}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		c    *StepSize
	}{
		{"fac_min above one", NewStepSize(0.17, 0.04, 10, 1.5, 1, 0.9, 1)},
		{"fac_max below one", NewStepSize(0.17, 0.04, 0.5, 0.2, 1, 0.9, 1)},
		{"zero h_max", NewStepSize(0.17, 0.04, 10, 0.2, 0, 0.9, 1)},
		{"zero safety", NewStepSize(0.17, 0.04, 10, 0.2, 1, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("Validate() = %v, want ErrParameterBounds", err)
			}
		})
	}
}

func TestParams(t *testing.T) {
	c := Dopri5Default(0, 1)

	if err := c.SetParam("safety", 0.8); err != nil {
		t.Fatalf("SetParam: %v", err)
	}
	if got := c.GetParams()["safety"]; got != 0.8 {
		t.Errorf("safety = %v, want 0.8", got)
	}
	if err := c.SetParam("gain", 1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("unknown parameter accepted: %v", err)
	}
}
