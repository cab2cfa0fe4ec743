package integrators

import "math"

// hinit guesses the first step from two derivative evaluations so that the
// local error of an explicit Euler step stays near 0.01:
//
//	h0 = 0.01 * |y|/|f|                          scaled norms
//	h1 = (0.01 / max(|f|, |f' estimate|))^(1/order)
//	h  = min(100*h0, h1, hMax)
func (s *Stepper) hinit() float64 {
	posneg := s.ctrl.PosNeg
	hMax := s.ctrl.HMax
	f0, f1, y1 := s.k[1], s.k[2], s.yStage

	s.sys.Derive(s.x, s.y, f0)

	dny, dnf := 0.0, 0.0
	for i := range s.y {
		sk := s.atol + s.rtol*math.Abs(s.y[i])
		dnf += (f0[i] / sk) * (f0[i] / sk)
		dny += (s.y[i] / sk) * (s.y[i] / sk)
	}

	h := 1e-6
	if dnf > 1e-10 && dny > 1e-10 {
		h = 0.01 * math.Sqrt(dny/dnf)
	}
	h = math.Min(h, hMax)
	h = math.Abs(h) * posneg

	copy(y1, s.y)
	y1.AddScaled(h, f0)
	s.sys.Derive(s.x+h, y1, f1)

	der2 := 0.0
	for i := range s.y {
		sk := s.atol + s.rtol*math.Abs(s.y[i])
		d := (f1[i] - f0[i]) / sk
		der2 += d * d
	}
	der2 = math.Abs(math.Sqrt(der2) / h)

	der12 := math.Max(der2, math.Sqrt(dnf))
	var h1 float64
	if der12 <= 1e-15 {
		h1 = math.Max(1e-6, math.Abs(h)*1e-3)
	} else {
		h1 = math.Pow(0.01/der12, 1/float64(s.tab.Order))
	}

	h = math.Min(math.Min(100*math.Abs(h), h1), hMax)
	return h * posneg
}
