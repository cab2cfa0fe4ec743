package integrators

import (
	"testing"

	"github.com/san-kum/dopri/internal/dynamo"
)

func benchNBody() dynamo.System {
	return dynamo.Func(20, func(_ float64, x, dx dynamo.State) {
		for i := 0; i < 5; i++ {
			dx[i*4] = x[i*4+2]
			dx[i*4+1] = x[i*4+3]
			dx[i*4+2] = -x[i*4] * 0.1
			dx[i*4+3] = -x[i*4+1] * 0.1
		}
	})
}

func BenchmarkDopri5(b *testing.B) {
	sys := harmonic()
	y0 := dynamo.State{1, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := NewDopri5(sys, 0, 10, 0.1, y0, 1e-8, 1e-8)
		if _, err := s.Integrate(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDop853(b *testing.B) {
	sys := harmonic()
	y0 := dynamo.State{1, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := NewDop853(sys, 0, 10, 0.1, y0, 1e-8, 1e-8)
		if _, err := s.Integrate(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDopri5_NBody5(b *testing.B) {
	benchmarkNBody(b, Dopri5)
}

func BenchmarkDop853_NBody5(b *testing.B) {
	benchmarkNBody(b, Dop853)
}

func benchmarkNBody(b *testing.B, m Method) {
	sys := benchNBody()
	y0 := make(dynamo.State, 20)
	for i := range y0 {
		y0[i] = float64(i) * 0.1
	}
	p := m.DefaultParams(0, 50)
	p.OutType = dynamo.Sparse

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := m.New(sys, 0, 50, 0, y0, 1e-10, 1e-10, p)
		if _, err := s.Integrate(); err != nil {
			b.Fatal(err)
		}
	}
}
