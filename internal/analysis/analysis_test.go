package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/dopri/internal/dynamo"
	"github.com/san-kum/dopri/internal/integrators"
	"github.com/san-kum/dopri/internal/physics"
)

var tight = Options{Method: integrators.Dop853, RTol: 1e-10, ATol: 1e-10}

func TestPhasePortrait(t *testing.T) {
	states := []dynamo.State{{1, 0}, {0, -1}, {-1, 0}, {0, 1}}

	p, err := NewPhasePortrait(states, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []Point{{1, 0}, {0, -1}, {-1, 0}, {0, 1}}, p.Points)

	art := p.ASCII(40, 10)
	assert.Len(t, strings.Split(strings.TrimRight(art, "\n"), "\n"), 10)
	assert.Equal(t, 4, strings.Count(art, "•"))

	_, err = NewPhasePortrait(states, 0, 2)
	assert.True(t, errors.Is(err, dynamo.ErrParameterBounds))
}

func TestPoincareSectionHarmonic(t *testing.T) {
	// v = -sin t crosses zero upward at odd multiples of pi, where x = -1
	section, err := PoincareSectionOf(tight, physics.NewHarmonic(), 0, 20, dynamo.State{1, 0},
		Crossing{Index: 1, Value: 0}, 0, 1)
	require.NoError(t, err)
	require.Len(t, section.Times, 3)

	for i, tc := range section.Times {
		assert.InDelta(t, float64(2*i+1)*math.Pi, tc, 1e-8)
		assert.InDelta(t, -1.0, section.Points[i].X, 1e-8)
		assert.InDelta(t, 0.0, section.Points[i].Y, 1e-8)
	}
}

func TestPoincareSectionBadIndex(t *testing.T) {
	_, err := PoincareSectionOf(tight, physics.NewHarmonic(), 0, 1, dynamo.State{1, 0},
		Crossing{Index: 5}, 0, 1)
	assert.True(t, errors.Is(err, dynamo.ErrParameterBounds))
}

func TestDominantFrequency(t *testing.T) {
	const dx = 0.01
	data := make([]float64, 1000)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*5*float64(i)*dx)
	}

	f, err := DominantFrequency(data, dx)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, f, 1e-9)

	ps := PowerSpectrum(data)
	assert.Len(t, ps, 501)
	assert.Less(t, ps[0], 1e-9)

	_, err = DominantFrequency(data[:2], dx)
	assert.Error(t, err)
}

func TestSpectrumOfIntegratedOscillator(t *testing.T) {
	h := physics.NewHarmonic()
	require.NoError(t, h.SetParam("omega", 2*math.Pi))

	s := integrators.NewDopri5(h, 0, 10.23, 0.01, h.DefaultState(), 1e-9, 1e-9)
	_, err := s.Integrate()
	require.NoError(t, err)

	xs, err := Column(s.YOut(), 0)
	require.NoError(t, err)
	f, err := DominantFrequency(xs, 0.01)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, f, 0.1)
}

func TestLargestLyapunovDecay(t *testing.T) {
	// separation of two decaying solutions shrinks like exp(-rate t)
	lambda, err := LargestLyapunov(tight, physics.NewDecay(), dynamo.State{1}, 0, 10, 1, 1e-6)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, lambda, 1e-4)
}

func TestLargestLyapunovLorenz(t *testing.T) {
	lambda, err := LargestLyapunov(tight, physics.NewLorenz(), dynamo.State{1, 1, 1}, 0, 50, 1, 1e-8)
	require.NoError(t, err)
	assert.Greater(t, lambda, 0.0)
}

func TestLargestLyapunovValidation(t *testing.T) {
	_, err := LargestLyapunov(tight, physics.NewDecay(), dynamo.State{1}, 0, 10, 0, 1e-6)
	assert.True(t, errors.Is(err, dynamo.ErrParameterBounds))

	_, err = LargestLyapunov(tight, physics.NewDecay(), dynamo.State{1}, 1, 1, 1, 1e-6)
	assert.True(t, errors.Is(err, dynamo.ErrParameterBounds))
}

func TestBifurcationHarmonic(t *testing.T) {
	newModel := func() physics.Model { return physics.NewHarmonic() }
	points, err := BifurcationDiagram(tight, newModel, Sweep{
		Param:  "omega",
		Values: []float64{1, 2},
		Index:  0,
		Record: 20,
		Dx:     0.01,
	})
	require.NoError(t, err)
	require.Len(t, points, 2)

	for _, p := range points {
		require.Len(t, p.Values, 1, "omega = %g", p.Param)
		assert.InDelta(t, 1.0, p.Values[0], 1e-4)
	}
	assert.NotEmpty(t, BifurcationASCII(points, 30, 8))
}

func TestBifurcationUnknownParam(t *testing.T) {
	newModel := func() physics.Model { return physics.NewHarmonic() }
	_, err := BifurcationDiagram(tight, newModel, Sweep{Param: "mass", Values: []float64{1}, Record: 1, Dx: 0.1})
	assert.True(t, errors.Is(err, dynamo.ErrParameterBounds))
}

func TestDistinctMaxima(t *testing.T) {
	samples := []float64{0, 1, 0, 1.0001, 0, 2, 2, 0}
	assert.Equal(t, []float64{1, 2}, distinctMaxima(samples))
}
