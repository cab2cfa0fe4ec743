package analysis

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/san-kum/dopri/internal/dynamo"
)

// PowerSpectrum returns the magnitude of the real FFT of evenly spaced
// samples, one value per non-negative frequency bin (len(data)/2 + 1).
// The mean is removed first so bin 0 does not dominate.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	seq := make([]float64, len(data))
	for i, v := range data {
		seq[i] = v - mean
	}

	coeff := fourier.NewFFT(len(seq)).Coefficients(nil, seq)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantFrequency returns the frequency, in cycles per unit of x, of the
// strongest non-zero bin of samples spaced dx apart.
func DominantFrequency(data []float64, dx float64) (float64, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("%w: need at least 4 samples, got %d", dynamo.ErrParameterBounds, len(data))
	}
	if dx <= 0 {
		return 0, fmt.Errorf("%w: sample spacing must be positive", dynamo.ErrParameterBounds)
	}

	ps := PowerSpectrum(data)
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return fourier.NewFFT(len(data)).Freq(best) / dx, nil
}

// Column extracts component idx of each state.
func Column(states []dynamo.State, idx int) ([]float64, error) {
	out := make([]float64, len(states))
	for i, y := range states {
		if err := checkIndex("state", idx, len(y)); err != nil {
			return nil, err
		}
		out[i] = y[idx]
	}
	return out, nil
}
