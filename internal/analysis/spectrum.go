package analysis

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/throwsim/internal/flight"
)

// Spectrum is a one-sided power spectrum over the run's sample cadence.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// SpinSpectrum transforms cos(theta) over the trajectory. A body
// spinning at constant omega shows a single line at omega/2pi, which
// makes this a blunt but effective check that the spin stayed uniform.
func SpinSpectrum(r *flight.Result) *Spectrum {
	if r.Len() < 4 || len(r.Times) < 2 {
		return &Spectrum{}
	}

	samples := make([]float64, r.Len())
	for i, x := range r.States {
		samples[i] = math.Cos(x[flight.ITheta])
	}

	dt := r.Times[1] - r.Times[0]
	return powerSpectrum(samples, dt)
}

// SeriesSpectrum transforms one state component directly.
func SeriesSpectrum(r *flight.Result, idx int) *Spectrum {
	if r.Len() < 4 || len(r.Times) < 2 || idx < 0 {
		return &Spectrum{}
	}

	samples := make([]float64, r.Len())
	for i, x := range r.States {
		samples[i] = x[idx]
	}

	dt := r.Times[1] - r.Times[0]
	return powerSpectrum(samples, dt)
}

func powerSpectrum(samples []float64, dt float64) *Spectrum {
	n := len(samples)

	// Remove the mean so the DC bin does not bury the spin line.
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)
	for i := range samples {
		samples[i] -= mean
	}

	coeffs := fft.FFTReal(samples)

	half := n / 2
	s := &Spectrum{
		Freqs: make([]float64, half),
		Power: make([]float64, half),
	}
	for k := 0; k < half; k++ {
		s.Freqs[k] = float64(k) / (float64(n) * dt)
		re := real(coeffs[k])
		im := imag(coeffs[k])
		s.Power[k] = math.Sqrt(re*re + im*im)
	}
	return s
}

// PeakFrequency returns the frequency of the strongest non-DC line.
func (s *Spectrum) PeakFrequency() float64 {
	best := 0.0
	bestPower := 0.0
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > bestPower {
			bestPower = s.Power[k]
			best = s.Freqs[k]
		}
	}
	return best
}

// Resolution returns the frequency spacing between bins.
func (s *Spectrum) Resolution() float64 {
	if len(s.Freqs) < 2 {
		return 0
	}
	return s.Freqs[1] - s.Freqs[0]
}
