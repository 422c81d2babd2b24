// Package spectral computes frame-indexed spectra from scalar series. The
// short-time transform frames its input through the aggregation engine, so
// spectral series carry the same timing as every other framed feature.
package spectral

import "github.com/mjibson/go-dsp/fft"

// FFT wraps the transform backend. go-dsp handles arbitrary transform
// sizes, so analysis settings are not restricted to powers of two.
type FFT struct{}

// NewFFT creates a new FFT calculator.
func NewFFT() *FFT {
	return &FFT{}
}

// Forward transforms a real signal and returns the full complex spectrum,
// negative frequencies included.
func (f *FFT) Forward(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// Inverse transforms a complex spectrum back to the time domain.
func (f *FFT) Inverse(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.IFFT(x)
}

// InverseReal transforms a complex spectrum back to the time domain and
// keeps the real part, the usual form for spectra of real signals.
func (f *FFT) InverseReal(x []complex128) []float64 {
	if len(x) == 0 {
		return []float64{}
	}
	result := fft.IFFT(x)
	realResult := make([]float64, len(result))
	for i, val := range result {
		realResult[i] = real(val)
	}
	return realResult
}
