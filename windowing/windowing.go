// Package windowing provides the window functions applied to analysis
// frames before aggregation or spectral transform. All windows use the
// symmetric definition; coefficients are precomputed at construction.
package windowing

import (
	"fmt"
	"strings"
)

// Window is a named set of precomputed window coefficients.
type Window struct {
	name         string
	coefficients []float64
}

// New creates a window by name, the form configuration surfaces use.
// Recognized names: rectangular, hann, hamming, blackman, blackmanharris,
// bartlett, welch, kaiser, tukey. The parameterized families use
// DefaultKaiserBeta and DefaultTukeyAlpha here; call NewKaiser or NewTukey
// directly to choose the shape.
func New(name string, size int) (*Window, error) {
	switch strings.ToLower(name) {
	case "rectangular", "rect", "boxcar":
		return NewRectangular(size)
	case "hann", "hanning":
		return NewHann(size)
	case "hamming":
		return NewHamming(size)
	case "blackman":
		return NewBlackman(size)
	case "blackmanharris", "blackman-harris":
		return NewBlackmanHarris(size)
	case "bartlett", "triangular":
		return NewBartlett(size)
	case "welch":
		return NewWelch(size)
	case "kaiser":
		return NewKaiser(size, DefaultKaiserBeta)
	case "tukey":
		return NewTukey(size, DefaultTukeyAlpha)
	default:
		return nil, fmt.Errorf("unknown window %q (have rectangular, hann, hamming, blackman, blackmanharris, bartlett, welch, kaiser, tukey)", name)
	}
}

// generate builds a window of the given size from a shape function over
// i/(size-1). A one-sample window is the unit coefficient for every shape.
func generate(name string, size int, shape func(i int) float64) (*Window, error) {
	if size < 1 {
		return nil, fmt.Errorf("window size must be >= 1: %d", size)
	}
	coefficients := make([]float64, size)
	if size == 1 {
		coefficients[0] = 1
		return &Window{name: name, coefficients: coefficients}, nil
	}
	for i := 0; i < size; i++ {
		coefficients[i] = shape(i)
	}
	return &Window{name: name, coefficients: coefficients}, nil
}

// Name returns the window's name.
func (w *Window) Name() string { return w.name }

// Size returns the number of coefficients.
func (w *Window) Size() int { return len(w.coefficients) }

// Coefficients returns a copy of the window coefficients.
func (w *Window) Coefficients() []float64 {
	coefficients := make([]float64, len(w.coefficients))
	copy(coefficients, w.coefficients)
	return coefficients
}

// Apply multiplies the window into a copy of the signal.
func (w *Window) Apply(signal []float64) ([]float64, error) {
	if len(signal) != len(w.coefficients) {
		return nil, fmt.Errorf("signal length %d does not match window size %d", len(signal), len(w.coefficients))
	}
	windowed := make([]float64, len(signal))
	for i, v := range signal {
		windowed[i] = v * w.coefficients[i]
	}
	return windowed, nil
}

// ApplyInPlace multiplies the window into the signal.
func (w *Window) ApplyInPlace(signal []float64) error {
	if len(signal) != len(w.coefficients) {
		return fmt.Errorf("signal length %d does not match window size %d", len(signal), len(w.coefficients))
	}
	for i := range signal {
		signal[i] *= w.coefficients[i]
	}
	return nil
}
