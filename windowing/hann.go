package windowing

import "math"

// NewHann creates a symmetric Hann window, the default analysis window of
// the spectral transform.
func NewHann(size int) (*Window, error) {
	n := float64(size - 1)
	return generate("hann", size, func(i int) float64 {
		return 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/n))
	})
}
