package windowing

import "math"

// NewBlackmanHarris creates a symmetric 4-term Blackman-Harris window,
// useful when sidelobe leakage matters more than main-lobe width.
func NewBlackmanHarris(size int) (*Window, error) {
	const (
		a0 = 0.35875
		a1 = 0.48829
		a2 = 0.14128
		a3 = 0.01168
	)
	n := float64(size - 1)
	return generate("blackmanharris", size, func(i int) float64 {
		x := float64(i) / n
		return a0 - a1*math.Cos(2*math.Pi*x) + a2*math.Cos(4*math.Pi*x) - a3*math.Cos(6*math.Pi*x)
	})
}
