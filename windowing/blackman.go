package windowing

import "math"

// NewBlackman creates a symmetric Blackman window.
func NewBlackman(size int) (*Window, error) {
	n := float64(size - 1)
	return generate("blackman", size, func(i int) float64 {
		x := float64(i) / n
		return 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	})
}
