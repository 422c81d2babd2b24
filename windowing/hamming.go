package windowing

import "math"

// NewHamming creates a symmetric Hamming window.
func NewHamming(size int) (*Window, error) {
	n := float64(size - 1)
	return generate("hamming", size, func(i int) float64 {
		return 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/n)
	})
}
