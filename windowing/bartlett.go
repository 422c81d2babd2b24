package windowing

import "math"

// NewBartlett creates a symmetric Bartlett (triangular) window with zero
// endpoints.
func NewBartlett(size int) (*Window, error) {
	n := float64(size - 1)
	return generate("bartlett", size, func(i int) float64 {
		return 1 - math.Abs(2*float64(i)/n-1)
	})
}
