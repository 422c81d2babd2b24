package windowing

import (
	"fmt"
	"math"
)

// DefaultTukeyAlpha is the taper fraction New uses for the "tukey" window.
const DefaultTukeyAlpha = 0.5

// NewTukey creates a symmetric Tukey (tapered cosine) window: a flat
// middle with cosine tapers together covering alpha of the span. Alpha 0
// is the rectangular window, alpha 1 a full cosine taper equal to Hann.
func NewTukey(size int, alpha float64) (*Window, error) {
	if alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("tukey alpha must be in [0, 1]: %g", alpha)
	}
	if alpha == 0 {
		return generate("tukey", size, func(int) float64 { return 1 })
	}
	n := float64(size - 1)
	return generate("tukey", size, func(i int) float64 {
		x := float64(i) / n
		switch {
		case x < alpha/2:
			return 0.5 * (1 + math.Cos(2*math.Pi/alpha*(x-alpha/2)))
		case x >= 1-alpha/2:
			return 0.5 * (1 + math.Cos(2*math.Pi/alpha*(x-1+alpha/2)))
		default:
			return 1
		}
	})
}
