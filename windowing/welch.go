package windowing

// NewWelch creates a symmetric Welch (parabolic) window.
func NewWelch(size int) (*Window, error) {
	half := float64(size-1) / 2
	return generate("welch", size, func(i int) float64 {
		x := (float64(i) - half) / half
		return 1 - x*x
	})
}
