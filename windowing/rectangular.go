package windowing

// NewRectangular creates a rectangular (boxcar) window. Applying it leaves
// the signal untouched, which makes it the natural default for plain
// sliding-window statistics.
func NewRectangular(size int) (*Window, error) {
	return generate("rectangular", size, func(int) float64 { return 1 })
}
