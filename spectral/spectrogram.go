package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/rubato-audio/rubato/timeseries"
)

// Spectrogram computes the short-time transform and returns bin magnitudes
// raised to the given power as a FrameSeries: 1 for a magnitude
// spectrogram, 2 for a power spectrogram.
func Spectrogram(src *timeseries.TimeSeries, cfg Config, power float64) (*timeseries.FrameSeries, error) {
	if power <= 0 {
		return nil, fmt.Errorf("spectrogram power must be > 0: %g", power)
	}
	st, err := Compute(src, cfg)
	if err != nil {
		return nil, err
	}
	switch power {
	case 1:
		return st.Magnitude()
	case 2:
		return st.Power()
	default:
		return st.view("spectrogram", func(c complex128) float64 {
			return math.Pow(cmplx.Abs(c), power)
		})
	}
}
