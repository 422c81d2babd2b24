package pitch

import (
	"fmt"
	"math"

	"github.com/rubato-audio/rubato/timeseries"
)

// DefaultDeltaMax is the relative deviation above which a pitch value is
// treated as an excursion from its neighborhood.
const DefaultDeltaMax = 0.04

// Filter smooths a raw pitch curve. Two rules, both evaluated against the
// unfiltered samples: a value whose neighbors agree with each other within
// deltaMax but disagree with it is replaced by their average, and a lone
// voiced value between two NoPitch frames is cleared to NoPitch. The first
// rule removes octave spikes, the second isolated misdetections in
// silence. Timing and metadata are preserved.
func Filter(p *timeseries.TimeSeries, deltaMax float64) (*timeseries.TimeSeries, error) {
	if deltaMax <= 0 {
		return nil, fmt.Errorf("delta max must be > 0: %g", deltaMax)
	}

	d := p.Data()
	out := make([]float64, len(d))
	copy(out, d)

	at := func(i int) float64 {
		if i < 0 || i >= len(d) {
			return NoPitch
		}
		return d[i]
	}

	for i, cur := range d {
		prev, next := at(i-1), at(i+1)

		neighborsAgree := math.Abs(next-prev) < (next+prev)/2*deltaMax
		deviates := math.Abs(cur-prev) > cur*deltaMax || math.Abs(cur-next) > cur*deltaMax
		if neighborsAgree && deviates {
			out[i] = (prev + next) / 2
		}

		if prev == NoPitch && next == NoPitch {
			out[i] = NoPitch
		}
	}

	return timeseries.New(p.SampleRate(), out,
		timeseries.WithStartTime(p.StartTime()),
		timeseries.WithUnit(p.Unit()),
		timeseries.WithLabel(p.Label()),
		timeseries.WithOrigin(p.Origin()))
}
