// Package harmonics tracks the spectral partials of a pitched recording
// over time. Given a short-time transform and the pitch curve estimated
// from it, the tracker locates the peak near every integer multiple of the
// fundamental and follows its frequency, magnitude and phase frame by
// frame.
package harmonics

import (
	"fmt"
	"math"

	"github.com/rubato-audio/rubato/logging"
	"github.com/rubato-audio/rubato/spectral"
	"github.com/rubato-audio/rubato/timeseries"
)

// NoData is the sentinel stored in all three series for a partial that
// could not be measured: the frame has no pitch, or the partial lies past
// the transform's Nyquist bin.
const NoData = 0.0

// Config controls the partial tracker.
type Config struct {
	NumPartials  int     `json:"num_partials"`  // partials tracked per frame, fundamental included
	RelTolerance float64 `json:"rel_tolerance"` // peak search half-width around p*f0, relative to f0
	Refine       bool    `json:"refine"`        // parabolic sub-bin refinement of located peaks
}

// DefaultConfig tracks sixteen partials inside a 4% band, refined.
func DefaultConfig() Config {
	return Config{NumPartials: 16, RelTolerance: 0.04, Refine: true}
}

// Validate checks the tracker parameters.
func (c Config) Validate() error {
	if c.NumPartials < 1 {
		return fmt.Errorf("num partials must be >= 1: %d", c.NumPartials)
	}
	if c.RelTolerance <= 0 {
		return fmt.Errorf("rel tolerance must be > 0: %g", c.RelTolerance)
	}
	return nil
}

// Set holds the tracker output as three parallel vector series, one value
// per partial per frame. All three share the source transform's timing, so
// any of them aligns with features computed at the same hop.
type Set struct {
	Frequency *timeseries.FrameSeries // partial frequencies in Hz
	Magnitude *timeseries.FrameSeries // spectral magnitudes at the partials
	Phase     *timeseries.FrameSeries // phases at the partials in radians
}

// Len returns the number of frames.
func (s *Set) Len() int { return s.Frequency.Len() }

// NumPartials returns the number of tracked partials.
func (s *Set) NumPartials() int { return s.Frequency.Dim() }

// Partial returns the scalar frequency, magnitude and phase series of
// partial p, counting from 1 for the fundamental.
func (s *Set) Partial(p int) (freq, mag, phase *timeseries.TimeSeries, err error) {
	if p < 1 || p > s.NumPartials() {
		return nil, nil, nil, fmt.Errorf("%w: partial %d of %d", timeseries.ErrOutOfRange, p, s.NumPartials())
	}
	if freq, err = s.Frequency.Component(p - 1); err != nil {
		return nil, nil, nil, err
	}
	if mag, err = s.Magnitude.Component(p - 1); err != nil {
		return nil, nil, nil, err
	}
	if phase, err = s.Phase.Component(p - 1); err != nil {
		return nil, nil, nil, err
	}
	return freq, mag, phase, nil
}

// Extract tracks the partials of every frame of a short-time transform.
// The pitch series must carry the transform's exact timing, one estimate
// per frame, and the same recording origin.
//
// Per frame, each partial p in 1..NumPartials is expected at p*f0. The
// strongest local maximum of the magnitude spectrum within the tolerance
// band around that position is taken as the partial; when the band holds
// no peak, the bin nearest the expected position is read directly. Frames
// whose pitch is the no-pitch sentinel (or not a number) record NoData for
// every partial, as do partials expected past the Nyquist bin.
func Extract(st *spectral.STFT, p *timeseries.TimeSeries, cfg Config) (*Set, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if st.Origin() != p.Origin() {
		return nil, fmt.Errorf("%w: transform origin %q, pitch origin %q",
			timeseries.ErrIncompatibleOrigin, st.Origin(), p.Origin())
	}
	if err := timeseries.CheckAlignment(st, p); err != nil {
		return nil, err
	}

	n := st.Len()
	freqRows := make([][]float64, n)
	magRows := make([][]float64, n)
	phaseRows := make([][]float64, n)

	for i := 0; i < n; i++ {
		freqRows[i] = make([]float64, cfg.NumPartials)
		magRows[i] = make([]float64, cfg.NumPartials)
		phaseRows[i] = make([]float64, cfg.NumPartials)

		f0 := p.At(i)
		if !(f0 > 0) {
			continue
		}
		framePartials(st, i, f0, cfg, freqRows[i], magRows[i], phaseRows[i])
	}

	logging.Debug("harmonics extracted", logging.Fields{
		"frames":   n,
		"partials": cfg.NumPartials,
	})

	set := &Set{}
	var err error
	set.Frequency, err = newPartialSeries(st, cfg.NumPartials, freqRows, "harmonic frequency", "Hz")
	if err != nil {
		return nil, err
	}
	set.Magnitude, err = newPartialSeries(st, cfg.NumPartials, magRows, "harmonic magnitude", "")
	if err != nil {
		return nil, err
	}
	set.Phase, err = newPartialSeries(st, cfg.NumPartials, phaseRows, "harmonic phase", "rad")
	if err != nil {
		return nil, err
	}
	return set, nil
}

// framePartials measures every partial of one frame into the given rows.
func framePartials(st *spectral.STFT, i int, f0 float64, cfg Config, freq, mag, phase []float64) {
	magSpec := st.MagnitudeAt(i)
	phaseSpec := st.PhaseAt(i)
	binWidth := st.BinWidth()
	bins := st.Bins()

	f0Bin := f0 / binWidth
	delta := max(f0Bin*cfg.RelTolerance, 1)

	for partial := 1; partial <= cfg.NumPartials; partial++ {
		expected := float64(partial) * f0Bin
		if expected >= float64(bins) {
			// Past Nyquist; this and every later partial stay NoData.
			break
		}

		lo := max(int(expected-delta), 0)
		hi := min(int(expected+delta), bins)

		k := highestPeak(magSpec, lo, hi)
		located := k >= 0
		if !located {
			k = min(int(math.Round(expected)), bins-1)
		}

		f := float64(k) * binWidth
		m := magSpec[k]
		if located && cfg.Refine && k > 0 && k < bins-1 {
			offset, value := refinePeak(magSpec, k)
			f = (float64(k) + offset) * binWidth
			m = value
		}

		freq[partial-1] = f
		mag[partial-1] = m
		phase[partial-1] = phaseSpec[k]
	}
}

// highestPeak returns the index of the strongest local maximum interior to
// mag[lo:hi], or -1 when the band holds none. A local maximum rises from
// its left neighbor and falls to its right one.
func highestPeak(mag []float64, lo, hi int) int {
	best := -1
	for k := lo + 1; k <= hi-2; k++ {
		if mag[k] >= mag[k-1] && mag[k] > mag[k+1] {
			if best < 0 || mag[k] > mag[best] {
				best = k
			}
		}
	}
	return best
}

// refinePeak fits a parabola through bin k and its neighbors. It returns
// the fractional bin offset of the vertex, inside [-0.5, 0.5] for a true
// local maximum, and the interpolated magnitude there.
func refinePeak(mag []float64, k int) (offset, value float64) {
	y1, y2, y3 := mag[k-1], mag[k], mag[k+1]
	denom := 2 * (2*y2 - y1 - y3)
	if math.Abs(denom) <= 1e-10 {
		return 0, y2
	}
	offset = (y3 - y1) / denom
	a := 0.5 * (y1 - 2*y2 + y3)
	b := 0.5 * (y3 - y1)
	return offset, y2 + a*offset*offset + b*offset
}

// newPartialSeries shapes tracker rows into a FrameSeries carrying the
// transform's timing.
func newPartialSeries(st *spectral.STFT, dim int, rows [][]float64, label, unit string) (*timeseries.FrameSeries, error) {
	return timeseries.NewFrames(st.SampleRate(), dim, rows,
		timeseries.WithStartTime(st.StartTime()),
		timeseries.WithOrigin(st.Origin()),
		timeseries.WithLabel(label),
		timeseries.WithUnit(unit))
}
