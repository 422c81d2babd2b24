// Package pitch estimates the fundamental frequency of monophonic
// recordings from their short-time spectra.
package pitch

import (
	"fmt"
	"math"

	"github.com/rubato-audio/rubato/logging"
	"github.com/rubato-audio/rubato/spectral"
	"github.com/rubato-audio/rubato/timeseries"
)

// NoPitch is the sentinel stored for frames where no fundamental could be
// found. It is a value, not an error; use TimeSeries.ZerosToNaN to exclude
// such frames from statistics.
const NoPitch = 0.0

// Decimation selects how the magnitude spectrum is downsampled before
// each harmonic factor is multiplied into the product.
type Decimation string

const (
	// DecimationDiscard keeps every h-th bin.
	DecimationDiscard Decimation = "discard"
	// DecimationMean averages each run of h consecutive bins.
	DecimationMean Decimation = "mean"
)

// Config controls the harmonic product spectrum estimator.
type Config struct {
	MinF0        float64    `json:"min_f0"`               // lower bound of the f0 search range in Hz
	MaxF0        float64    `json:"max_f0"`               // upper bound of the f0 search range in Hz
	NumHarmonics int        `json:"num_harmonics"`        // downsampling factors multiplied into the product
	Decimation   Decimation `json:"decimation,omitempty"` // downsampling mode; empty means discard
}

// DefaultConfig searches 24-4200 Hz, the full range of conventional
// instruments, using five harmonics.
func DefaultConfig() Config {
	return Config{MinF0: 24, MaxF0: 4200, NumHarmonics: 5, Decimation: DecimationDiscard}
}

// withDefaults fills the optional fields.
func (c Config) withDefaults() Config {
	if c.Decimation == "" {
		c.Decimation = DecimationDiscard
	}
	return c
}

// Validate checks the estimator parameters.
func (c Config) Validate() error {
	if c.MinF0 <= 0 {
		return fmt.Errorf("min f0 must be > 0: %g", c.MinF0)
	}
	if c.MaxF0 <= c.MinF0 {
		return fmt.Errorf("max f0 %g must be greater than min f0 %g", c.MaxF0, c.MinF0)
	}
	if c.NumHarmonics < 1 {
		return fmt.Errorf("num harmonics must be >= 1: %d", c.NumHarmonics)
	}
	switch c.Decimation {
	case DecimationDiscard, DecimationMean:
	default:
		return fmt.Errorf("unknown decimation mode %q", c.Decimation)
	}
	return nil
}

// Estimate runs the harmonic product spectrum over every frame of a
// short-time transform. Per frame, the magnitude spectrum is multiplied
// element-wise with its versions decimated by 2..NumHarmonics, which
// aligns the energy of the harmonics onto the fundamental's bin; the
// strongest bin of the product inside [MinF0, MaxF0] gives the estimate.
//
// The result shares the transform's frame rate and start time, in Hz. A
// frame with no usable bin in range, including the case where the range
// itself is degenerate for the transform's resolution, carries NoPitch.
func Estimate(st *spectral.STFT, cfg Config) (*timeseries.TimeSeries, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lo, hi := searchRange(st.BinWidth(), st.Bins(), cfg)

	data := make([]float64, st.Len())
	for i := range data {
		if k := productPeak(st.MagnitudeAt(i), cfg, lo, hi); k >= 0 {
			data[i] = st.BinFrequency(k)
		}
	}

	logging.Debug("pitch estimated", logging.Fields{
		"frames":        len(data),
		"min_f0":        cfg.MinF0,
		"max_f0":        cfg.MaxF0,
		"num_harmonics": cfg.NumHarmonics,
	})

	return timeseries.New(st.SampleRate(), data,
		timeseries.WithStartTime(st.StartTime()),
		timeseries.WithUnit("Hz"),
		timeseries.WithLabel("pitch (hps)"),
		timeseries.WithOrigin(st.Origin()))
}

// searchRange converts the f0 bounds to an inclusive bin range. DC is
// never a candidate. An empty range (lo > hi) is legal; every frame then
// reports no pitch.
func searchRange(binWidth float64, bins int, cfg Config) (lo, hi int) {
	lo = max(int(math.Ceil(cfg.MinF0/binWidth)), 1)
	hi = min(int(math.Floor(cfg.MaxF0/binWidth)), bins-1)
	return lo, hi
}

// productPeak multiplies the magnitude spectrum with its decimated
// versions and returns the strongest bin in [lo, hi], or -1 when no bin
// in range rises above zero. Bins past the shortest decimated spectrum
// are cleared: an estimate is only trusted where every factor had a say.
func productPeak(mag []float64, cfg Config, lo, hi int) int {
	acc := make([]float64, len(mag))
	copy(acc, mag)
	for h := 2; h <= cfg.NumHarmonics; h++ {
		dec := decimate(mag, h, cfg.Decimation)
		for k := range acc {
			if k < len(dec) {
				acc[k] *= dec[k]
			} else {
				acc[k] = 0
			}
		}
	}

	best, bestVal := -1, 0.0
	for k := lo; k <= hi; k++ {
		if acc[k] > bestVal {
			best, bestVal = k, acc[k]
		}
	}
	return best
}

func decimate(mag []float64, factor int, mode Decimation) []float64 {
	if mode == DecimationMean {
		return decimateMean(mag, factor)
	}
	return decimateDiscard(mag, factor)
}

// decimateDiscard keeps every factor-th bin.
func decimateDiscard(mag []float64, factor int) []float64 {
	out := make([]float64, (len(mag)+factor-1)/factor)
	for i := range out {
		out[i] = mag[i*factor]
	}
	return out
}

// decimateMean averages each run of factor consecutive bins, treating the
// final partial run as zero padded.
func decimateMean(mag []float64, factor int) []float64 {
	out := make([]float64, (len(mag)+factor-1)/factor)
	for i := range out {
		sum := 0.0
		for j := i * factor; j < (i+1)*factor && j < len(mag); j++ {
			sum += mag[j]
		}
		out[i] = sum / float64(factor)
	}
	return out
}
