package features

import (
	"gonum.org/v1/gonum/floats"

	"github.com/rubato-audio/rubato/aggregation"
	"github.com/rubato-audio/rubato/harmonics"
	"github.com/rubato-audio/rubato/spectral"
	"github.com/rubato-audio/rubato/timeseries"
)

// HarmonicCentroid computes the magnitude-weighted mean frequency of the
// tracked partials in every frame, in Hz. Unvoiced frames yield 0.
func HarmonicCentroid(set *harmonics.Set) (*timeseries.TimeSeries, error) {
	freq, mag := set.Frequency, set.Magnitude
	data := make([]float64, freq.Len())
	for i := range data {
		f, a := freq.Frame(i), mag.Frame(i)
		total := floats.Sum(a)
		if total == 0 {
			continue
		}
		data[i] = floats.Dot(f, a) / total
	}
	return timeseries.New(freq.SampleRate(), data,
		timeseries.WithStartTime(freq.StartTime()),
		timeseries.WithOrigin(freq.Origin()),
		timeseries.WithLabel("harmonic centroid"),
		timeseries.WithUnit("Hz"))
}

// HarmonicEnergy computes the summed squared magnitude of the tracked
// partials in every frame.
func HarmonicEnergy(set *harmonics.Set) (*timeseries.TimeSeries, error) {
	out, err := aggregation.MapFrames(set.Magnitude, func(frame []float64) float64 {
		return floats.Dot(frame, frame)
	})
	if err != nil {
		return nil, err
	}
	return out.Relabel("harmonic energy", ""), nil
}

// Noisiness computes the fraction of each frame's spectral energy that sits
// outside the tracked partials: (total - harmonic) / total. Purely harmonic
// sound scores near 0, noise near 1. Frames with zero spectral energy
// yield NaN.
func Noisiness(st *spectral.STFT, set *harmonics.Set) (*timeseries.TimeSeries, error) {
	se, err := SpectralEnergy(st)
	if err != nil {
		return nil, err
	}
	he, err := HarmonicEnergy(set)
	if err != nil {
		return nil, err
	}
	out, err := timeseries.Combine(se, he, func(total, harmonic float64) float64 {
		return (total - harmonic) / total
	})
	if err != nil {
		return nil, err
	}
	return out.Relabel("noisiness", ""), nil
}

// OddToEvenRatio computes the energy of the odd-numbered partials over the
// energy of the even-numbered ones in every frame. Clarinet-like spectra,
// with weak even partials, score high. Frames whose even partials carry no
// energy yield 0.
func OddToEvenRatio(set *harmonics.Set) (*timeseries.TimeSeries, error) {
	out, err := aggregation.MapFrames(set.Magnitude, func(frame []float64) float64 {
		var odd, even float64
		for p, a := range frame {
			if p%2 == 0 { // column p holds partial p+1
				odd += a * a
			} else {
				even += a * a
			}
		}
		if even == 0 {
			return 0
		}
		return odd / even
	})
	if err != nil {
		return nil, err
	}
	return out.Relabel("odd-to-even ratio", ""), nil
}
