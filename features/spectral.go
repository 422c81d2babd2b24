package features

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/rubato-audio/rubato/aggregation"
	"github.com/rubato-audio/rubato/spectral"
	"github.com/rubato-audio/rubato/timeseries"
)

// FluxMethod selects how SpectralFlux compares successive frames.
type FluxMethod string

const (
	// FluxHWR sums the half-wave rectified bin differences, so only energy
	// increases count. Onsets show up as peaks.
	FluxHWR FluxMethod = "hwr"
	// FluxCorrelation computes the Pearson correlation between successive
	// magnitude frames. Stationary sound stays near 1.
	FluxCorrelation FluxMethod = "correlation"
)

// HFCMethod selects the bin weighting HFC applies.
type HFCMethod string

const (
	// HFCEnergy weights squared magnitudes.
	HFCEnergy HFCMethod = "energy"
	// HFCAmplitude weights plain magnitudes.
	HFCAmplitude HFCMethod = "amplitude"
)

// SpectralCentroid computes the magnitude-weighted mean frequency of every
// frame in Hz. Frames with no spectral content yield 0.
func SpectralCentroid(st *spectral.STFT) (*timeseries.TimeSeries, error) {
	mag, err := st.Magnitude()
	if err != nil {
		return nil, err
	}
	freqs := st.Frequencies()
	out, err := aggregation.MapFrames(mag, func(frame []float64) float64 {
		total := floats.Sum(frame)
		if total == 0 {
			return 0
		}
		return floats.Dot(freqs, frame) / total
	})
	if err != nil {
		return nil, err
	}
	return out.Relabel("spectral centroid", "Hz"), nil
}

// SpectralSpread computes the magnitude-weighted standard deviation of
// frequency around the spectral centroid, in Hz. Frames with no spectral
// content yield 0.
func SpectralSpread(st *spectral.STFT) (*timeseries.TimeSeries, error) {
	mag, err := st.Magnitude()
	if err != nil {
		return nil, err
	}
	freqs := st.Frequencies()
	out, err := aggregation.MapFrames(mag, func(frame []float64) float64 {
		total := floats.Sum(frame)
		if total == 0 {
			return 0
		}
		mean := floats.Dot(freqs, frame) / total
		var sq float64
		for k, w := range frame {
			d := freqs[k] - mean
			sq += w * d * d
		}
		return math.Sqrt(sq / total)
	})
	if err != nil {
		return nil, err
	}
	return out.Relabel("spectral spread", "Hz"), nil
}

// SpectralSkewness computes the skewness of the distribution of magnitude
// values in every frame. Tonal frames, where a few strong bins sit far
// above the rest, score high positive. Flat frames yield 0.
func SpectralSkewness(st *spectral.STFT) (*timeseries.TimeSeries, error) {
	mag, err := st.Magnitude()
	if err != nil {
		return nil, err
	}
	out, err := aggregation.MapFrames(mag, func(frame []float64) float64 {
		if stat.StdDev(frame, nil) == 0 {
			return 0
		}
		return stat.Skew(frame, nil)
	})
	if err != nil {
		return nil, err
	}
	return out.Relabel("spectral skewness", ""), nil
}

// SpectralKurtosis computes the kurtosis of the distribution of magnitude
// values in every frame. A Gaussian magnitude distribution scores 3; peaky
// tonal frames score far higher. Flat frames yield 0.
func SpectralKurtosis(st *spectral.STFT) (*timeseries.TimeSeries, error) {
	mag, err := st.Magnitude()
	if err != nil {
		return nil, err
	}
	out, err := aggregation.MapFrames(mag, func(frame []float64) float64 {
		if stat.StdDev(frame, nil) == 0 {
			return 0
		}
		return stat.ExKurtosis(frame, nil) + 3
	})
	if err != nil {
		return nil, err
	}
	return out.Relabel("spectral kurtosis", ""), nil
}

// SpectralFlatness computes the ratio of the geometric to the arithmetic
// mean of the magnitude spectrum, in dB. A flat spectrum scores 0 dB; a
// pure tone scores far below. Silent frames yield 0.
func SpectralFlatness(st *spectral.STFT) (*timeseries.TimeSeries, error) {
	mag, err := st.Magnitude()
	if err != nil {
		return nil, err
	}
	out, err := aggregation.MapFrames(mag, func(frame []float64) float64 {
		mean := stat.Mean(frame, nil)
		if mean == 0 {
			return 0
		}
		return 10 * math.Log10(stat.GeometricMean(frame, nil)/mean)
	})
	if err != nil {
		return nil, err
	}
	return out.Relabel("spectral flatness", "dB"), nil
}

// SpectralEntropy computes the normalized entropy of the power distribution
// across bins: 0 for a single concentrated peak, 1 for a uniform spectrum.
// Silent frames yield 0.
func SpectralEntropy(st *spectral.STFT) (*timeseries.TimeSeries, error) {
	pw, err := st.Power()
	if err != nil {
		return nil, err
	}
	out, err := aggregation.MapFrames(pw, func(frame []float64) float64 {
		total := floats.Sum(frame)
		if total == 0 || len(frame) < 2 {
			return 0
		}
		p := make([]float64, len(frame))
		for k, v := range frame {
			p[k] = v / total
		}
		return stat.Entropy(p) / math.Log(float64(len(frame)))
	})
	if err != nil {
		return nil, err
	}
	return out.Relabel("spectral entropy", ""), nil
}

// SpectralEnergy computes the total energy of every frame: the sum of
// squared magnitudes over all bins.
func SpectralEnergy(st *spectral.STFT) (*timeseries.TimeSeries, error) {
	pw, err := st.Power()
	if err != nil {
		return nil, err
	}
	out, err := aggregation.MapFrames(pw, floats.Sum)
	if err != nil {
		return nil, err
	}
	return out.Relabel("spectral energy", ""), nil
}

// SpectralFlux measures frame-to-frame spectral change. The result has one
// sample fewer than the transform and is stamped at the later frame of each
// pair. An empty method defaults to FluxHWR.
func SpectralFlux(st *spectral.STFT, method FluxMethod) (*timeseries.TimeSeries, error) {
	mag, err := st.Magnitude()
	if err != nil {
		return nil, err
	}
	var fn func(prev, cur []float64) float64
	switch method {
	case FluxHWR, "":
		fn = func(prev, cur []float64) float64 {
			var sum float64
			for k := range cur {
				if d := cur[k] - prev[k]; d > 0 {
					sum += d
				}
			}
			return sum
		}
	case FluxCorrelation:
		fn = func(prev, cur []float64) float64 {
			return stat.Correlation(prev, cur, nil)
		}
	default:
		return nil, fmt.Errorf("unknown flux method %q", method)
	}
	out, err := aggregation.Pairwise(mag, fn)
	if err != nil {
		return nil, err
	}
	return out.Relabel("spectral flux", ""), nil
}

// HFC computes the high-frequency content of every frame: bin values
// weighted by their one-based bin number and averaged over the bins.
// Brightness and broadband noise both push it up. An empty method defaults
// to HFCEnergy.
func HFC(st *spectral.STFT, method HFCMethod) (*timeseries.TimeSeries, error) {
	mag, err := st.Magnitude()
	if err != nil {
		return nil, err
	}
	var weigh func(k int, v float64) float64
	switch method {
	case HFCEnergy, "":
		weigh = func(k int, v float64) float64 { return float64(k+1) * v * v }
	case HFCAmplitude:
		weigh = func(k int, v float64) float64 { return float64(k+1) * v }
	default:
		return nil, fmt.Errorf("unknown hfc method %q", method)
	}
	out, err := aggregation.MapFrames(mag, func(frame []float64) float64 {
		var sum float64
		for k, v := range frame {
			sum += weigh(k, v)
		}
		return sum / float64(len(frame))
	})
	if err != nil {
		return nil, err
	}
	return out.Relabel("high-frequency content", ""), nil
}
