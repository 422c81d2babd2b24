// Package features computes descriptive curves from audio and its spectral
// views: amplitude envelopes from the raw signal, per-frame statistics of
// the magnitude spectrum, and descriptors of tracked harmonics. Every
// extractor returns a labeled TimeSeries whose timing matches its input,
// so curves from the same recording line up frame for frame.
package features

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/rubato-audio/rubato/aggregation"
	"github.com/rubato-audio/rubato/timeseries"
)

// RMS computes the root-mean-square amplitude of every window.
func RMS(src *timeseries.TimeSeries, cfg aggregation.Config) (*timeseries.TimeSeries, error) {
	out, err := aggregation.Aggregate(src, cfg, func(frame []float64) float64 {
		return math.Sqrt(floats.Dot(frame, frame) / float64(len(frame)))
	})
	if err != nil {
		return nil, err
	}
	return out.Relabel("rms", "amplitude"), nil
}

// PeakEnvelope computes the largest absolute sample of every window.
func PeakEnvelope(src *timeseries.TimeSeries, cfg aggregation.Config) (*timeseries.TimeSeries, error) {
	out, err := aggregation.Aggregate(src, cfg, func(frame []float64) float64 {
		return floats.Norm(frame, math.Inf(1))
	})
	if err != nil {
		return nil, err
	}
	return out.Relabel("peak envelope", "amplitude"), nil
}

// ZCR computes the zero-crossing rate of every window in crossings per
// second. Only strictly signed sample pairs count, so a crossing through
// an exactly zero sample does not register.
func ZCR(src *timeseries.TimeSeries, cfg aggregation.Config) (*timeseries.TimeSeries, error) {
	rate := src.SampleRate()
	out, err := aggregation.Aggregate(src, cfg, func(frame []float64) float64 {
		crossings := 0
		for i := 1; i < len(frame); i++ {
			if frame[i-1]*frame[i] < 0 {
				crossings++
			}
		}
		return float64(crossings) / float64(len(frame)) * rate
	})
	if err != nil {
		return nil, err
	}
	return out.Relabel("zero-crossing rate", "Hz"), nil
}
