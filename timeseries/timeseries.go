// Package timeseries provides the time-aware sample sequences the rest of
// the library is built on. A series knows its sample rate and its absolute
// start time, so every slice, segment application and derived series keeps
// an exact position on the recording timeline.
package timeseries

import (
	"fmt"
	"math"
)

// alignEpsilon bounds the allowed disagreement between series that are
// supposed to share frame timing (seconds for start times, Hz for rates).
const alignEpsilon = 1e-9

// Series is the timing surface shared by TimeSeries and FrameSeries.
type Series interface {
	SampleRate() float64
	StartTime() float64
	EndTime() float64
	Len() int
	Origin() string
}

// meta carries the construction-time metadata shared by both series kinds.
type meta struct {
	startTime float64
	unit      string
	label     string
	origin    string
}

// Option configures series construction.
type Option func(*meta)

// WithStartTime sets the absolute start time in seconds.
func WithStartTime(t float64) Option {
	return func(m *meta) { m.startTime = t }
}

// WithUnit sets the unit of the sample values (e.g. "Hz", "dB").
func WithUnit(unit string) Option {
	return func(m *meta) { m.unit = unit }
}

// WithLabel sets a human-readable label for the series.
func WithLabel(label string) Option {
	return func(m *meta) { m.label = label }
}

// WithOrigin sets the recording-origin tag. Series sharing a tag live on the
// same absolute timeline and can exchange segments and points.
func WithOrigin(tag string) Option {
	return func(m *meta) { m.origin = tag }
}

// TimeSeries is an immutable scalar sample sequence with timing metadata.
// The zero value is not usable; construct with New.
type TimeSeries struct {
	meta
	fs   float64
	data []float64
}

// New creates a TimeSeries over data sampled at sampleRate Hz. The series
// takes ownership of data; callers must not modify it afterwards. An empty
// payload is valid and yields a zero-duration series.
func New(sampleRate float64, data []float64, opts ...Option) (*TimeSeries, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %g", sampleRate)
	}
	ts := &TimeSeries{fs: sampleRate, data: data}
	for _, opt := range opts {
		opt(&ts.meta)
	}
	return ts, nil
}

// derive builds a child series carrying this series' metadata, with the
// given rate, start time and payload. Used by every transformation so the
// origin tag is never dropped.
func (ts *TimeSeries) derive(fs, startTime float64, data []float64) *TimeSeries {
	out := &TimeSeries{meta: ts.meta, fs: fs, data: data}
	out.startTime = startTime
	return out
}

// SampleRate returns the sampling frequency in Hz.
func (ts *TimeSeries) SampleRate() float64 { return ts.fs }

// StartTime returns the absolute time of the first sample in seconds.
func (ts *TimeSeries) StartTime() float64 { return ts.startTime }

// Duration returns the series length in seconds.
func (ts *TimeSeries) Duration() float64 { return float64(len(ts.data)) / ts.fs }

// EndTime returns the absolute time one sample period past the last sample.
func (ts *TimeSeries) EndTime() float64 { return ts.startTime + ts.Duration() }

// Nyquist returns half the sample rate.
func (ts *TimeSeries) Nyquist() float64 { return ts.fs / 2 }

// Len returns the number of samples.
func (ts *TimeSeries) Len() int { return len(ts.data) }

// Unit returns the unit of the sample values.
func (ts *TimeSeries) Unit() string { return ts.unit }

// Label returns the series label.
func (ts *TimeSeries) Label() string { return ts.label }

// Origin returns the recording-origin tag.
func (ts *TimeSeries) Origin() string { return ts.origin }

// Data returns the backing samples. Treat the slice as read-only.
func (ts *TimeSeries) Data() []float64 { return ts.data }

// At returns the sample at index i.
func (ts *TimeSeries) At(i int) float64 { return ts.data[i] }

// TimeAt returns the absolute time of sample i.
func (ts *TimeSeries) TimeAt(i int) float64 {
	return timeAt(ts.fs, ts.startTime, i)
}

// IndexAt returns the index of the sample nearest to absolute time t,
// clamped to the valid range. Fails only when the series is empty.
func (ts *TimeSeries) IndexAt(t float64) (int, error) {
	return indexAt(ts.fs, ts.startTime, len(ts.data), t)
}

// Times returns the absolute time of every sample.
func (ts *TimeSeries) Times() []float64 {
	times := make([]float64, len(ts.data))
	for i := range times {
		times[i] = ts.TimeAt(i)
	}
	return times
}

// Slice returns a copy of the samples in the half-open time interval
// [t0, t1). Partial overlap clamps to the series span; a disjoint interval
// fails with ErrOutOfRange and t1 <= t0 fails with ErrInvalidInterval.
func (ts *TimeSeries) Slice(t0, t1 float64) (*TimeSeries, error) {
	lo, hi, err := span(ts.fs, ts.startTime, len(ts.data), t0, t1)
	if err != nil {
		return nil, err
	}
	return ts.SliceIndex(lo, hi)
}

// SliceIndex returns a copy of the samples in the half-open index interval
// [lo, hi). The slice's start time is the absolute time of sample lo.
func (ts *TimeSeries) SliceIndex(lo, hi int) (*TimeSeries, error) {
	if hi < lo {
		return nil, fmt.Errorf("%w: index %d before %d", ErrInvalidInterval, hi, lo)
	}
	if lo < 0 || hi > len(ts.data) {
		return nil, fmt.Errorf("%w: [%d, %d) of %d samples", ErrOutOfRange, lo, hi, len(ts.data))
	}
	data := make([]float64, hi-lo)
	copy(data, ts.data[lo:hi])
	return ts.derive(ts.fs, ts.TimeAt(lo), data), nil
}

// Relabel returns a series sharing this one's timing and payload under a
// new label and unit.
func (ts *TimeSeries) Relabel(label, unit string) *TimeSeries {
	out := ts.derive(ts.fs, ts.startTime, ts.data)
	out.label = label
	out.unit = unit
	return out
}

// Map applies a pure function to every sample and returns the result as a
// new series with identical timing.
func (ts *TimeSeries) Map(fn func(float64) float64) *TimeSeries {
	data := make([]float64, len(ts.data))
	for i, v := range ts.data {
		data[i] = fn(v)
	}
	return ts.derive(ts.fs, ts.startTime, data)
}

// Gain scales every sample by g.
func (ts *TimeSeries) Gain(g float64) *TimeSeries {
	return ts.Map(func(v float64) float64 { return v * g })
}

// HWR half-wave rectifies the series, clamping negative samples to zero.
func (ts *TimeSeries) HWR() *TimeSeries {
	return ts.Map(func(v float64) float64 { return max(v, 0) })
}

// Normalize scales the series so the largest absolute sample is 1. A silent
// series is returned unchanged.
func (ts *TimeSeries) Normalize() *TimeSeries {
	peak := 0.0
	for _, v := range ts.data {
		peak = max(peak, math.Abs(v))
	}
	if peak == 0 {
		return ts.Map(func(v float64) float64 { return v })
	}
	return ts.Gain(1 / peak)
}

// ZerosToNaN replaces exact zeros with NaN. Pitch estimators use zero as
// their no-estimate sentinel; converting lets aggregate statistics skip
// unvoiced stretches.
func (ts *TimeSeries) ZerosToNaN() *TimeSeries {
	return ts.Map(func(v float64) float64 {
		if v == 0 {
			return math.NaN()
		}
		return v
	})
}

// Diff returns the first difference of the series. The result has one
// sample fewer and starts one sample period later, timestamping each
// difference at the later of the two samples it spans.
func (ts *TimeSeries) Diff() *TimeSeries {
	if len(ts.data) == 0 {
		return ts.derive(ts.fs, ts.startTime, nil)
	}
	data := make([]float64, len(ts.data)-1)
	for i := range data {
		data[i] = ts.data[i+1] - ts.data[i]
	}
	return ts.derive(ts.fs, ts.startTime+1/ts.fs, data)
}

// Concat appends the payloads of contiguous series recorded at the same
// rate from the same origin. Timing metadata comes from the first series.
func Concat(series ...*TimeSeries) (*TimeSeries, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("concat needs at least one series")
	}
	first := series[0]
	total := 0
	for _, s := range series {
		if math.Abs(s.fs-first.fs) > alignEpsilon {
			return nil, fmt.Errorf("%w: sample rate %g vs %g", ErrMisalignedSeries, s.fs, first.fs)
		}
		if s.origin != first.origin {
			return nil, fmt.Errorf("%w: %q vs %q", ErrIncompatibleOrigin, s.origin, first.origin)
		}
		total += len(s.data)
	}
	data := make([]float64, 0, total)
	for _, s := range series {
		data = append(data, s.data...)
	}
	return first.derive(first.fs, first.startTime, data), nil
}

// Combine merges two aligned series sample by sample with a pure function.
// The inputs must share sample rate, start time and length, otherwise the
// call fails with ErrMisalignedSeries.
func Combine(a, b *TimeSeries, fn func(x, y float64) float64) (*TimeSeries, error) {
	if err := CheckAlignment(a, b); err != nil {
		return nil, err
	}
	data := make([]float64, len(a.data))
	for i := range data {
		data[i] = fn(a.data[i], b.data[i])
	}
	return a.derive(a.fs, a.startTime, data), nil
}

// CheckAlignment verifies that two series share frame timing: equal sample
// rate and start time (within a small epsilon) and equal length.
func CheckAlignment(a, b Series) error {
	if math.Abs(a.SampleRate()-b.SampleRate()) > alignEpsilon {
		return fmt.Errorf("%w: sample rate %g vs %g", ErrMisalignedSeries, a.SampleRate(), b.SampleRate())
	}
	if math.Abs(a.StartTime()-b.StartTime()) > alignEpsilon {
		return fmt.Errorf("%w: start time %gs vs %gs", ErrMisalignedSeries, a.StartTime(), b.StartTime())
	}
	if a.Len() != b.Len() {
		return fmt.Errorf("%w: length %d vs %d", ErrMisalignedSeries, a.Len(), b.Len())
	}
	return nil
}

// timeAt converts a sample index to absolute time. Together with indexAt
// and span this is the only place time/index arithmetic lives.
func timeAt(fs, start float64, i int) float64 {
	return start + float64(i)/fs
}

// indexAt converts an absolute time to the nearest valid sample index,
// clamping times beyond either edge to the first or last sample.
func indexAt(fs, start float64, n int, t float64) (int, error) {
	if n == 0 {
		return 0, fmt.Errorf("%w: empty series", ErrOutOfRange)
	}
	i := int(math.Round((t - start) * fs))
	return min(max(i, 0), n-1), nil
}

// span maps the half-open time interval [t0, t1) onto index bounds of a
// series with n samples starting at start. Bounds clamp to the series span;
// a disjoint interval is ErrOutOfRange, an empty one ErrInvalidInterval.
func span(fs, start float64, n int, t0, t1 float64) (lo, hi int, err error) {
	if t1 <= t0 {
		return 0, 0, fmt.Errorf("%w: [%gs, %gs)", ErrInvalidInterval, t0, t1)
	}
	lo = int(math.Round((t0 - start) * fs))
	hi = int(math.Round((t1 - start) * fs))
	if lo >= n || hi <= 0 {
		return 0, 0, fmt.Errorf("%w: [%gs, %gs) outside [%gs, %gs)",
			ErrOutOfRange, t0, t1, start, timeAt(fs, start, n))
	}
	lo = max(lo, 0)
	hi = min(hi, n)
	return lo, hi, nil
}
