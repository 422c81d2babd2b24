package timeseries

import "fmt"

// FrameSeries is an immutable sequence of fixed-dimension vector samples
// with the same timing metadata as a TimeSeries. One frame per sample: a
// spectral frame, a length-P partial vector, and so on.
type FrameSeries struct {
	meta
	fs     float64
	dim    int
	frames [][]float64
}

// NewFrames creates a FrameSeries over frames sampled at sampleRate Hz,
// each of length dim. The series takes ownership of frames; callers must
// not modify them afterwards. An empty frame set is valid.
func NewFrames(sampleRate float64, dim int, frames [][]float64, opts ...Option) (*FrameSeries, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %g", sampleRate)
	}
	if dim < 0 {
		return nil, fmt.Errorf("frame dimension must be >= 0: %d", dim)
	}
	for i, f := range frames {
		if len(f) != dim {
			return nil, fmt.Errorf("frame %d has %d values, want %d", i, len(f), dim)
		}
	}
	fs := &FrameSeries{fs: sampleRate, dim: dim, frames: frames}
	for _, opt := range opts {
		opt(&fs.meta)
	}
	return fs, nil
}

// derive builds a child series carrying this series' metadata.
func (fs *FrameSeries) derive(rate, startTime float64, frames [][]float64) *FrameSeries {
	out := &FrameSeries{meta: fs.meta, fs: rate, dim: fs.dim, frames: frames}
	out.startTime = startTime
	return out
}

// SampleRate returns the frame rate in Hz.
func (fs *FrameSeries) SampleRate() float64 { return fs.fs }

// StartTime returns the absolute time of the first frame in seconds.
func (fs *FrameSeries) StartTime() float64 { return fs.startTime }

// Duration returns the series length in seconds.
func (fs *FrameSeries) Duration() float64 { return float64(len(fs.frames)) / fs.fs }

// EndTime returns the absolute time one frame period past the last frame.
func (fs *FrameSeries) EndTime() float64 { return fs.startTime + fs.Duration() }

// Len returns the number of frames.
func (fs *FrameSeries) Len() int { return len(fs.frames) }

// Dim returns the number of values per frame.
func (fs *FrameSeries) Dim() int { return fs.dim }

// Unit returns the unit of the frame values.
func (fs *FrameSeries) Unit() string { return fs.unit }

// Label returns the series label.
func (fs *FrameSeries) Label() string { return fs.label }

// Origin returns the recording-origin tag.
func (fs *FrameSeries) Origin() string { return fs.origin }

// Frames returns the backing frames. Treat them as read-only.
func (fs *FrameSeries) Frames() [][]float64 { return fs.frames }

// Frame returns frame i. Treat the slice as read-only.
func (fs *FrameSeries) Frame(i int) []float64 { return fs.frames[i] }

// At returns value d of frame i.
func (fs *FrameSeries) At(i, d int) float64 { return fs.frames[i][d] }

// TimeAt returns the absolute time of frame i.
func (fs *FrameSeries) TimeAt(i int) float64 {
	return timeAt(fs.fs, fs.startTime, i)
}

// IndexAt returns the index of the frame nearest to absolute time t,
// clamped to the valid range. Fails only when the series is empty.
func (fs *FrameSeries) IndexAt(t float64) (int, error) {
	return indexAt(fs.fs, fs.startTime, len(fs.frames), t)
}

// Times returns the absolute time of every frame.
func (fs *FrameSeries) Times() []float64 {
	times := make([]float64, len(fs.frames))
	for i := range times {
		times[i] = fs.TimeAt(i)
	}
	return times
}

// Slice returns a copy of the frames in the half-open time interval
// [t0, t1), with the same clamping and error behavior as TimeSeries.Slice.
// Frame payloads are deep-copied.
func (fs *FrameSeries) Slice(t0, t1 float64) (*FrameSeries, error) {
	lo, hi, err := span(fs.fs, fs.startTime, len(fs.frames), t0, t1)
	if err != nil {
		return nil, err
	}
	return fs.SliceIndex(lo, hi)
}

// SliceIndex returns a copy of the frames in the half-open index interval
// [lo, hi). The slice's start time is the absolute time of frame lo.
func (fs *FrameSeries) SliceIndex(lo, hi int) (*FrameSeries, error) {
	if hi < lo {
		return nil, fmt.Errorf("%w: index %d before %d", ErrInvalidInterval, hi, lo)
	}
	if lo < 0 || hi > len(fs.frames) {
		return nil, fmt.Errorf("%w: [%d, %d) of %d frames", ErrOutOfRange, lo, hi, len(fs.frames))
	}
	frames := make([][]float64, hi-lo)
	for i := range frames {
		frame := make([]float64, fs.dim)
		copy(frame, fs.frames[lo+i])
		frames[i] = frame
	}
	return fs.derive(fs.fs, fs.TimeAt(lo), frames), nil
}

// Component returns dimension d of every frame as a scalar series with
// identical timing.
func (fs *FrameSeries) Component(d int) (*TimeSeries, error) {
	if d < 0 || d >= fs.dim {
		return nil, fmt.Errorf("%w: component %d of a %d-dimensional series", ErrOutOfRange, d, fs.dim)
	}
	data := make([]float64, len(fs.frames))
	for i, f := range fs.frames {
		data[i] = f[d]
	}
	out := &TimeSeries{meta: fs.meta, fs: fs.fs, data: data}
	return out, nil
}

// Map applies a pure function to every frame and returns the result as a
// new series with identical timing. fn receives a read-only frame and must
// return a frame of the same dimension.
func (fs *FrameSeries) Map(fn func([]float64) []float64) (*FrameSeries, error) {
	frames := make([][]float64, len(fs.frames))
	for i, f := range fs.frames {
		out := fn(f)
		if len(out) != fs.dim {
			return nil, fmt.Errorf("frame %d mapped to %d values, want %d", i, len(out), fs.dim)
		}
		frames[i] = out
	}
	return fs.derive(fs.fs, fs.startTime, frames), nil
}
