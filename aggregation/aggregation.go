// Package aggregation turns a dense series into a lower-rate series of
// per-window values. Every framed computation in the library (RMS, peak
// envelope, the spectral transform) shares this engine, so frame counts
// and frame timing are decided in exactly one place.
package aggregation

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/rubato-audio/rubato/logging"
	"github.com/rubato-audio/rubato/timeseries"
	"github.com/rubato-audio/rubato/windowing"
)

// Config controls sliding-window framing.
type Config struct {
	WindowSize int    `json:"window_size"`      // samples per analysis window
	HopSize    int    `json:"hop_size"`         // samples between window starts
	Window     string `json:"window,omitempty"` // window name, empty for no shaping
}

// DefaultConfig returns the framing used across the library unless a
// component overrides it: 2048-sample windows advancing by 512.
func DefaultConfig() Config {
	return Config{WindowSize: 2048, HopSize: 512}
}

// Validate checks the framing parameters.
func (c Config) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("window size must be > 0: %d", c.WindowSize)
	}
	if c.HopSize <= 0 {
		return fmt.Errorf("hop size must be > 0: %d", c.HopSize)
	}
	if c.Window != "" {
		if _, err := windowing.New(c.Window, c.WindowSize); err != nil {
			return err
		}
	}
	return nil
}

// FrameCount returns the number of complete windows of windowSize samples,
// advancing by hopSize, that fit in n samples. Trailing samples that do not
// fill a window are dropped; nothing is ever padded.
func FrameCount(n, windowSize, hopSize int) int {
	if n < windowSize {
		return 0
	}
	return (n-windowSize)/hopSize + 1
}

// OutputRate returns the frame rate of an aggregation over a source sampled
// at fs.
func OutputRate(fs float64, hopSize int) float64 {
	return fs / float64(hopSize)
}

// OutputStart returns the absolute start time of an aggregation's first
// frame: the source start advanced to the center of the first window.
func OutputStart(fs, start float64, windowSize int) float64 {
	return start + float64(windowSize)/(2*fs)
}

// Aggregate slides a window over the series and reduces every frame to a
// scalar. reduce must be a pure function; frames are handed to it from
// multiple goroutines and the frame slice is reused between calls, so it
// must neither retain the slice nor modify it.
func Aggregate(src *timeseries.TimeSeries, cfg Config, reduce func(frame []float64) float64) (*timeseries.TimeSeries, error) {
	plan, err := NewPlan(src, cfg)
	if err != nil {
		return nil, err
	}

	data := make([]float64, plan.Frames())
	plan.Run(func(i int, frame []float64) {
		data[i] = reduce(frame)
	})

	return timeseries.New(plan.Rate(), data,
		timeseries.WithStartTime(plan.Start()),
		timeseries.WithOrigin(src.Origin()),
		timeseries.WithLabel(src.Label()))
}

// AggregateVector slides a window over the series and reduces every frame
// to a vector of length dim, producing a FrameSeries. The same purity and
// retention rules as Aggregate apply; each call must allocate its result.
func AggregateVector(src *timeseries.TimeSeries, cfg Config, dim int, reduce func(frame []float64) []float64) (*timeseries.FrameSeries, error) {
	plan, err := NewPlan(src, cfg)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, plan.Frames())
	plan.Run(func(i int, frame []float64) {
		out[i] = reduce(frame)
	})

	return timeseries.NewFrames(plan.Rate(), dim, out,
		timeseries.WithStartTime(plan.Start()),
		timeseries.WithOrigin(src.Origin()),
		timeseries.WithLabel(src.Label()))
}

// MapFrames reduces every frame of an existing FrameSeries to a scalar,
// keeping the frame timing unchanged. This is how per-frame spectral
// statistics become ordinary series.
func MapFrames(src *timeseries.FrameSeries, fn func(frame []float64) float64) (*timeseries.TimeSeries, error) {
	data := make([]float64, src.Len())
	for i := range data {
		data[i] = fn(src.Frame(i))
	}
	return timeseries.New(src.SampleRate(), data,
		timeseries.WithStartTime(src.StartTime()),
		timeseries.WithOrigin(src.Origin()),
		timeseries.WithLabel(src.Label()))
}

// Pairwise reduces every pair of successive frames to a scalar. The result
// has one sample fewer than the source and starts one frame period later,
// timestamping each value at the later frame of its pair.
func Pairwise(src *timeseries.FrameSeries, fn func(prev, cur []float64) float64) (*timeseries.TimeSeries, error) {
	n := max(src.Len()-1, 0)
	data := make([]float64, n)
	for i := range data {
		data[i] = fn(src.Frame(i), src.Frame(i+1))
	}
	return timeseries.New(src.SampleRate(), data,
		timeseries.WithStartTime(src.StartTime()+1/src.SampleRate()),
		timeseries.WithOrigin(src.Origin()),
		timeseries.WithLabel(src.Label()))
}

// Plan fixes the framing of one sliding-window pass: how many frames the
// source yields and the rate and start time of the resulting series. The
// spectral transform builds on the same plan, so framed timing can never
// drift between components.
type Plan struct {
	signal     []float64
	windowSize int
	hopSize    int
	window     *windowing.Window
	count      int
	rate       float64
	start      float64
}

// NewPlan validates the config against the source and fixes the output
// timing.
func NewPlan(src *timeseries.TimeSeries, cfg Config) (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var win *windowing.Window
	if cfg.Window != "" {
		w, err := windowing.New(cfg.Window, cfg.WindowSize)
		if err != nil {
			return nil, err
		}
		win = w
	}

	count := FrameCount(src.Len(), cfg.WindowSize, cfg.HopSize)
	logging.Debug("aggregation frames planned", logging.Fields{
		"samples":     src.Len(),
		"window_size": cfg.WindowSize,
		"hop_size":    cfg.HopSize,
		"frames":      count,
	})

	return &Plan{
		signal:     src.Data(),
		windowSize: cfg.WindowSize,
		hopSize:    cfg.HopSize,
		window:     win,
		count:      count,
		rate:       OutputRate(src.SampleRate(), cfg.HopSize),
		start:      OutputStart(src.SampleRate(), src.StartTime(), cfg.WindowSize),
	}, nil
}

// Frames returns the number of frames the plan will emit.
func (p *Plan) Frames() int { return p.count }

// Rate returns the frame rate of the output series.
func (p *Plan) Rate() float64 { return p.rate }

// Start returns the absolute start time of the output series.
func (p *Plan) Start() float64 { return p.start }

// Run streams frame jobs to a small worker pool. Workers copy each frame
// into their own buffer before shaping, so the source data is never
// touched. emit is called once per frame index, possibly concurrently, and
// must write only to the output slot for that index.
func (p *Plan) Run(emit func(i int, frame []float64)) {
	if p.count == 0 {
		return
	}

	jobs := make(chan int, p.count)
	var wg sync.WaitGroup

	workers := workerCount(p.count)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			frame := make([]float64, p.windowSize)
			for i := range jobs {
				start := i * p.hopSize
				copy(frame, p.signal[start:start+p.windowSize])
				if p.window != nil {
					if err := p.window.ApplyInPlace(frame); err != nil {
						continue
					}
				}
				emit(i, frame)
			}
		}()
	}

	for i := 0; i < p.count; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// workerCount sizes the pool to the workload so short series do not pay
// goroutine overhead for nothing.
func workerCount(numFrames int) int {
	numCPU := runtime.NumCPU()
	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}
	if numFrames < 1000 {
		return min(numCPU, 8)
	}
	return numCPU
}
