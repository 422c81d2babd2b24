package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/rubato-audio/rubato/aggregation"
	"github.com/rubato-audio/rubato/logging"
	"github.com/rubato-audio/rubato/timeseries"
)

// Config controls the short-time transform.
type Config struct {
	WindowSize int    `json:"window_size"`      // samples per analysis window
	HopSize    int    `json:"hop_size"`         // samples between window starts
	FFTSize    int    `json:"fft_size"`         // transform size, >= WindowSize; 0 means WindowSize
	Window     string `json:"window,omitempty"` // window name; empty means none (rectangular)
}

// DefaultConfig returns 2048-sample hann windows advancing by 512, with no
// zero padding.
func DefaultConfig() Config {
	return Config{WindowSize: 2048, HopSize: 512, FFTSize: 2048, Window: "hann"}
}

// withDefaults fills the optional fields. An empty window name stays empty:
// the frames are transformed unshaped.
func (c Config) withDefaults() Config {
	if c.FFTSize == 0 {
		c.FFTSize = c.WindowSize
	}
	return c
}

// Validate checks the transform parameters.
func (c Config) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("window size must be > 0: %d", c.WindowSize)
	}
	if c.HopSize <= 0 {
		return fmt.Errorf("hop size must be > 0: %d", c.HopSize)
	}
	if c.FFTSize < c.WindowSize {
		return fmt.Errorf("fft size %d smaller than window size %d", c.FFTSize, c.WindowSize)
	}
	return nil
}

// STFT is a frame-indexed complex spectrum. Frames carry the timing of the
// aggregation engine (rate fs/hop, start advanced to the first window's
// center) and each holds fft_size/2+1 bins covering DC through Nyquist.
type STFT struct {
	cfg        Config
	frames     [][]complex128
	freqs      []float64
	rate       float64
	start      float64
	origin     string
	label      string
	sourceRate float64
}

// Compute runs the short-time transform over a scalar series. Frames
// shorter than the transform size are zero-padded on the right; a source
// shorter than one window yields an empty transform with valid timing.
func Compute(src *timeseries.TimeSeries, cfg Config) (*STFT, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	plan, err := aggregation.NewPlan(src, aggregation.Config{
		WindowSize: cfg.WindowSize,
		HopSize:    cfg.HopSize,
		Window:     cfg.Window,
	})
	if err != nil {
		return nil, err
	}

	bins := cfg.FFTSize/2 + 1
	frames := make([][]complex128, plan.Frames())
	fft := NewFFT()

	plan.Run(func(i int, frame []float64) {
		buf := frame
		if cfg.FFTSize > len(frame) {
			buf = make([]float64, cfg.FFTSize)
			copy(buf, frame)
		}
		spectrum := fft.Forward(buf)
		row := make([]complex128, bins)
		copy(row, spectrum[:bins])
		frames[i] = row
	})

	freqs := make([]float64, bins)
	binWidth := src.SampleRate() / float64(cfg.FFTSize)
	for k := range freqs {
		freqs[k] = float64(k) * binWidth
	}

	logging.Debug("stft computed", logging.Fields{
		"frames":   plan.Frames(),
		"bins":     bins,
		"fft_size": cfg.FFTSize,
		"window":   cfg.Window,
	})

	return &STFT{
		cfg:        cfg,
		frames:     frames,
		freqs:      freqs,
		rate:       plan.Rate(),
		start:      plan.Start(),
		origin:     src.Origin(),
		label:      src.Label(),
		sourceRate: src.SampleRate(),
	}, nil
}

// Len returns the number of frames.
func (s *STFT) Len() int { return len(s.frames) }

// Bins returns the number of frequency bins per frame.
func (s *STFT) Bins() int { return len(s.freqs) }

// SampleRate returns the frame rate in Hz.
func (s *STFT) SampleRate() float64 { return s.rate }

// StartTime returns the absolute time of the first frame's window center.
func (s *STFT) StartTime() float64 { return s.start }

// Duration returns the transform length in seconds.
func (s *STFT) Duration() float64 { return float64(len(s.frames)) / s.rate }

// EndTime returns the absolute time one frame period past the last frame.
func (s *STFT) EndTime() float64 { return s.start + s.Duration() }

// Origin returns the recording-origin tag inherited from the source.
func (s *STFT) Origin() string { return s.origin }

// SourceRate returns the sample rate of the transformed series.
func (s *STFT) SourceRate() float64 { return s.sourceRate }

// Config returns the transform parameters, defaults resolved.
func (s *STFT) Config() Config { return s.cfg }

// TimeAt returns the absolute time of frame i.
func (s *STFT) TimeAt(i int) float64 { return s.start + float64(i)/s.rate }

// Frame returns the complex spectrum of frame i. Treat it as read-only.
func (s *STFT) Frame(i int) []complex128 { return s.frames[i] }

// BinWidth returns the frequency distance between adjacent bins.
func (s *STFT) BinWidth() float64 { return s.sourceRate / float64(s.cfg.FFTSize) }

// BinFrequency returns the center frequency of bin k.
func (s *STFT) BinFrequency(k int) float64 { return s.freqs[k] }

// BinOf returns the bin whose center frequency lies nearest to freq,
// clamped to the valid range.
func (s *STFT) BinOf(freq float64) int {
	k := int(math.Round(freq / s.BinWidth()))
	return min(max(k, 0), len(s.freqs)-1)
}

// Frequencies returns a copy of the frequency axis.
func (s *STFT) Frequencies() []float64 {
	freqs := make([]float64, len(s.freqs))
	copy(freqs, s.freqs)
	return freqs
}

// MagnitudeAt returns the magnitude spectrum of frame i.
func (s *STFT) MagnitudeAt(i int) []float64 {
	mag := make([]float64, len(s.frames[i]))
	for k, c := range s.frames[i] {
		mag[k] = cmplx.Abs(c)
	}
	return mag
}

// PhaseAt returns the phase spectrum of frame i in radians.
func (s *STFT) PhaseAt(i int) []float64 {
	phase := make([]float64, len(s.frames[i]))
	for k, c := range s.frames[i] {
		phase[k] = cmplx.Phase(c)
	}
	return phase
}

// Magnitude returns the magnitude spectrogram as a FrameSeries sharing the
// transform's timing.
func (s *STFT) Magnitude() (*timeseries.FrameSeries, error) {
	return s.view("magnitude", func(c complex128) float64 { return cmplx.Abs(c) })
}

// Power returns the power spectrogram (squared magnitudes).
func (s *STFT) Power() (*timeseries.FrameSeries, error) {
	return s.view("power", func(c complex128) float64 {
		a := cmplx.Abs(c)
		return a * a
	})
}

// Phase returns the phase spectrogram in radians.
func (s *STFT) Phase() (*timeseries.FrameSeries, error) {
	return s.view("phase", func(c complex128) float64 { return cmplx.Phase(c) })
}

// view materializes a per-bin scalar projection of the complex frames.
func (s *STFT) view(label string, fn func(complex128) float64) (*timeseries.FrameSeries, error) {
	frames := make([][]float64, len(s.frames))
	for i, row := range s.frames {
		frame := make([]float64, len(row))
		for k, c := range row {
			frame[k] = fn(c)
		}
		frames[i] = frame
	}
	return timeseries.NewFrames(s.rate, len(s.freqs), frames,
		timeseries.WithStartTime(s.start),
		timeseries.WithOrigin(s.origin),
		timeseries.WithLabel(label))
}
