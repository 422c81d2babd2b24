// Package audio loads recordings into analysis-ready series. Decoded audio
// is mixed down to one channel, scaled to [-1, 1] and tagged with its
// source, so everything derived from a recording stays traceable to it.
package audio

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/rubato-audio/rubato/logging"
	"github.com/rubato-audio/rubato/timeseries"
)

// Audio is a recording loaded for analysis: a mono series in [-1, 1] plus
// where it came from.
type Audio struct {
	*timeseries.TimeSeries
	Path     string // file path or URL the recording was loaded from
	Channels int    // channel count of the source before mixdown
	Caption  string
}

// LoadError reports a failed audio load, keeping the source that failed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading audio from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// FromFile loads a WAV file, averaging interleaved channels down to mono.
// The origin tag of the series is the cleaned absolute path, so derived
// series can always be traced back to the file. Only .wav input is
// decoded; other extensions fail without opening the file.
func FromFile(path string) (*Audio, error) {
	if ext := filepath.Ext(path); !strings.EqualFold(ext, ".wav") {
		return nil, &LoadError{Source: path, Err: fmt.Errorf("unsupported format %q", ext)}
	}
	origin, err := filepath.Abs(path)
	if err != nil {
		origin = filepath.Clean(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	a, err := decode(f, origin)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	a.Path = origin
	return a, nil
}

// FromURL fetches a WAV payload over HTTP(S) into memory and decodes it
// like FromFile. The origin tag is the URL itself.
func FromURL(url string) (*Audio, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &LoadError{Source: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}

	a, err := decode(bytes.NewReader(body), url)
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}
	a.Path = url
	return a, nil
}

// FromSamples wraps in-memory samples as a recording, the entry point for
// synthesized material and tests.
func FromSamples(data []float64, sampleRate float64, origin string) (*Audio, error) {
	ts, err := timeseries.New(sampleRate, data,
		timeseries.WithUnit("amplitude"),
		timeseries.WithLabel("audio"),
		timeseries.WithOrigin(origin))
	if err != nil {
		return nil, err
	}
	return &Audio{TimeSeries: ts, Path: origin, Channels: 1}, nil
}

// decode drains a WAV stream into a mono series scaled to [-1, 1] by the
// source bit depth.
func decode(r io.ReadSeeker, origin string) (*Audio, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid wav stream")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading pcm: %w", err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("empty pcm buffer")
	}

	channels := buf.Format.NumChannels
	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	frames := len(buf.Data) / channels
	mono := make([]float64, frames)
	for i := range mono {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		mono[i] = sum / float64(channels) / scale
	}

	ts, err := timeseries.New(float64(buf.Format.SampleRate), mono,
		timeseries.WithUnit("amplitude"),
		timeseries.WithLabel("audio"),
		timeseries.WithOrigin(origin))
	if err != nil {
		return nil, err
	}

	logging.Debug("audio decoded", logging.Fields{
		"source":      origin,
		"sample_rate": buf.Format.SampleRate,
		"channels":    channels,
		"bit_depth":   bitDepth,
		"samples":     frames,
	})

	return &Audio{TimeSeries: ts, Channels: channels}, nil
}

// WriteWAV renders a series as a mono PCM WAV file at 16 or 24 bits.
// Samples outside [-1, 1] are clamped. The series must have an integer
// sample rate; derived frame-rate series usually do not.
func WriteWAV(path string, ts *timeseries.TimeSeries, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("bit depth must be 16 or 24: %d", bitDepth)
	}
	rate := int(ts.SampleRate())
	if float64(rate) != ts.SampleRate() {
		return fmt.Errorf("wav needs an integer sample rate: %g", ts.SampleRate())
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(f, rate, bitDepth, 1, 1)
	limit := float64(int64(1)<<(bitDepth-1)) - 1
	data := ts.Data()
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           make([]int, len(data)),
		SourceBitDepth: bitDepth,
	}
	for i, v := range data {
		buf.Data[i] = int(math.Round(min(max(v, -1), 1) * limit))
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("writing wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalizing wav: %w", err)
	}
	return f.Close()
}
