package features

import (
	"errors"
	"math"
	"testing"

	"github.com/rubato-audio/rubato/harmonics"
	"github.com/rubato-audio/rubato/timeseries"
)

func generateHarmonicTone(f0, sampleRate float64, numHarmonics, n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		tt := float64(i) / sampleRate
		for h := 1; h <= numHarmonics; h++ {
			data[i] += math.Sin(2*math.Pi*f0*float64(h)*tt) / float64(h)
		}
	}
	return data
}

// partialSet builds a tracked-partial set by hand, one magnitude row per
// frame, so descriptor arithmetic can be checked against exact values.
func partialSet(t *testing.T, freqs, mags [][]float64) *harmonics.Set {
	t.Helper()
	dim := len(freqs[0])
	build := func(frames [][]float64, label, unit string) *timeseries.FrameSeries {
		fs, err := timeseries.NewFrames(10, dim, frames,
			timeseries.WithStartTime(0.5),
			timeseries.WithOrigin("take1"),
			timeseries.WithLabel(label),
			timeseries.WithUnit(unit))
		if err != nil {
			t.Fatalf("building %s: %v", label, err)
		}
		return fs
	}
	phases := make([][]float64, len(freqs))
	for i := range phases {
		phases[i] = make([]float64, dim)
	}
	return &harmonics.Set{
		Frequency: build(freqs, "harmonic frequency", "Hz"),
		Magnitude: build(mags, "harmonic magnitude", ""),
		Phase:     build(phases, "harmonic phase", "rad"),
	}
}

func TestHarmonicCentroid(t *testing.T) {
	set := partialSet(t,
		[][]float64{{100, 200, 300}, {100, 200, 300}},
		[][]float64{{2, 1, 1}, {0, 0, 0}})

	out, err := HarmonicCentroid(set)
	if err != nil {
		t.Fatalf("HarmonicCentroid: %v", err)
	}
	// (2*100 + 1*200 + 1*300) / 4.
	if !almostEqual(out.At(0), 175, 1e-12) {
		t.Errorf("centroid = %v, want 175", out.At(0))
	}
	if out.At(1) != 0 {
		t.Errorf("unvoiced centroid = %v, want 0", out.At(1))
	}
	if out.Label() != "harmonic centroid" || out.Unit() != "Hz" {
		t.Errorf("label/unit = %q/%q", out.Label(), out.Unit())
	}
	if out.SampleRate() != 10 || !almostEqual(out.StartTime(), 0.5, tolerance) {
		t.Errorf("timing = %v Hz at %v s", out.SampleRate(), out.StartTime())
	}
	if out.Origin() != "take1" {
		t.Errorf("origin = %q", out.Origin())
	}
}

func TestHarmonicEnergy(t *testing.T) {
	set := partialSet(t,
		[][]float64{{100, 200, 300}, {100, 200, 300}},
		[][]float64{{2, 1, 1}, {0, 0, 0}})

	out, err := HarmonicEnergy(set)
	if err != nil {
		t.Fatalf("HarmonicEnergy: %v", err)
	}
	if !almostEqual(out.At(0), 6, 1e-12) {
		t.Errorf("energy = %v, want 6", out.At(0))
	}
	if out.At(1) != 0 {
		t.Errorf("unvoiced energy = %v, want 0", out.At(1))
	}
	if out.Label() != "harmonic energy" {
		t.Errorf("label = %q", out.Label())
	}
}

func TestOddToEvenRatio(t *testing.T) {
	set := partialSet(t,
		[][]float64{{100, 200, 300, 400}, {100, 200, 300, 400}, {100, 200, 300, 400}},
		[][]float64{{3, 2, 1, 2}, {3, 0, 1, 0}, {0, 0, 0, 0}})

	out, err := OddToEvenRatio(set)
	if err != nil {
		t.Fatalf("OddToEvenRatio: %v", err)
	}
	// (3^2 + 1^2) / (2^2 + 2^2).
	if !almostEqual(out.At(0), 1.25, 1e-12) {
		t.Errorf("ratio = %v, want 1.25", out.At(0))
	}
	if out.At(1) != 0 {
		t.Errorf("ratio with silent even partials = %v, want 0", out.At(1))
	}
	if out.At(2) != 0 {
		t.Errorf("ratio of silent frame = %v, want 0", out.At(2))
	}
	if out.Label() != "odd-to-even ratio" {
		t.Errorf("label = %q", out.Label())
	}
}

func TestNoisinessOfCleanHarmonicTone(t *testing.T) {
	// Bin-centered partials put all spectral energy on the tracked bins,
	// so next to nothing is left over as noise.
	st := toneTransform(t, generateHarmonicTone(500, 8000, 3, 4096))
	pitchData := make([]float64, st.Len())
	for i := range pitchData {
		pitchData[i] = 500
	}
	p, err := timeseries.New(st.SampleRate(), pitchData,
		timeseries.WithStartTime(st.StartTime()),
		timeseries.WithOrigin(st.Origin()),
		timeseries.WithUnit("Hz"))
	if err != nil {
		t.Fatalf("building pitch: %v", err)
	}
	set, err := harmonics.Extract(st, p, harmonics.Config{NumPartials: 3, RelTolerance: 0.04})
	if err != nil {
		t.Fatalf("extracting harmonics: %v", err)
	}

	out, err := Noisiness(st, set)
	if err != nil {
		t.Fatalf("Noisiness: %v", err)
	}
	for i, v := range out.Data() {
		if v < 0 || v > 1e-6 {
			t.Errorf("frame %d: noisiness = %v, want within [0, 1e-6]", i, v)
		}
	}
	if out.Label() != "noisiness" {
		t.Errorf("label = %q", out.Label())
	}
}

func TestNoisinessHearsUntrackedTone(t *testing.T) {
	// An extra tone between the partials adds energy the tracker does not
	// claim, and the leftover fraction is the noisiness.
	data := addSignals(
		generateHarmonicTone(500, 8000, 3, 4096),
		generateSine(0.5, 777, 0, 8000, 4096))
	st := toneTransform(t, data)
	pitchData := make([]float64, st.Len())
	for i := range pitchData {
		pitchData[i] = 500
	}
	p, err := timeseries.New(st.SampleRate(), pitchData,
		timeseries.WithStartTime(st.StartTime()),
		timeseries.WithOrigin(st.Origin()),
		timeseries.WithUnit("Hz"))
	if err != nil {
		t.Fatalf("building pitch: %v", err)
	}
	set, err := harmonics.Extract(st, p, harmonics.Config{NumPartials: 3, RelTolerance: 0.04})
	if err != nil {
		t.Fatalf("extracting harmonics: %v", err)
	}

	out, err := Noisiness(st, set)
	if err != nil {
		t.Fatalf("Noisiness: %v", err)
	}
	for i, v := range out.Data() {
		if v < 0.05 || v > 0.4 {
			t.Errorf("frame %d: noisiness = %v, want within (0.05, 0.4)", i, v)
		}
	}
}

func TestNoisinessRejectsMisalignedSet(t *testing.T) {
	st := impulseTransform(t)
	set := partialSet(t,
		[][]float64{{100, 200, 300}},
		[][]float64{{1, 1, 1}})

	_, err := Noisiness(st, set)
	if !errors.Is(err, timeseries.ErrMisalignedSeries) {
		t.Fatalf("err = %v, want ErrMisalignedSeries", err)
	}
}
