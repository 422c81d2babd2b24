package windowing

import (
	"math"
	"testing"
)

const tolerance = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNewByName(t *testing.T) {
	names := []string{"rectangular", "rect", "boxcar", "hann", "hanning", "hamming",
		"blackman", "blackmanharris", "blackman-harris", "bartlett", "triangular", "welch",
		"kaiser", "tukey"}
	for _, name := range names {
		w, err := New(name, 32)
		if err != nil {
			t.Errorf("New(%q): %v", name, err)
			continue
		}
		if w.Size() != 32 {
			t.Errorf("New(%q): Size = %d, want 32", name, w.Size())
		}
	}

	if _, err := New("gaussian", 32); err == nil {
		t.Error("unknown window name accepted")
	}
	if _, err := New("hann", 0); err == nil {
		t.Error("zero-size window accepted")
	}
}

func TestSingleSampleWindow(t *testing.T) {
	for _, name := range []string{"hann", "hamming", "bartlett", "rectangular"} {
		w, err := New(name, 1)
		if err != nil {
			t.Fatalf("New(%q, 1): %v", name, err)
		}
		if c := w.Coefficients(); len(c) != 1 || c[0] != 1 {
			t.Errorf("%s size 1 coefficients = %v, want [1]", name, c)
		}
	}
}

func TestKnownValues(t *testing.T) {
	cases := []struct {
		name      string
		endpoints float64
		midpoint  float64
	}{
		{"rectangular", 1, 1},
		{"hann", 0, 1},
		{"hamming", 0.08, 1},
		{"blackman", 0, 1},
		{"bartlett", 0, 1},
		{"welch", 0, 1},
	}
	for _, tc := range cases {
		w, err := New(tc.name, 5)
		if err != nil {
			t.Fatalf("New(%q): %v", tc.name, err)
		}
		c := w.Coefficients()
		if !almostEqual(c[0], tc.endpoints, tolerance) || !almostEqual(c[4], tc.endpoints, tolerance) {
			t.Errorf("%s endpoints = %g, %g, want %g", tc.name, c[0], c[4], tc.endpoints)
		}
		if !almostEqual(c[2], tc.midpoint, tolerance) {
			t.Errorf("%s midpoint = %g, want %g", tc.name, c[2], tc.midpoint)
		}
	}
}

func TestSymmetry(t *testing.T) {
	for _, name := range []string{"hann", "hamming", "blackman", "blackmanharris", "bartlett", "welch", "kaiser", "tukey"} {
		w, err := New(name, 64)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		c := w.Coefficients()
		for i := range len(c) / 2 {
			if !almostEqual(c[i], c[len(c)-1-i], tolerance) {
				t.Errorf("%s coefficient %d = %g, mirror = %g", name, i, c[i], c[len(c)-1-i])
			}
		}
	}
}

func TestTukeyKnownValues(t *testing.T) {
	w, err := NewTukey(9, 0.5)
	if err != nil {
		t.Fatalf("NewTukey: %v", err)
	}
	want := []float64{0, 0.5, 1, 1, 1, 1, 1, 0.5, 0}
	c := w.Coefficients()
	for i, v := range want {
		if !almostEqual(c[i], v, 1e-12) {
			t.Errorf("tukey(9, 0.5)[%d] = %g, want %g", i, c[i], v)
		}
	}

	flat, err := NewTukey(16, 0)
	if err != nil {
		t.Fatalf("NewTukey alpha 0: %v", err)
	}
	for i, v := range flat.Coefficients() {
		if v != 1 {
			t.Errorf("tukey(16, 0)[%d] = %g, want 1", i, v)
		}
	}

	if _, err := NewTukey(16, 1.5); err == nil {
		t.Error("alpha > 1 accepted")
	}
	if _, err := NewTukey(16, -0.1); err == nil {
		t.Error("negative alpha accepted")
	}
}

func TestTukeyFullTaperIsHann(t *testing.T) {
	tk, err := NewTukey(33, 1)
	if err != nil {
		t.Fatalf("NewTukey: %v", err)
	}
	hn, err := NewHann(33)
	if err != nil {
		t.Fatalf("NewHann: %v", err)
	}
	tc, hc := tk.Coefficients(), hn.Coefficients()
	for i := range tc {
		if !almostEqual(tc[i], hc[i], 1e-12) {
			t.Errorf("tukey(33, 1)[%d] = %g, hann = %g", i, tc[i], hc[i])
		}
	}
}

func TestKaiserShape(t *testing.T) {
	w, err := NewKaiser(9, DefaultKaiserBeta)
	if err != nil {
		t.Fatalf("NewKaiser: %v", err)
	}
	c := w.Coefficients()
	if c[4] != 1 {
		t.Errorf("kaiser center = %g, want 1", c[4])
	}
	if c[0] >= 0.01 {
		t.Errorf("kaiser(9, %g) endpoint = %g, want < 0.01", DefaultKaiserBeta, c[0])
	}
	for i := range 4 {
		if c[i] >= c[i+1] {
			t.Errorf("kaiser not increasing toward center: c[%d] = %g, c[%d] = %g", i, c[i], i+1, c[i+1])
		}
	}

	flat, err := NewKaiser(9, 0)
	if err != nil {
		t.Fatalf("NewKaiser beta 0: %v", err)
	}
	for i, v := range flat.Coefficients() {
		if v != 1 {
			t.Errorf("kaiser(9, 0)[%d] = %g, want 1", i, v)
		}
	}

	if _, err := NewKaiser(9, -1); err == nil {
		t.Error("negative beta accepted")
	}
}

func TestApply(t *testing.T) {
	w, err := NewHann(4)
	if err != nil {
		t.Fatalf("NewHann: %v", err)
	}

	signal := []float64{1, 1, 1, 1}
	windowed, err := w.Apply(signal)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i, c := range w.Coefficients() {
		if !almostEqual(windowed[i], c, tolerance) {
			t.Errorf("windowed[%d] = %g, want %g", i, windowed[i], c)
		}
	}
	// Apply must not touch the input.
	for _, v := range signal {
		if v != 1 {
			t.Fatalf("Apply modified its input: %v", signal)
		}
	}

	if _, err := w.Apply([]float64{1, 2}); err == nil {
		t.Error("length mismatch accepted")
	}

	if err := w.ApplyInPlace(signal); err != nil {
		t.Fatalf("ApplyInPlace: %v", err)
	}
	if signal[0] != 0 {
		t.Errorf("ApplyInPlace left signal[0] = %g", signal[0])
	}
	if err := w.ApplyInPlace([]float64{1}); err == nil {
		t.Error("length mismatch accepted in place")
	}
}

func TestCoefficientsReturnsCopy(t *testing.T) {
	w, err := NewHamming(8)
	if err != nil {
		t.Fatalf("NewHamming: %v", err)
	}
	c := w.Coefficients()
	c[0] = 42
	if w.Coefficients()[0] == 42 {
		t.Error("Coefficients exposes internal storage")
	}
}
