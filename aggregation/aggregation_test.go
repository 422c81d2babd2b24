package aggregation

import (
	"math"
	"testing"

	"github.com/rubato-audio/rubato/timeseries"
)

const tolerance = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func constant(t *testing.T, value float64, fs float64, n int) *timeseries.TimeSeries {
	t.Helper()
	data := make([]float64, n)
	for i := range data {
		data[i] = value
	}
	ts, err := timeseries.New(fs, data, timeseries.WithOrigin("take1"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ts
}

func ramp(t *testing.T, fs float64, n int) *timeseries.TimeSeries {
	t.Helper()
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i)
	}
	ts, err := timeseries.New(fs, data, timeseries.WithOrigin("take1"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ts
}

func mean(frame []float64) float64 {
	sum := 0.0
	for _, v := range frame {
		sum += v
	}
	return sum / float64(len(frame))
}

func TestFrameCount(t *testing.T) {
	cases := []struct {
		n, ws, hs, want int
	}{
		{1000, 100, 50, 19},
		{1000, 100, 100, 10},
		{1000, 1000, 100, 1},
		{999, 1000, 100, 0},
		{100, 100, 1, 1},
		{101, 100, 1, 2},
		{2048, 2048, 512, 1},
		{2560, 2048, 512, 2},
		{0, 100, 50, 0},
		{1000, 100, 300, 4}, // hop larger than window is legal
	}
	for _, tc := range cases {
		if got := FrameCount(tc.n, tc.ws, tc.hs); got != tc.want {
			t.Errorf("FrameCount(%d, %d, %d) = %d, want %d", tc.n, tc.ws, tc.hs, got, tc.want)
		}
	}
}

func TestAggregateConstant(t *testing.T) {
	fs := 1000.0
	src := constant(t, 3.5, fs, 1000)
	cfg := Config{WindowSize: 100, HopSize: 50}

	out, err := Aggregate(src, cfg, mean)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if out.Len() != 19 {
		t.Errorf("Len = %d, want 19", out.Len())
	}
	for i := range out.Data() {
		if !almostEqual(out.At(i), 3.5, tolerance) {
			t.Fatalf("frame %d = %g, want 3.5", i, out.At(i))
		}
	}
	if !almostEqual(out.SampleRate(), fs/50, tolerance) {
		t.Errorf("SampleRate = %g, want %g", out.SampleRate(), fs/50)
	}
	wantStart := 100.0 / (2 * fs)
	if !almostEqual(out.StartTime(), wantStart, tolerance) {
		t.Errorf("StartTime = %g, want %g", out.StartTime(), wantStart)
	}
	if out.Origin() != "take1" {
		t.Errorf("Origin = %q, not inherited", out.Origin())
	}
}

func TestAggregateOrderIsDeterministic(t *testing.T) {
	// Enough frames to spin up the full worker pool.
	src := ramp(t, 48000, 60000)
	cfg := Config{WindowSize: 64, HopSize: 10}

	first := func(frame []float64) float64 { return frame[0] }
	out, err := Aggregate(src, cfg, first)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	want := FrameCount(60000, 64, 10)
	if out.Len() != want {
		t.Fatalf("Len = %d, want %d", out.Len(), want)
	}
	for i := range out.Data() {
		if out.At(i) != float64(i*10) {
			t.Fatalf("frame %d = %g, want %d", i, out.At(i), i*10)
		}
	}
}

func TestAggregateLeavesSourceUntouched(t *testing.T) {
	src := constant(t, 1, 100, 500)
	cfg := Config{WindowSize: 100, HopSize: 50, Window: "hann"}

	if _, err := Aggregate(src, cfg, mean); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	for i, v := range src.Data() {
		if v != 1 {
			t.Fatalf("source sample %d = %g after windowed aggregation", i, v)
		}
	}
}

func TestAggregateWindowShaping(t *testing.T) {
	src := constant(t, 1, 100, 200)
	plain := Config{WindowSize: 100, HopSize: 100}
	shaped := Config{WindowSize: 100, HopSize: 100, Window: "hann"}

	sum := func(frame []float64) float64 {
		s := 0.0
		for _, v := range frame {
			s += v
		}
		return s
	}

	full, err := Aggregate(src, plain, sum)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	tapered, err := Aggregate(src, shaped, sum)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if full.At(0) != 100 {
		t.Errorf("unshaped sum = %g, want 100", full.At(0))
	}
	// A Hann window halves the area of a constant frame.
	if math.Abs(tapered.At(0)-50) > 1 {
		t.Errorf("hann-shaped sum = %g, want about 50", tapered.At(0))
	}
}

func TestAggregateShortSeries(t *testing.T) {
	src := constant(t, 1, 100, 50)
	cfg := Config{WindowSize: 100, HopSize: 50}

	out, err := Aggregate(src, cfg, mean)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Len = %d, want 0", out.Len())
	}
	if !almostEqual(out.SampleRate(), 2, tolerance) {
		t.Errorf("SampleRate = %g, want 2", out.SampleRate())
	}
}

func TestAggregateConfigValidation(t *testing.T) {
	src := constant(t, 1, 100, 500)

	if _, err := Aggregate(src, Config{WindowSize: 0, HopSize: 50}, mean); err == nil {
		t.Error("zero window size accepted")
	}
	if _, err := Aggregate(src, Config{WindowSize: 100, HopSize: 0}, mean); err == nil {
		t.Error("zero hop size accepted")
	}
	if _, err := Aggregate(src, Config{WindowSize: 100, HopSize: 50, Window: "nope"}, mean); err == nil {
		t.Error("unknown window accepted")
	}
}

func TestAggregateVector(t *testing.T) {
	src := ramp(t, 1000, 1000)
	cfg := Config{WindowSize: 100, HopSize: 100}

	bounds := func(frame []float64) []float64 {
		return []float64{frame[0], frame[len(frame)-1]}
	}
	out, err := AggregateVector(src, cfg, 2, bounds)
	if err != nil {
		t.Fatalf("AggregateVector: %v", err)
	}

	if out.Len() != 10 || out.Dim() != 2 {
		t.Fatalf("shape = %dx%d, want 10x2", out.Len(), out.Dim())
	}
	if out.At(3, 0) != 300 || out.At(3, 1) != 399 {
		t.Errorf("frame 3 = %v, want [300 399]", out.Frame(3))
	}
	if !almostEqual(out.SampleRate(), 10, tolerance) {
		t.Errorf("SampleRate = %g, want 10", out.SampleRate())
	}

	short := func(frame []float64) []float64 { return []float64{1} }
	if _, err := AggregateVector(src, cfg, 2, short); err == nil {
		t.Error("wrong reduction dimension accepted")
	}
}

func TestMapFrames(t *testing.T) {
	frames := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	src, err := timeseries.NewFrames(10, 2, frames,
		timeseries.WithStartTime(0.5), timeseries.WithOrigin("take1"))
	if err != nil {
		t.Fatalf("NewFrames: %v", err)
	}

	sums, err := MapFrames(src, func(frame []float64) float64 { return frame[0] + frame[1] })
	if err != nil {
		t.Fatalf("MapFrames: %v", err)
	}
	want := []float64{3, 7, 11}
	for i, w := range want {
		if sums.At(i) != w {
			t.Errorf("frame %d = %g, want %g", i, sums.At(i), w)
		}
	}
	if sums.SampleRate() != 10 || sums.StartTime() != 0.5 {
		t.Errorf("timing changed: %g@%g", sums.SampleRate(), sums.StartTime())
	}
}

func TestPairwise(t *testing.T) {
	frames := [][]float64{{1}, {4}, {9}}
	src, err := timeseries.NewFrames(10, 1, frames,
		timeseries.WithStartTime(1), timeseries.WithOrigin("take1"))
	if err != nil {
		t.Fatalf("NewFrames: %v", err)
	}

	diffs, err := Pairwise(src, func(prev, cur []float64) float64 { return cur[0] - prev[0] })
	if err != nil {
		t.Fatalf("Pairwise: %v", err)
	}
	if diffs.Len() != 2 {
		t.Fatalf("Len = %d, want 2", diffs.Len())
	}
	if diffs.At(0) != 3 || diffs.At(1) != 5 {
		t.Errorf("diffs = %v, want [3 5]", diffs.Data())
	}
	if !almostEqual(diffs.StartTime(), 1.1, tolerance) {
		t.Errorf("StartTime = %g, want 1.1", diffs.StartTime())
	}
}
