package audio

import "math"

// Sinusoid synthesizes n samples of amplitude*sin(2*pi*freq*t + phase).
// With softStart the first 5 ms ramp up linearly, avoiding the click of an
// abrupt onset.
func Sinusoid(amplitude, freq, phase, sampleRate float64, n int, softStart bool) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate+phase)
	}
	if softStart {
		fadeIn(data, sampleRate)
	}
	return data
}

// HarmonicTone synthesizes n samples of numPartials harmonics of f0, the
// amplitude of partial h decaying as 1/h.
func HarmonicTone(f0, sampleRate float64, numPartials, n int, softStart bool) []float64 {
	data := make([]float64, n)
	for i := range data {
		t := float64(i) / sampleRate
		for h := 1; h <= numPartials; h++ {
			data[i] += math.Sin(2*math.Pi*f0*float64(h)*t) / float64(h)
		}
	}
	if softStart {
		fadeIn(data, sampleRate)
	}
	return data
}

// fadeIn scales the first 5 ms by a linear ramp from 0 to 1.
func fadeIn(data []float64, sampleRate float64) {
	ramp := min(int(sampleRate*0.005), len(data))
	if ramp < 2 {
		return
	}
	for i := 0; i < ramp; i++ {
		data[i] *= float64(i) / float64(ramp-1)
	}
}
