package timeseries

import "encoding/json"

// timeSeriesJSON is the wire shape of a TimeSeries. Sample rate, start time
// and payload survive a round trip exactly.
type timeSeriesJSON struct {
	SampleRate float64   `json:"sample_rate"`
	StartTime  float64   `json:"start_time"`
	Unit       string    `json:"unit,omitempty"`
	Label      string    `json:"label,omitempty"`
	Origin     string    `json:"origin,omitempty"`
	Data       []float64 `json:"data"`
}

// MarshalJSON implements json.Marshaler.
func (ts *TimeSeries) MarshalJSON() ([]byte, error) {
	return json.Marshal(timeSeriesJSON{
		SampleRate: ts.fs,
		StartTime:  ts.startTime,
		Unit:       ts.unit,
		Label:      ts.label,
		Origin:     ts.origin,
		Data:       ts.data,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *TimeSeries) UnmarshalJSON(b []byte) error {
	var w timeSeriesJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	restored, err := New(w.SampleRate, w.Data,
		WithStartTime(w.StartTime), WithUnit(w.Unit), WithLabel(w.Label), WithOrigin(w.Origin))
	if err != nil {
		return err
	}
	*ts = *restored
	return nil
}

// frameSeriesJSON is the wire shape of a FrameSeries.
type frameSeriesJSON struct {
	SampleRate float64     `json:"sample_rate"`
	StartTime  float64     `json:"start_time"`
	Dim        int         `json:"dim"`
	Unit       string      `json:"unit,omitempty"`
	Label      string      `json:"label,omitempty"`
	Origin     string      `json:"origin,omitempty"`
	Frames     [][]float64 `json:"frames"`
}

// MarshalJSON implements json.Marshaler.
func (fs *FrameSeries) MarshalJSON() ([]byte, error) {
	return json.Marshal(frameSeriesJSON{
		SampleRate: fs.fs,
		StartTime:  fs.startTime,
		Dim:        fs.dim,
		Unit:       fs.unit,
		Label:      fs.label,
		Origin:     fs.origin,
		Frames:     fs.frames,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (fs *FrameSeries) UnmarshalJSON(b []byte) error {
	var w frameSeriesJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	restored, err := NewFrames(w.SampleRate, w.Dim, w.Frames,
		WithStartTime(w.StartTime), WithUnit(w.Unit), WithLabel(w.Label), WithOrigin(w.Origin))
	if err != nil {
		return err
	}
	*fs = *restored
	return nil
}
