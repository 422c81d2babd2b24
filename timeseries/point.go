package timeseries

import "fmt"

// Point marks a single absolute time instant on a recording, such as an
// onset or a note boundary supplied by an external annotator.
type Point struct {
	Time   float64 `json:"time"`
	Label  string  `json:"label,omitempty"`
	origin string
}

// NewPoint creates a point at absolute time t against the origin of the
// reference series.
func NewPoint(ref Series, t float64, label string) (*Point, error) {
	if ref == nil || ref.Origin() == "" {
		return nil, fmt.Errorf("%w: reference series has no origin tag", ErrIncompatibleOrigin)
	}
	return &Point{Time: t, Label: label, origin: ref.Origin()}, nil
}

// Origin returns the recording-origin tag the point was defined against.
func (p *Point) Origin() string { return p.origin }

// Index maps the point onto the nearest sample index of a compatible
// series, whatever its sample rate.
func (p *Point) Index(s Series) (int, error) {
	if s.Origin() == "" || s.Origin() != p.origin {
		return 0, fmt.Errorf("%w: point from %q, series from %q",
			ErrIncompatibleOrigin, p.origin, s.Origin())
	}
	i, err := indexAt(s.SampleRate(), s.StartTime(), s.Len(), p.Time)
	if err != nil {
		return 0, err
	}
	return i, nil
}

// Value reads the sample nearest to the point from a scalar series.
func (p *Point) Value(ts *TimeSeries) (float64, error) {
	i, err := p.Index(ts)
	if err != nil {
		return 0, err
	}
	return ts.At(i), nil
}

// PointList is an ordered sequence of points.
type PointList []*Point

// Values reads the sample nearest to every point from a scalar series.
func (l PointList) Values(ts *TimeSeries) ([]float64, error) {
	out := make([]float64, len(l))
	for i, p := range l {
		v, err := p.Value(ts)
		if err != nil {
			return nil, fmt.Errorf("point %d (%q): %w", i, p.Label, err)
		}
		out[i] = v
	}
	return out, nil
}

// Segments pairs consecutive points into half-open segments, a common way
// to turn onset annotations into note regions. Needs at least two points,
// strictly increasing in time.
func (l PointList) Segments(ref Series) (SegmentList, error) {
	if len(l) < 2 {
		return nil, fmt.Errorf("need at least two points, have %d", len(l))
	}
	segments := make(SegmentList, 0, len(l)-1)
	for i := 0; i+1 < len(l); i++ {
		seg, err := NewSegment(ref, l[i].Time, l[i+1].Time, l[i].Label)
		if err != nil {
			return nil, fmt.Errorf("points %d-%d: %w", i, i+1, err)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}
