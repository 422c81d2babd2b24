package timeseries

import "fmt"

// Segment is a labeled half-open interval [Start, End) of absolute time,
// tied to the recording origin of the series it was defined against. A
// segment selects time-equivalent spans from any series sharing that
// origin, whatever their sample rates.
type Segment struct {
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Label  string  `json:"label,omitempty"`
	origin string
}

// NewSegment creates a segment over [start, end) against the origin of the
// reference series. end must lie after start and the reference must carry
// an origin tag.
func NewSegment(ref Series, start, end float64, label string) (*Segment, error) {
	if end <= start {
		return nil, fmt.Errorf("%w: [%gs, %gs)", ErrInvalidInterval, start, end)
	}
	if ref == nil || ref.Origin() == "" {
		return nil, fmt.Errorf("%w: reference series has no origin tag", ErrIncompatibleOrigin)
	}
	return &Segment{Start: start, End: end, Label: label, origin: ref.Origin()}, nil
}

// Duration returns the segment length in seconds.
func (s *Segment) Duration() float64 { return s.End - s.Start }

// Origin returns the recording-origin tag the segment was defined against.
func (s *Segment) Origin() string { return s.origin }

// checkOrigin verifies the target series belongs to the segment's recording.
func (s *Segment) checkOrigin(target Series) error {
	if target.Origin() == "" {
		return fmt.Errorf("%w: target series has no origin tag", ErrIncompatibleOrigin)
	}
	if target.Origin() != s.origin {
		return fmt.Errorf("%w: segment from %q, series from %q",
			ErrIncompatibleOrigin, s.origin, target.Origin())
	}
	return nil
}

// Apply extracts the segment's time span from a scalar series. The target
// may have any sample rate; boundary times convert to its index space via
// the shared time mapping. A segment straddling an edge clamps, one with no
// overlap fails with ErrOutOfRange, and a series from another recording
// fails with ErrIncompatibleOrigin. The segment label carries over.
func (s *Segment) Apply(ts *TimeSeries) (*TimeSeries, error) {
	if err := s.checkOrigin(ts); err != nil {
		return nil, err
	}
	out, err := ts.Slice(s.Start, s.End)
	if err != nil {
		return nil, err
	}
	if s.Label != "" {
		out.label = s.Label
	}
	return out, nil
}

// ApplyFrames extracts the segment's time span from a frame series, with
// the same semantics as Apply.
func (s *Segment) ApplyFrames(fs *FrameSeries) (*FrameSeries, error) {
	if err := s.checkOrigin(fs); err != nil {
		return nil, err
	}
	out, err := fs.Slice(s.Start, s.End)
	if err != nil {
		return nil, err
	}
	if s.Label != "" {
		out.label = s.Label
	}
	return out, nil
}

// SegmentList is an ordered sequence of segments, chronological by start
// time by convention. Overlap is legal; consumers that require disjoint
// segments must check for themselves.
type SegmentList []*Segment

// Duration returns the summed duration of all segments.
func (l SegmentList) Duration() float64 {
	total := 0.0
	for _, s := range l {
		total += s.Duration()
	}
	return total
}

// Apply extracts every segment's span from the series, in list order. The
// first failing segment aborts the whole application.
func (l SegmentList) Apply(ts *TimeSeries) ([]*TimeSeries, error) {
	out := make([]*TimeSeries, 0, len(l))
	for i, s := range l {
		sliced, err := s.Apply(ts)
		if err != nil {
			return nil, fmt.Errorf("segment %d (%q): %w", i, s.Label, err)
		}
		out = append(out, sliced)
	}
	return out, nil
}
