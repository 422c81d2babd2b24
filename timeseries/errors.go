package timeseries

import "errors"

// Domain error kinds. Operations wrap these with fmt.Errorf("%w: ...") so
// callers can branch with errors.Is while still seeing the offending values.
var (
	// ErrInvalidInterval reports a time or index interval whose end does not
	// lie after its start.
	ErrInvalidInterval = errors.New("interval end must be after start")

	// ErrOutOfRange reports an interval or position that does not intersect
	// the span of the target series.
	ErrOutOfRange = errors.New("position outside series range")

	// ErrIncompatibleOrigin reports an attempt to apply a segment or point to
	// a series recorded from a different origin, or with no origin at all.
	ErrIncompatibleOrigin = errors.New("incompatible series origin")

	// ErrMisalignedSeries reports parallel series whose frame timing
	// (sample rate, start time or length) disagrees.
	ErrMisalignedSeries = errors.New("misaligned series")
)
