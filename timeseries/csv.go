package timeseries

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// SaveCSV writes the list as start,end,label rows. Times round-trip
// losslessly through the shortest exact decimal form.
func (l SegmentList) SaveCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	for i, s := range l {
		row := []string{
			strconv.FormatFloat(s.Start, 'g', -1, 64),
			strconv.FormatFloat(s.End, 'g', -1, 64),
			s.Label,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write segment %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadSegmentsCSV reads start,end[,label] rows into a SegmentList tied to
// the reference series' origin. Annotation tools commonly emit exactly this
// shape for note and phrase boundaries.
func LoadSegmentsCSV(r io.Reader, ref Series) (SegmentList, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var segments SegmentList
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("line %d: want start,end[,label], have %d fields", line, len(row))
		}
		start, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: start: %w", line, err)
		}
		end, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: end: %w", line, err)
		}
		label := ""
		if len(row) > 2 {
			label = row[2]
		}
		seg, err := NewSegment(ref, start, end, label)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// LoadPointsCSV reads time[,label] rows into a PointList tied to the
// reference series' origin, the usual shape of onset annotation files.
func LoadPointsCSV(r io.Reader, ref Series) (PointList, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var points PointList
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(row) < 1 {
			continue
		}
		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: time: %w", line, err)
		}
		label := ""
		if len(row) > 1 {
			label = row[1]
		}
		p, err := NewPoint(ref, t, label)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, p)
	}
	return points, nil
}
