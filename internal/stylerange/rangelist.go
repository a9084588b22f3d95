package stylerange

// RangeList is an ordered list of finalized ranges.
type RangeList struct {
	ranges []Range
}

func (l *RangeList) Add(r Range) {
	l.ranges = append(l.ranges, r)
}

// Ranges returns the collected ranges in insertion order.
func (l *RangeList) Ranges() []Range {
	return l.ranges
}

func (l *RangeList) Len() int {
	return len(l.ranges)
}

// InsertCol accounts for a column inserted at col on sheet: ranges
// starting at or after col move one column right, ranges spanning col
// grow by one column.
func (l *RangeList) InsertCol(col, sheet int) {
	for i := range l.ranges {
		r := &l.ranges[i]
		if r.Sheet != sheet || r.EndCol < col {
			continue
		}
		if r.StartCol >= col {
			r.StartCol++
		}
		r.EndCol++
	}
}
