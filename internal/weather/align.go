package weather

import "strings"

// HoursPerDay is the length of an hourly slice for one calendar date.
const HoursPerDay = 24

// Range is a half-open index range [Start, End) into an hourly series.
type Range struct {
	Start int
	End   int
}

// Len returns the number of entries covered by r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Slice returns the entries of values covered by r.
func (r Range) Slice(values []*float64) []*float64 {
	if r.Start < 0 || r.End > len(values) || r.Start > r.End {
		return nil
	}
	return values[r.Start:r.End]
}

// LocateDay returns the index i such that times[i] == date.
func LocateDay(times []string, date string) (int, error) {
	for i, t := range times {
		if t == date {
			return i, nil
		}
	}
	return -1, ErrAlignmentNotFound
}

// LocateHours returns the 24 hourly entries starting at the first timestamp
// that begins with date. A partial day is reported as not found.
func LocateHours(times []string, date string) (Range, error) {
	if date == "" {
		return Range{}, ErrAlignmentNotFound
	}
	for i, t := range times {
		if !strings.HasPrefix(t, date) {
			continue
		}
		if i+HoursPerDay > len(times) {
			return Range{}, ErrAlignmentNotFound
		}
		return Range{Start: i, End: i + HoursPerDay}, nil
	}
	return Range{}, ErrAlignmentNotFound
}
