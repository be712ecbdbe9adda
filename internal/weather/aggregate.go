package weather

// present filters out missing entries.
func present(values []*float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// Max returns the largest present value. ok is false when every entry is missing.
func Max(values []*float64) (max float64, ok bool) {
	vals := present(values)
	if len(vals) == 0 {
		return 0, false
	}
	max = vals[0]
	for _, v := range vals[1:] {
		if v > max {
			max = v
		}
	}
	return max, true
}

// Average returns the mean of the present values, dividing by their count.
// ok is false when every entry is missing.
func Average(values []*float64) (avg float64, ok bool) {
	vals := present(values)
	if len(vals) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals)), true
}

// Lookup returns values[i], or 0 when the entry is missing or out of range.
func Lookup(values []*float64, i int) float64 {
	if v := at(values, i); v != nil {
		return *v
	}
	return 0
}

// Truncate converts v to an integer, dropping the fraction toward zero.
func Truncate(v float64) int {
	return int(v)
}

// maxOf wraps Max for summary fields, where nil means unavailable.
func maxOf(values []*float64) *float64 {
	if m, ok := Max(values); ok {
		return &m
	}
	return nil
}
