package analysis

// ZeroCrossings returns the interpolated times at which values goes from
// negative to non-negative.
func ZeroCrossings(times, values []float64) []float64 {
	var out []float64
	for i := 1; i < len(values) && i < len(times); i++ {
		prev, curr := values[i-1], values[i]
		if prev < 0 && curr >= 0 {
			frac := -prev / (curr - prev)
			out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	return out
}

// Period is the mean spacing of upward zero crossings.
func Period(times, values []float64) (float64, error) {
	crossings := ZeroCrossings(times, values)
	if len(crossings) < 2 {
		return 0, ErrNoOscillation
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1), nil
}
