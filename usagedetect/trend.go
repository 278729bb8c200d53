package usagedetect

// Derivative computes forward differences of the signal. The last sample is
// duplicated before differencing so the output keeps the input length; the
// final entry is therefore always zero.
func Derivative(signal []float64) []float64 {
	out := make([]float64, len(signal))
	if len(signal) == 0 {
		return out
	}
	for i := 0; i < len(signal)-1; i++ {
		out[i] = signal[i+1] - signal[i]
	}
	return out
}

// Smooth zeroes every value whose magnitude is strictly below the threshold,
// removing small fluctuations around zero. Applied to a signal derivative
// this denoises constant levels without needing a lowpass filter with a very
// small cutoff, which would lose data. Values outside the band pass through
// unchanged. A threshold of zero or less leaves the signal untouched.
func Smooth(signal []float64, threshold float64) []float64 {
	out := make([]float64, len(signal))
	for i, v := range signal {
		if -threshold < v && v < threshold {
			out[i] = 0
		} else {
			out[i] = v
		}
	}
	return out
}
