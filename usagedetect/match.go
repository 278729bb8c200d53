package usagedetect

import "fmt"

// ToIndicator maps a smoothed trend signal to a binary candidate indicator,
// 1 where the trend is nonzero and 0 elsewhere.
func ToIndicator(signal []float64) []float64 {
	out := make([]float64, len(signal))
	for i, v := range signal {
		if v != 0 {
			out[i] = 1
		}
	}
	return out
}

// MatchPattern convolves the usage kernel against the candidate indicator
// and sign-reduces the response to a binary confirmed-usage indicator.
// The convolution uses "same"-length semantics with the kernel centered, so
// the output keeps the indicator's length. Any positive response becomes 1,
// anything else 0. Transient spikes that don't match the expected usage
// shape are rejected because the kernel response never goes positive around
// them in isolation.
func MatchPattern(indicator, kernel []float64) ([]float64, error) {
	if len(kernel) == 0 {
		return nil, NewInvalidParameterError("usage kernel is empty")
	}
	if len(kernel) > len(indicator) {
		return nil, NewInvalidParameterError(fmt.Sprintf("usage kernel of %d samples is longer than the signal of %d samples", len(kernel), len(indicator)))
	}
	conv := convolveSame(indicator, kernel)
	out := make([]float64, len(conv))
	for i, v := range conv {
		if v > 0 {
			out[i] = 1
		}
	}
	return out, nil
}

// convolveSame computes the linear convolution of signal and kernel, keeping
// only the centered len(signal) samples of the full result.
func convolveSame(signal, kernel []float64) []float64 {
	offset := (len(kernel) - 1) / 2
	out := make([]float64, len(signal))
	for i := range out {
		var sum float64
		for k, kv := range kernel {
			j := i + offset - k
			if j >= 0 && j < len(signal) {
				sum += kv * signal[j]
			}
		}
		out[i] = sum
	}
	return out
}
