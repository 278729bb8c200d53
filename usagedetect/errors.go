package usagedetect

import "fmt"

// InvalidParameterError reports a malformed detector configuration. It is
// raised when the configuration is validated, before any data is processed.
type InvalidParameterError struct {
	msg string
}

func (e *InvalidParameterError) Error() string {
	return e.msg
}

func NewInvalidParameterError(msg string) error {
	return &InvalidParameterError{msg: msg}
}

// EmptySignalError reports an input signal too short to process. The
// derivative and convolution stages are undefined for fewer than two samples.
type EmptySignalError struct {
	Length int
}

func (e *EmptySignalError) Error() string {
	return fmt.Sprintf("signal of %d samples is too short to process, need at least 2", e.Length)
}

// UnpairedEventError reports an odd number of confirmed usage transitions
// after warm-up suppression, meaning a detected usage start has no matching
// stop. This usually means the signal was truncated mid-usage, or the kernel
// and threshold combination is malformed. Indices holds every detected
// transition so the caller can decide what to do with the unpaired one.
type UnpairedEventError struct {
	Indices []int
}

func (e *UnpairedEventError) Error() string {
	return fmt.Sprintf("odd number of usage transitions (%d), last usage start has no matching stop: %v", len(e.Indices), e.Indices)
}
