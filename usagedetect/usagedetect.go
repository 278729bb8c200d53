/*
power-usage-detector - Detects active usage of an electrical device
Copyright (C) 2024, The Cacophony Project

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package usagedetect finds the active usage periods of an electrical device
// in a power consumption signal. The signal is denoised with a Butterworth
// lowpass filter, its derivative is smoothed to keep only significant
// changes, and a matched filter confirms the candidate periods that look
// like genuine usage. The rising and falling edges of the confirmed
// indicator give the usage start and stop times.
package usagedetect

import "fmt"

// DefaultKernel is the reference usage shape for the matched filter: a brief
// burst of change flanked by quiescence. A device with a different usage
// shape can substitute its own kernel.
var DefaultKernel = []float64{0, 0, 0, 1, 1, 1, 0, 0, 0}

// Config holds the tunable detection parameters. Every one of them
// materially changes detection sensitivity and should be calibrated to the
// device being monitored.
type Config struct {
	// SampleRate is the sampling frequency of the signal in Hz. The signal
	// is trusted to be uniformly sampled at this rate; it is not re-derived
	// from timestamps.
	SampleRate float64
	// Cutoff is the lowpass filter cutoff frequency in Hz. Must be below
	// half the sample rate.
	Cutoff float64
	// Order is the Butterworth filter order.
	Order int
	// SmoothThreshold is the band around zero within which trend values are
	// treated as no change. Pick it just above the noise floor of the
	// signal's derivative.
	SmoothThreshold float64
	// Kernel is the matched filter usage shape.
	Kernel []float64
	// WarmupSamples is the number of leading transitions to discard to
	// avoid false detections from the filter startup transient.
	WarmupSamples int
}

// DefaultConfig returns detection parameters that work well for a mains
// device sampled at 10Hz.
func DefaultConfig() Config {
	return Config{
		SampleRate:      10,
		Cutoff:          3,
		Order:           5,
		SmoothThreshold: 1.5,
		Kernel:          DefaultKernel,
		WarmupSamples:   10,
	}
}

// Validate checks the configuration without processing any data.
func (c Config) Validate() error {
	if _, err := ButterworthLowpass(c.Cutoff, c.SampleRate, c.Order); err != nil {
		return err
	}
	if c.WarmupSamples < 0 {
		return NewInvalidParameterError(fmt.Sprintf("warm-up sample count must not be negative, got %d", c.WarmupSamples))
	}
	if len(c.Kernel) == 0 {
		return NewInvalidParameterError("usage kernel is empty")
	}
	return nil
}

// Result holds the detected usage events along with the intermediate signal
// of each pipeline stage. The intermediate signals are diagnostic output for
// display and tuning, all the same length as the input signal.
type Result struct {
	Denoised  []float64
	Trend     []float64
	Candidate []float64
	Confirmed []float64
	Events    []Event
}

// Detect runs the full detection pipeline over a power signal and returns
// the usage events in chronological order. The configuration is validated
// before any data is touched.
//
// If event extraction fails with an UnpairedEventError the Result is still
// returned so the diagnostic signals from the completed stages can be
// inspected alongside the error.
func Detect(power []float64, conf Config) (*Result, error) {
	coeffs, err := ButterworthLowpass(conf.Cutoff, conf.SampleRate, conf.Order)
	if err != nil {
		return nil, err
	}
	if conf.WarmupSamples < 0 {
		return nil, NewInvalidParameterError(fmt.Sprintf("warm-up sample count must not be negative, got %d", conf.WarmupSamples))
	}
	if len(conf.Kernel) == 0 {
		return nil, NewInvalidParameterError("usage kernel is empty")
	}
	if len(power) < 2 {
		return nil, &EmptySignalError{Length: len(power)}
	}

	res := &Result{}
	res.Denoised = coeffs.Filter(power)
	res.Trend = Smooth(Derivative(res.Denoised), conf.SmoothThreshold)
	res.Candidate = ToIndicator(res.Trend)
	res.Confirmed, err = MatchPattern(res.Candidate, conf.Kernel)
	if err != nil {
		return nil, err
	}

	events, err := ExtractEvents(res.Confirmed, conf.WarmupSamples)
	if err != nil {
		return res, err
	}
	res.Events = events
	return res, nil
}
