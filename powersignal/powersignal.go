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

// Package powersignal handles timestamped power consumption samples and the
// rolling CSV log they are kept in.
package powersignal

import (
	"fmt"
	"time"
)

// Sample is one timestamped power reading in watts.
type Sample struct {
	Timestamp time.Time
	Power     float64
}

// Signal is an ordered sequence of samples. Order defines the time axis
// index used by detection, so timestamps must be ascending.
type Signal []Sample

// Powers returns just the power values, in sample order.
func (s Signal) Powers() []float64 {
	out := make([]float64, len(s))
	for i, sample := range s {
		out[i] = sample.Power
	}
	return out
}

// Validate checks that timestamps never go backwards.
func (s Signal) Validate() error {
	for i := 1; i < len(s); i++ {
		if s[i].Timestamp.Before(s[i-1].Timestamp) {
			return fmt.Errorf("timestamps out of order at sample %d: %v before %v",
				i, s[i].Timestamp, s[i-1].Timestamp)
		}
	}
	return nil
}
