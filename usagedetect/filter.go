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

package usagedetect

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Coefficients holds the numerator (B) and denominator (A) of a digital IIR
// filter transfer function. A[0] is always 1.
type Coefficients struct {
	B []float64
	A []float64
}

// ButterworthLowpass designs a digital Butterworth lowpass filter of the
// given order. The cutoff is normalized against the Nyquist frequency
// (half the sample rate), the analog prototype poles are scaled to the
// prewarped cutoff and mapped to the z-plane with the bilinear transform.
func ButterworthLowpass(cutoff, sampleRate float64, order int) (Coefficients, error) {
	if sampleRate <= 0 {
		return Coefficients{}, NewInvalidParameterError(fmt.Sprintf("sample rate must be positive, got %g", sampleRate))
	}
	if order < 1 {
		return Coefficients{}, NewInvalidParameterError(fmt.Sprintf("filter order must be at least 1, got %d", order))
	}
	nyquist := 0.5 * sampleRate
	if cutoff <= 0 {
		return Coefficients{}, NewInvalidParameterError(fmt.Sprintf("cutoff frequency must be positive, got %g", cutoff))
	}
	if cutoff >= nyquist {
		return Coefficients{}, NewInvalidParameterError(fmt.Sprintf("cutoff frequency %gHz must be below the Nyquist limit %gHz", cutoff, nyquist))
	}
	wn := cutoff / nyquist

	// Analog Butterworth prototype: poles evenly spaced on the left half of
	// the unit circle, unity gain, no zeros.
	poles := make([]complex128, 0, order)
	for m := -order + 1; m < order; m += 2 {
		poles = append(poles, -cmplx.Exp(complex(0, math.Pi*float64(m)/float64(2*order))))
	}

	// Frequency scale to the prewarped cutoff (bilinear transform at a
	// nominal sample rate of 2).
	warped := 4 * math.Tan(math.Pi*wn/2)
	gain := 1.0
	for i := range poles {
		poles[i] *= complex(warped, 0)
		gain *= warped
	}

	// Bilinear transform to the z-plane. The analog zeros at infinity map to
	// z = -1 with the same multiplicity as the pole count.
	const fs2 = 4.0
	zPoles := make([]complex128, order)
	prod := complex(1, 0)
	for i, p := range poles {
		zPoles[i] = (fs2 + p) / (fs2 - p)
		prod *= fs2 - p
	}
	zGain := gain * real(1/prod)

	zZeros := make([]complex128, order)
	for i := range zZeros {
		zZeros[i] = -1
	}

	b := polynomial(zZeros)
	a := polynomial(zPoles)
	for i := range b {
		b[i] *= zGain
	}
	return Coefficients{B: b, A: a}, nil
}

// polynomial expands a monic polynomial from its roots, returning real
// coefficients in descending order. Complex roots are expected to occur in
// conjugate pairs so the imaginary parts cancel.
func polynomial(roots []complex128) []float64 {
	coeffs := make([]complex128, 1, len(roots)+1)
	coeffs[0] = 1
	for _, r := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * r
		}
		coeffs = next
	}
	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = real(c)
	}
	return out
}

// Filter runs a single causal forward pass of the filter over the signal
// (direct form II transposed, zero initial state). The output has the same
// length as the input. Being causal the filter introduces phase lag; that is
// acceptable here because only edges of the signal trend are consumed
// downstream.
func (c Coefficients) Filter(signal []float64) []float64 {
	n := len(c.A)
	if len(c.B) > n {
		n = len(c.B)
	}
	b := make([]float64, n)
	a := make([]float64, n)
	copy(b, c.B)
	copy(a, c.A)

	state := make([]float64, n-1)
	out := make([]float64, len(signal))
	for i, x := range signal {
		y := b[0]*x + state[0]
		for j := 0; j < n-2; j++ {
			state[j] = b[j+1]*x + state[j+1] - a[j+1]*y
		}
		state[n-2] = b[n-1]*x - a[n-1]*y
		out[i] = y
	}
	return out
}
