package usagedetect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-9

func TestButterworthFirstOrder(t *testing.T) {
	// Normalized cutoff of 0.5 has a known closed form solution.
	coeffs, err := ButterworthLowpass(1, 4, 1)
	assert.NoError(t, err)
	assert.Len(t, coeffs.B, 2)
	assert.Len(t, coeffs.A, 2)
	assert.InDelta(t, 0.5, coeffs.B[0], tolerance)
	assert.InDelta(t, 0.5, coeffs.B[1], tolerance)
	assert.InDelta(t, 1.0, coeffs.A[0], tolerance)
	assert.InDelta(t, 0.0, coeffs.A[1], tolerance)
}

func TestButterworthSecondOrder(t *testing.T) {
	coeffs, err := ButterworthLowpass(1, 4, 2)
	assert.NoError(t, err)
	assert.InDelta(t, 0.29289321881345254, coeffs.B[0], tolerance)
	assert.InDelta(t, 0.5857864376269051, coeffs.B[1], tolerance)
	assert.InDelta(t, 0.29289321881345254, coeffs.B[2], tolerance)
	assert.InDelta(t, 1.0, coeffs.A[0], tolerance)
	assert.InDelta(t, 0.0, coeffs.A[1], tolerance)
	assert.InDelta(t, 0.17157287525380988, coeffs.A[2], tolerance)
}

func TestButterworthFifthOrder(t *testing.T) {
	// 3Hz cutoff at 10Hz sampling, the default detection parameters.
	coeffs, err := ButterworthLowpass(3, 10, 5)
	assert.NoError(t, err)

	expectedB := []float64{
		0.10837370258747996,
		0.5418685129373998,
		1.0837370258747996,
		1.0837370258747996,
		0.5418685129373998,
		0.10837370258747996,
	}
	expectedA := []float64{
		1.0,
		0.9853252392792378,
		0.9738493318367639,
		0.38635655864844864,
		0.11116384057834201,
		0.011263512456565873,
	}
	assert.Len(t, coeffs.B, 6)
	assert.Len(t, coeffs.A, 6)
	for i := range expectedB {
		assert.InDelta(t, expectedB[i], coeffs.B[i], tolerance)
		assert.InDelta(t, expectedA[i], coeffs.A[i], tolerance)
	}
}

func TestButterworthUnityDCGain(t *testing.T) {
	// A lowpass filter must pass DC unchanged.
	for _, order := range []int{1, 2, 3, 5, 8} {
		coeffs, err := ButterworthLowpass(3, 10, order)
		assert.NoError(t, err)
		var sumB, sumA float64
		for _, b := range coeffs.B {
			sumB += b
		}
		for _, a := range coeffs.A {
			sumA += a
		}
		assert.InDelta(t, 1.0, sumB/sumA, 1e-6)
	}
}

func TestButterworthValidation(t *testing.T) {
	var invalid *InvalidParameterError

	// Cutoff at or above the Nyquist limit.
	_, err := ButterworthLowpass(5, 10, 5)
	assert.Error(t, err)
	assert.True(t, errors.As(err, &invalid))

	_, err = ButterworthLowpass(7, 10, 5)
	assert.Error(t, err)
	assert.True(t, errors.As(err, &invalid))

	_, err = ButterworthLowpass(0, 10, 5)
	assert.Error(t, err)
	assert.True(t, errors.As(err, &invalid))

	_, err = ButterworthLowpass(3, 0, 5)
	assert.Error(t, err)
	assert.True(t, errors.As(err, &invalid))

	_, err = ButterworthLowpass(3, 10, 0)
	assert.Error(t, err)
	assert.True(t, errors.As(err, &invalid))
}

func TestFilterKnownResponse(t *testing.T) {
	coeffs, err := ButterworthLowpass(1, 4, 2)
	assert.NoError(t, err)

	out := coeffs.Filter([]float64{1, 2, 3, 4, 5})
	expected := []float64{
		0.2928932188134524,
		1.1715728752538097,
		2.2928932188134525,
		3.3137084989847603,
		4.292893218813452,
	}
	assert.Len(t, out, 5)
	for i := range expected {
		assert.InDelta(t, expected[i], out[i], tolerance)
	}
}

func TestFilterSettlesToConstant(t *testing.T) {
	coeffs, err := ButterworthLowpass(3, 10, 5)
	assert.NoError(t, err)

	signal := make([]float64, 200)
	for i := range signal {
		signal[i] = 1
	}
	out := coeffs.Filter(signal)
	assert.Len(t, out, len(signal))
	assert.InDelta(t, 1.0, out[len(out)-1], 1e-6)
}

func TestFilterPreservesLength(t *testing.T) {
	coeffs, err := ButterworthLowpass(3, 10, 5)
	assert.NoError(t, err)
	for _, n := range []int{2, 3, 17, 100} {
		assert.Len(t, coeffs.Filter(make([]float64, n)), n)
	}
}
