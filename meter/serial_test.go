package meter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFrame(t *testing.T) {
	power, err := parseFrame([]byte{0xAA, 0x00, 0x00, 0x63, 0x9C, 0x4D})
	assert.NoError(t, err)
	assert.InDelta(t, 25.5, power, 0.001)

	power, err = parseFrame([]byte{0xAA, 0x00, 0x00, 0x00, 0x00, 0x71})
	assert.NoError(t, err)
	assert.Equal(t, 0.0, power)

	power, err = parseFrame([]byte{0xAA, 0x00, 0x12, 0x7A, 0x38, 0xF0})
	assert.NoError(t, err)
	assert.InDelta(t, 1210.936, power, 0.001)
}

func TestParseFrameBadCRC(t *testing.T) {
	_, err := parseFrame([]byte{0xAA, 0x00, 0x00, 0x63, 0x9C, 0x00})
	assert.Equal(t, errBadFrameCRC, err)
}

func TestParseFrameBadHeader(t *testing.T) {
	_, err := parseFrame([]byte{0xAB, 0x00, 0x00, 0x63, 0x9C, 0x4D})
	assert.Error(t, err)
}

func TestParseFrameBadLength(t *testing.T) {
	_, err := parseFrame([]byte{0xAA, 0x00})
	assert.Error(t, err)
}
