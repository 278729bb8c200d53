package usagedetect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEvents(t *testing.T) {
	confirmed := []float64{0, 0, 1, 1, 0, 0}
	events, err := ExtractEvents(confirmed, 0)
	assert.NoError(t, err)
	assert.Equal(t, []Event{{Start: 1, Stop: 3}}, events)
}

func TestExtractEventsMultiple(t *testing.T) {
	confirmed := []float64{0, 1, 1, 0, 0, 0, 1, 1, 1, 0}
	events, err := ExtractEvents(confirmed, 0)
	assert.NoError(t, err)
	assert.Len(t, events, 2)

	// Events are chronological, non overlapping, start before stop.
	last := -1
	for _, e := range events {
		assert.Less(t, e.Start, e.Stop)
		assert.Greater(t, e.Start, last)
		last = e.Stop
	}
}

func TestExtractEventsNone(t *testing.T) {
	events, err := ExtractEvents([]float64{0, 0, 0, 0}, 0)
	assert.NoError(t, err)
	assert.Empty(t, events)

	// An indicator that is high the whole way has no transitions either,
	// the trailing sample duplication avoids a phantom falling edge.
	events, err = ExtractEvents([]float64{1, 1, 1, 1}, 0)
	assert.NoError(t, err)
	assert.Empty(t, events)
}

func TestExtractEventsWarmup(t *testing.T) {
	confirmed := []float64{0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 0}
	events, err := ExtractEvents(confirmed, 10)
	assert.NoError(t, err)
	assert.Equal(t, []Event{{Start: 10, Stop: 12}}, events)
}

func TestExtractEventsUnpaired(t *testing.T) {
	// Usage still active when the signal ends: rising edge only.
	confirmed := []float64{0, 0, 0, 1, 1, 1}
	_, err := ExtractEvents(confirmed, 0)
	assert.Error(t, err)

	var unpaired *UnpairedEventError
	assert.True(t, errors.As(err, &unpaired))
	assert.Equal(t, []int{2}, unpaired.Indices)
}

func TestExtractEventsWarmupCanUnpair(t *testing.T) {
	// Warm-up suppression swallowing a rising edge leaves its falling edge
	// unpaired, which must be surfaced rather than silently dropped.
	confirmed := []float64{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0}
	_, err := ExtractEvents(confirmed, 10)
	assert.Error(t, err)

	var unpaired *UnpairedEventError
	assert.True(t, errors.As(err, &unpaired))
	assert.Equal(t, []int{11}, unpaired.Indices)
}
