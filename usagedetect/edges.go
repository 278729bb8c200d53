package usagedetect

// Event marks one active usage period as a pair of indices into the original
// sample sequence. Start is always less than Stop.
type Event struct {
	Start int
	Stop  int
}

// ExtractEvents locates the rising and falling edges of the confirmed usage
// indicator and pairs them into events. The derivative of the indicator is
// +1 at a usage start and -1 at a usage stop. Transitions within the first
// warmup samples are discarded unconditionally to suppress artifacts from
// the filter's startup transient.
//
// An odd number of surviving transitions returns an UnpairedEventError
// listing every transition index, so a trailing start without a stop is
// surfaced rather than silently dropped.
func ExtractEvents(confirmed []float64, warmup int) ([]Event, error) {
	transitions := Derivative(confirmed)
	for i := 0; i < warmup && i < len(transitions); i++ {
		transitions[i] = 0
	}

	indices := []int{}
	for i, v := range transitions {
		if v != 0 {
			indices = append(indices, i)
		}
	}
	if len(indices)%2 != 0 {
		return nil, &UnpairedEventError{Indices: indices}
	}

	events := make([]Event, 0, len(indices)/2)
	for i := 0; i < len(indices); i += 2 {
		events = append(events, Event{Start: indices[i], Stop: indices[i+1]})
	}
	return events, nil
}
