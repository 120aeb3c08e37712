package echobase

import (
	"fmt"
	"rebelintel/internal/record"
)

// Evacuation holds the computed capacity figures of the evacuation plan.
// Values are int64 unless a float took part in the computation.
type Evacuation struct {
	MaxBasePersonnel             any
	MaxAvailableTransports       any
	MaxPassengerOverloadCapacity any
}

// ComputeEvacuation sums the garrison personnel counts and derives the
// overload capacity as transports * passengersPerTransport * multiplier.
func ComputeEvacuation(personnel *record.Record, transports, multiplier any, passengersPerTransport int64) (Evacuation, error) {
	total := number{}
	for _, key := range personnel.Keys() {
		value, _ := personnel.Get(key)
		n, err := asNumber(value)
		if err != nil {
			return Evacuation{}, fmt.Errorf("personnel %q: %w", key, err)
		}
		total = total.add(n)
	}

	available, err := asNumber(transports)
	if err != nil {
		return Evacuation{}, fmt.Errorf("num_available: %w", err)
	}
	factor, err := asNumber(multiplier)
	if err != nil {
		return Evacuation{}, fmt.Errorf("passenger_overload_multiplier: %w", err)
	}

	capacity := available.mul(number{i: passengersPerTransport}).mul(factor)
	return Evacuation{
		MaxBasePersonnel:             total.value(),
		MaxAvailableTransports:       available.value(),
		MaxPassengerOverloadCapacity: capacity.value(),
	}, nil
}
