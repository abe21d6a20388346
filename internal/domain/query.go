package domain

import (
	"errors"
	"fmt"
)

// Defaults applied when a request omits tuning parameters.
const (
	DefaultMaxRangeMiles       = 500.0
	DefaultFuelEfficiencyMPG   = 10.0
	DefaultBufferRangeMiles    = 50.0
	DefaultDeviationLimitMiles = 2.0
)

// ErrInvalidQuery reports a query whose parameters cannot produce a plan.
var ErrInvalidQuery = errors.New("invalid fuel query")

// Parameters of a single fuel route computation. All distance values are in
// miles; fuel efficiency is in miles per gallon.
type FuelQuery struct {
	Start  Coordinates
	Finish Coordinates

	// MaxRangeMiles is how far the vehicle can travel on a full tank.
	MaxRangeMiles float64

	FuelEfficiencyMPG float64

	// BufferRangeMiles is the safety margin subtracted from the maximum
	// range when searching for the next stop.
	BufferRangeMiles float64

	// DeviationLimitMiles is how far off the route corridor a station may
	// sit and still be considered.
	DeviationLimitMiles float64
}

// ApplyDefaults fills zero-valued tuning parameters with fleet defaults.
func (q *FuelQuery) ApplyDefaults() {
	if q.MaxRangeMiles == 0 {
		q.MaxRangeMiles = DefaultMaxRangeMiles
	}
	if q.FuelEfficiencyMPG == 0 {
		q.FuelEfficiencyMPG = DefaultFuelEfficiencyMPG
	}
	if q.BufferRangeMiles == 0 {
		q.BufferRangeMiles = DefaultBufferRangeMiles
	}
	if q.DeviationLimitMiles == 0 {
		q.DeviationLimitMiles = DefaultDeviationLimitMiles
	}
}

// Validate checks that every tuning parameter is strictly positive and that
// the buffer range leaves a usable feasibility window.
func (q *FuelQuery) Validate() error {
	if q.MaxRangeMiles <= 0 {
		return fmt.Errorf("%w: max_range_miles must be positive", ErrInvalidQuery)
	}
	if q.FuelEfficiencyMPG <= 0 {
		return fmt.Errorf("%w: fuel_efficiency_mpg must be positive", ErrInvalidQuery)
	}
	if q.BufferRangeMiles <= 0 {
		return fmt.Errorf("%w: buffer_range_miles must be positive", ErrInvalidQuery)
	}
	if q.DeviationLimitMiles <= 0 {
		return fmt.Errorf("%w: deviation_limit_miles must be positive", ErrInvalidQuery)
	}
	if q.BufferRangeMiles >= q.MaxRangeMiles {
		return fmt.Errorf("%w: buffer_range_miles must be less than max_range_miles", ErrInvalidQuery)
	}
	return nil
}
