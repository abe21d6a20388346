package services

import (
	"fmt"

	"fuel-route-service/internal/domain"
)

const (
	// innerMarginMiles keeps each stop at least this far inside the
	// vehicle's maximum range.
	innerMarginMiles = 25.0

	// bufferStepMiles is how much the buffer range grows when no station
	// falls inside the feasibility window.
	bufferStepMiles = 25.0
)

// SelectStops chooses refueling stops with a greedy feasibility-window
// search.
//
// At each step the window is [maxRange-buffer, maxRange-25] miles from the
// current position. The cheapest station inside the window wins; ties go to
// the candidate earlier in the base order, which is the one closer to the
// query start. When the window is empty the buffer grows by 25 miles and
// the step retries from the same position; the search fails once
// buffer+25 would exceed the maximum range. After a selection the candidate
// list is truncated strictly past the chosen station and the buffer resets,
// so no station is ever considered twice. The search ends as soon as the
// finish is within maximum range of the current position.
//
// The algorithm minimizes per-stop price, not global cost. The design
// prioritizes determinism and simplicity over optimality.
func SelectStops(query *domain.FuelQuery, candidates []CandidateStation) ([]domain.SelectedStop, error) {
	current := query.Start
	buffer := query.BufferRangeMiles
	remaining := candidates

	stops := []domain.SelectedStop{}

	for {
		low := query.MaxRangeMiles - buffer
		high := query.MaxRangeMiles - innerMarginMiles

		best := -1
		var bestMiles float64
		for i := range remaining {
			d := current.MilesTo(remaining[i].Station.Coordinates())
			if d < low || d > high {
				continue
			}
			// Strict less-than keeps the earlier candidate on price ties.
			if best == -1 || remaining[i].Station.PricePerGallon < remaining[best].Station.PricePerGallon {
				best = i
				bestMiles = d
			}
		}

		if best == -1 {
			buffer += bufferStepMiles
			if buffer+bufferStepMiles > query.MaxRangeMiles {
				return nil, fmt.Errorf("select stops: %w", ErrNoFeasibleStop)
			}
			continue
		}

		chosen := remaining[best]
		stops = append(stops, domain.SelectedStop{
			Station:       chosen.Station,
			MilesFromPrev: bestMiles,
		})
		current = chosen.Station.Coordinates()

		if current.MilesTo(query.Finish) <= query.MaxRangeMiles {
			return stops, nil
		}

		remaining = remaining[best+1:]
		buffer = query.BufferRangeMiles
	}
}
