package services

import (
	"slices"

	"fuel-route-service/internal/domain"
)

// A station paired with its great-circle distance from the query start.
// The distance fixes the candidate ordering for the selector; it is not a
// road distance.
type CandidateStation struct {
	Station        *domain.Station
	MilesFromStart float64
}

// StationsNearRoute narrows the catalog to stations within deviationMiles of
// any decoded route point, deduplicated by stop ID and sorted ascending by
// distance from start. The first route point to match a station wins; the
// station's attributes do not change across points.
//
// An empty result is valid. The selector decides whether that is terminal.
func StationsNearRoute(
	idx *StationIndex,
	path []domain.Coordinates,
	start domain.Coordinates,
	deviationMiles float64,
) []CandidateStation {
	seen := make(map[int]struct{})
	candidates := make([]CandidateStation, 0, 64)

	for _, pt := range path {
		for _, s := range idx.WithinMiles(pt, deviationMiles) {
			if _, ok := seen[s.StopID]; ok {
				continue
			}
			seen[s.StopID] = struct{}{}

			candidates = append(candidates, CandidateStation{
				Station:        s,
				MilesFromStart: start.MilesTo(s.Coordinates()),
			})
		}
	}

	// Stable base ordering: the selector reuses it for deterministic
	// truncation, so ties fall back to stop ID.
	slices.SortStableFunc(candidates, func(a, b CandidateStation) int {
		if a.MilesFromStart < b.MilesFromStart {
			return -1
		}
		if a.MilesFromStart > b.MilesFromStart {
			return 1
		}
		if a.Station.StopID < b.Station.StopID {
			return -1
		}
		if a.Station.StopID > b.Station.StopID {
			return 1
		}
		return 0
	})

	return candidates
}
