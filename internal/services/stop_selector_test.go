package services

import (
	"errors"
	"math"
	"slices"
	"testing"

	"fuel-route-service/internal/domain"
)

// candidateList builds the selector input in base order (ascending distance
// from the origin), the way StationsNearRoute produces it.
func candidateList(stations ...*domain.Station) []CandidateStation {
	start := domain.Coordinates{}
	out := make([]CandidateStation, 0, len(stations))
	for _, s := range stations {
		out = append(out, CandidateStation{
			Station:        s,
			MilesFromStart: start.MilesTo(s.Coordinates()),
		})
	}
	slices.SortStableFunc(out, func(a, b CandidateStation) int {
		switch {
		case a.MilesFromStart < b.MilesFromStart:
			return -1
		case a.MilesFromStart > b.MilesFromStart:
			return 1
		default:
			return 0
		}
	})
	return out
}

func selectorQuery(finishMiles float64) *domain.FuelQuery {
	return &domain.FuelQuery{
		Start:               domain.Coordinates{},
		Finish:              domain.Coordinates{Lat: 0, Lon: finishMiles / milesPerDegree},
		MaxRangeMiles:       500,
		FuelEfficiencyMPG:   10,
		BufferRangeMiles:    50,
		DeviationLimitMiles: 2,
	}
}

func TestSelectStopsPicksCheapestInWindow(t *testing.T) {
	candidates := candidateList(
		stationAt(1, 455, 3.5),
		stationAt(2, 460, 3.0),
		stationAt(3, 470, 3.4),
	)

	stops, err := SelectStops(selectorQuery(600), candidates)
	if err != nil {
		t.Fatalf("SelectStops: %v", err)
	}
	if len(stops) != 1 {
		t.Fatalf("got %d stops, want 1", len(stops))
	}
	if stops[0].Station.StopID != 2 {
		t.Errorf("chose stop %d, want 2 (cheapest in window)", stops[0].Station.StopID)
	}
	if math.Abs(stops[0].MilesFromPrev-460) > 0.01 {
		t.Errorf("MilesFromPrev = %v, want ~460", stops[0].MilesFromPrev)
	}
}

func TestSelectStopsPriceTieGoesToEarlierCandidate(t *testing.T) {
	candidates := candidateList(
		stationAt(5, 455, 3.0),
		stationAt(4, 465, 3.0),
	)

	stops, err := SelectStops(selectorQuery(600), candidates)
	if err != nil {
		t.Fatalf("SelectStops: %v", err)
	}
	if len(stops) != 1 || stops[0].Station.StopID != 5 {
		t.Fatalf("stops = %+v, want single stop 5 (earlier on tie)", stops)
	}
}

func TestSelectStopsGrowsBufferWhenWindowEmpty(t *testing.T) {
	// 420 miles out is below the initial [450, 475] window. Two buffer
	// growth steps widen it to [400, 475].
	candidates := candidateList(stationAt(1, 420, 3.0))

	stops, err := SelectStops(selectorQuery(600), candidates)
	if err != nil {
		t.Fatalf("SelectStops: %v", err)
	}
	if len(stops) != 1 || stops[0].Station.StopID != 1 {
		t.Fatalf("stops = %+v, want single stop 1", stops)
	}
}

func TestSelectStopsFailsWithNoCandidates(t *testing.T) {
	_, err := SelectStops(selectorQuery(600), nil)
	if !errors.Is(err, ErrNoFeasibleStop) {
		t.Fatalf("err = %v, want ErrNoFeasibleStop", err)
	}
}

func TestSelectStopsFailsWhenAllCandidatesTooClose(t *testing.T) {
	// Even a fully grown buffer never reaches a station 10 miles out.
	candidates := candidateList(stationAt(1, 10, 2.0))

	_, err := SelectStops(selectorQuery(600), candidates)
	if !errors.Is(err, ErrNoFeasibleStop) {
		t.Fatalf("err = %v, want ErrNoFeasibleStop", err)
	}
}

func TestSelectStopsMultiLegTruncatesPassedCandidates(t *testing.T) {
	expensive := stationAt(1, 455, 9.9)
	cheap := stationAt(2, 460, 1.0)
	second := stationAt(3, 930, 5.0)
	candidates := candidateList(expensive, cheap, second)

	stops, err := SelectStops(selectorQuery(1000), candidates)
	if err != nil {
		t.Fatalf("SelectStops: %v", err)
	}
	if len(stops) != 2 {
		t.Fatalf("got %d stops, want 2", len(stops))
	}
	if stops[0].Station.StopID != 2 || stops[1].Station.StopID != 3 {
		t.Errorf("stops = [%d %d], want [2 3]", stops[0].Station.StopID, stops[1].Station.StopID)
	}
	// The second leg distance is measured from the first stop.
	if math.Abs(stops[1].MilesFromPrev-470) > 0.01 {
		t.Errorf("second MilesFromPrev = %v, want ~470", stops[1].MilesFromPrev)
	}
}

func TestSelectStopsNeverRepeatsAStation(t *testing.T) {
	candidates := candidateList(
		stationAt(1, 460, 2.0),
		stationAt(2, 920, 2.0),
		stationAt(3, 1380, 2.0),
	)

	stops, err := SelectStops(selectorQuery(1500), candidates)
	if err != nil {
		t.Fatalf("SelectStops: %v", err)
	}

	seen := make(map[int]bool)
	for _, s := range stops {
		if seen[s.Station.StopID] {
			t.Fatalf("stop %d selected twice", s.Station.StopID)
		}
		seen[s.Station.StopID] = true
	}
}
