package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
)

// PlanFuelRoute computes the cost-minimizing refueling plan for one query.
//
// The result is a pure function of the query, the catalog snapshot, the
// route geometry, and the distance-matrix results: no shared mutable state,
// no retries (those belong to the providers), and no partial results. A
// failure at any stage fails the whole plan.
func PlanFuelRoute(
	ctx context.Context,
	query domain.FuelQuery,
	repo ports.StationRepository,
	geometry ports.RouteGeometryProvider,
	matrix ports.DistanceMatrixProvider,
) (_ *domain.FuelPlan, err error) {
	defer obs.Time(ctx, "plan.FuelRoute")(&err)

	query.ApplyDefaults()
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("plan fuel route: %w", err)
	}

	route, err := geometry.GetRoute(ctx, query.Start, query.Finish)
	if err != nil {
		if errors.Is(err, ports.ErrNoRoute) {
			return nil, fmt.Errorf("plan fuel route: %w", err)
		}
		return nil, &UpstreamError{Stage: "plan fuel route: route geometry", Err: err}
	}
	log.Printf("plan fuel route: decoded %d route points, total distance %.1f mi",
		len(route.Points), route.DistanceMiles)

	stations, err := repo.ListStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan fuel route: list stations: %w", err)
	}
	if len(stations) == 0 {
		return nil, fmt.Errorf("plan fuel route: %w", ErrNoStations)
	}

	// Short route: the whole trip fits in one tank. No stops; price the
	// distance at the catalog-wide average.
	if route.DistanceMiles <= query.MaxRangeMiles {
		cost := route.DistanceMiles / query.FuelEfficiencyMPG * AveragePrice(stations)
		return &domain.FuelPlan{
			RouteMapURL: RouteMapURL(&query, nil),
			Stops:       []domain.SelectedStop{},
			TotalCost:   math.Round(cost*100) / 100,
		}, nil
	}

	idx := NewStationIndex(stations)
	candidates := StationsNearRoute(idx, route.Points, query.Start, query.DeviationLimitMiles)
	log.Printf("plan fuel route: %d candidate stations within %.1f mi of the route",
		len(candidates), query.DeviationLimitMiles)

	stops, err := SelectStops(&query, candidates)
	if err != nil {
		return nil, fmt.Errorf("plan fuel route: %w", err)
	}

	fallback := AveragePrice(stations)
	if len(stops) > 0 {
		sum := 0.0
		for _, s := range stops {
			sum += s.Station.PricePerGallon
		}
		fallback = sum / float64(len(stops))
	}

	total, err := EstimateCost(ctx, &query, stops, fallback, matrix)
	if err != nil {
		return nil, fmt.Errorf("plan fuel route: %w", err)
	}

	return &domain.FuelPlan{
		RouteMapURL: RouteMapURL(&query, stops),
		Stops:       stops,
		TotalCost:   total,
	}, nil
}
