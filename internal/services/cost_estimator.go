package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
)

// AveragePrice returns the mean price per gallon across stations.
// Returns 0 for an empty slice; callers guard against empty catalogs.
func AveragePrice(stations []*domain.Station) float64 {
	if len(stations) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range stations {
		sum += s.PricePerGallon
	}
	return sum / float64(len(stations))
}

// EstimateCost prices the waypoint sequence (start, each stop in order,
// finish) leg by leg using road distances from the matrix provider.
//
// Every leg except the last is priced at the stop it arrives at: the fuel
// burned reaching a stop is bought back there. The final leg into the
// finish is priced at fallbackAvgPrice, since nothing is purchased at the
// destination. A leg the provider could not resolve contributes zero cost
// rather than failing the plan; it is logged so the degraded estimate is
// visible.
//
// The total is rounded to cents.
func EstimateCost(
	ctx context.Context,
	query *domain.FuelQuery,
	stops []domain.SelectedStop,
	fallbackAvgPrice float64,
	matrix ports.DistanceMatrixProvider,
) (float64, error) {
	waypoints := make([]domain.Coordinates, 0, len(stops)+2)
	waypoints = append(waypoints, query.Start)
	for _, s := range stops {
		waypoints = append(waypoints, s.Station.Coordinates())
	}
	waypoints = append(waypoints, query.Finish)

	legs, err := matrix.LegDistances(ctx, waypoints)
	if err != nil {
		return 0, &UpstreamError{Stage: "estimate cost: leg distances", Err: err}
	}
	if len(legs) != len(waypoints)-1 {
		return 0, fmt.Errorf(
			"estimate cost: got %d legs for %d waypoints",
			len(legs), len(waypoints),
		)
	}

	total := 0.0
	for i, leg := range legs {
		miles := leg.Miles
		if !leg.OK {
			log.Printf("estimate cost: leg=%d unresolved, using zero distance", i)
			miles = 0
		}

		price := fallbackAvgPrice
		if i < len(stops) {
			price = stops[i].Station.PricePerGallon
		}
		total += miles / query.FuelEfficiencyMPG * price
	}

	return math.Round(total*100) / 100, nil
}

// RouteMapURL builds a shareable Google Maps directions link through the
// chosen stops.
func RouteMapURL(query *domain.FuelQuery, stops []domain.SelectedStop) string {
	if len(stops) == 0 {
		return fmt.Sprintf("https://www.google.com/maps/dir/%s/%s", query.Start, query.Finish)
	}

	via := make([]string, 0, len(stops))
	for _, s := range stops {
		via = append(via, s.Station.Coordinates().String())
	}

	return fmt.Sprintf(
		"https://www.google.com/maps/dir/?api=1&origin=%s&destination=%s&waypoints=%s",
		query.Start, query.Finish, strings.Join(via, "|"),
	)
}
