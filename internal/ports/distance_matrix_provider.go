package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Road distance of one leg between consecutive waypoints. OK is false when
// the provider could not resolve the leg; callers decide how to degrade.
type LegDistance struct {
	Miles float64
	OK    bool
}

// Contract for resolving road distances along an ordered waypoint sequence.
type DistanceMatrixProvider interface {
	// Return one distance per adjacent waypoint pair, in input order.
	LegDistances(ctx context.Context, waypoints []domain.Coordinates) ([]LegDistance, error)
}
