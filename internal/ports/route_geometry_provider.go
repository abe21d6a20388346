package ports

import (
	"context"
	"errors"
	"fuel-route-service/internal/domain"
)

// ErrNoRoute reports that no drivable route exists between the requested
// endpoints. It is distinct from transport failures so callers can map it
// to a not-found condition.
var ErrNoRoute = errors.New("no route found")

// A decoded driving route between two points.
type RouteGeometry struct {
	// Points is the decoded path in travel order. The origin is excluded:
	// the query carries the start coordinate separately.
	Points []domain.Coordinates

	// DistanceMiles is the total road distance of the route.
	DistanceMiles float64

	// EncodedPolyline is the provider's encoded form of the full path,
	// origin included. Kept so caches can store the path compactly.
	EncodedPolyline string
}

// Contract for retrieving driving route geometry between two coordinates.
type RouteGeometryProvider interface {
	GetRoute(ctx context.Context, start, finish domain.Coordinates) (*RouteGeometry, error)
}
