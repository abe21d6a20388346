package ports

import (
	"context"
	"errors"
	"fuel-route-service/internal/domain"
)

// ErrAddressNotFound reports that the provider returned no coordinates for
// an address. Bulk callers treat it as a per-row skip, not a failure.
var ErrAddressNotFound = errors.New("coordinates not found")

// Contract for resolving a street address to geographic coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}
