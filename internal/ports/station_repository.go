package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Port: a boundary for retrieving Station entities from a data source.
type StationRepository interface {
	// Retrieve the full current station catalog.
	ListStations(ctx context.Context) ([]*domain.Station, error)
}

// Port: write access to the station catalog, used by the bulk importer.
type StationStore interface {
	// FindByStopID returns the station with the given stop ID, or
	// (nil, nil) when no such station exists.
	FindByStopID(ctx context.Context, stopID int) (*domain.Station, error)
	UpdatePrice(ctx context.Context, stopID int, pricePerGallon float64) error
	Insert(ctx context.Context, station *domain.Station) error
}
