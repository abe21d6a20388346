package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fuel-route-service/internal/domain"
)

// SQLite-backed implementation of the StationRepository and StationStore
// ports.
type SqliteStationRepository struct{ DB *sql.DB }

func NewSqliteStationRepository(db *sql.DB) *SqliteStationRepository {
	return &SqliteStationRepository{DB: db}
}

// Return the full station catalog in stop-ID order.
func (s *SqliteStationRepository) ListStations(ctx context.Context) ([]*domain.Station, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite station repository: DB is nil")
	}

	query := `
	SELECT
		stop_id,
		name,
		address,
		city,
		state,
		rack_id,
		latitude,
		longitude,
		price_per_gallon
	FROM stations
	ORDER BY stop_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stations: query stations table: %w", err)
	}
	defer rows.Close()

	stations := make([]*domain.Station, 0, 256)
	for rows.Next() {
		var st domain.Station
		err := rows.Scan(
			&st.StopID,
			&st.Name,
			&st.Address,
			&st.City,
			&st.State,
			&st.RackID,
			&st.Latitude,
			&st.Longitude,
			&st.PricePerGallon,
		)
		if err != nil {
			return nil, fmt.Errorf("list stations: scan row: %w", err)
		}
		stations = append(stations, &st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stations: row iteration: %w", err)
	}

	return stations, nil
}

// FindByStopID returns the station with the given stop ID, or (nil, nil)
// when absent.
func (s *SqliteStationRepository) FindByStopID(ctx context.Context, stopID int) (*domain.Station, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite station repository: DB is nil")
	}

	query := `
	SELECT
		stop_id,
		name,
		address,
		city,
		state,
		rack_id,
		latitude,
		longitude,
		price_per_gallon
	FROM stations
	WHERE stop_id = ?;
	`
	var st domain.Station
	err := s.DB.QueryRowContext(ctx, query, stopID).Scan(
		&st.StopID,
		&st.Name,
		&st.Address,
		&st.City,
		&st.State,
		&st.RackID,
		&st.Latitude,
		&st.Longitude,
		&st.PricePerGallon,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find station stop_id=%d: %w", stopID, err)
	}

	return &st, nil
}

// UpdatePrice sets the retail price for an existing station.
func (s *SqliteStationRepository) UpdatePrice(ctx context.Context, stopID int, pricePerGallon float64) error {
	if s.DB == nil {
		return errors.New("sqlite station repository: DB is nil")
	}
	if pricePerGallon < 0 {
		return fmt.Errorf("update price stop_id=%d: price must be non-negative", stopID)
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE stations SET price_per_gallon = ? WHERE stop_id = ?;`,
		pricePerGallon, stopID,
	)
	if err != nil {
		return fmt.Errorf("update price stop_id=%d: %w", stopID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update price stop_id=%d: rows affected: %w", stopID, err)
	}
	if n == 0 {
		return fmt.Errorf("update price stop_id=%d: no such station", stopID)
	}
	return nil
}

// Insert adds a new station to the catalog.
func (s *SqliteStationRepository) Insert(ctx context.Context, station *domain.Station) error {
	if s.DB == nil {
		return errors.New("sqlite station repository: DB is nil")
	}
	if station == nil {
		return errors.New("insert station: station is nil")
	}

	query := `
	INSERT INTO stations (
		stop_id,
		name,
		address,
		city,
		state,
		rack_id,
		latitude,
		longitude,
		price_per_gallon
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := s.DB.ExecContext(ctx, query,
		station.StopID,
		station.Name,
		station.Address,
		station.City,
		station.State,
		station.RackID,
		station.Latitude,
		station.Longitude,
		station.PricePerGallon,
	)
	if err != nil {
		return fmt.Errorf("insert station stop_id=%d: %w", station.StopID, err)
	}
	return nil
}
