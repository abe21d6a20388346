package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStationsQuery := `
	CREATE TABLE IF NOT EXISTS stations (
		stop_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		rack_id INTEGER NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		price_per_gallon REAL NOT NULL
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat REAL NOT NULL,
		lon REAL NOT NULL
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		origin_hash TEXT NOT NULL,
		dest_hash TEXT NOT NULL,
		polyline TEXT NOT NULL,
		distance_miles REAL NOT NULL,
		expires_at INTEGER NOT NULL,
		PRIMARY KEY (origin_hash, dest_hash)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_cache_expires
	ON route_cache(expires_at);
	`

	statements := []string{
		createStationsQuery,
		createGeocodeCacheQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// InitCacheSchema creates only the shared cache tables. Used against Postgres
// when DATABASE_URL points several instances at one cache database; the SQL
// here stays portable between SQLite and Postgres.
func InitCacheSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init cache schema: DB is nil")
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS geocode_cache (
			address TEXT PRIMARY KEY,
			lat REAL NOT NULL,
			lon REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS route_cache (
			origin_hash TEXT NOT NULL,
			dest_hash TEXT NOT NULL,
			polyline TEXT NOT NULL,
			distance_miles REAL NOT NULL,
			expires_at BIGINT NOT NULL,
			PRIMARY KEY (origin_hash, dest_hash)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_route_cache_expires
		ON route_cache(expires_at);`,
	}

	for i, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init cache schema: exec statement #%d: %w", i+1, err)
		}
	}

	return nil
}
