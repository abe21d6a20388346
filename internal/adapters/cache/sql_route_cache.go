package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
)

// SQLRouteCache is a Postgres-backed store for cached route geometry.
// Suitable when several instances share one cache.
type SQLRouteCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db, TTL: DefaultRouteTTL}
}

// GetRoute returns the cached geometry for the key pair, or (nil, nil) on a
// miss or an expired entry.
func (s *SQLRouteCache) GetRoute(
	ctx context.Context,
	originHash, destHash string,
) (_ *ports.RouteGeometry, err error) {
	defer obs.Time(ctx, "route.cache.GetRoute")(&err)

	if s.DB == nil {
		return nil, errors.New("route cache: db is nil")
	}
	if originHash == "" || destHash == "" {
		return nil, errors.New("get route cache: hashes must not be empty")
	}

	q := `
	SELECT polyline, distance_miles, expires_at
	FROM route_cache
	WHERE origin_hash = $1 AND dest_hash = $2;
	`

	var polyline string
	var miles float64
	var expiresAt int64
	err = s.DB.QueryRowContext(ctx, q, originHash, destHash).Scan(&polyline, &miles, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	if time.Now().Unix() >= expiresAt {
		return nil, nil
	}

	return decodeCachedRoute(polyline, miles), nil
}

// PutRoute upserts a geometry entry. A geometry without an encoded polyline
// cannot be rebuilt from a row and is skipped.
func (s *SQLRouteCache) PutRoute(
	ctx context.Context,
	originHash, destHash string,
	g *ports.RouteGeometry,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if originHash == "" || destHash == "" {
		return errors.New("insert route cache: hashes must not be empty")
	}
	if g == nil || g.EncodedPolyline == "" {
		return nil
	}

	q := `
	INSERT INTO route_cache (origin_hash, dest_hash, polyline, distance_miles, expires_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (origin_hash, dest_hash) DO UPDATE
	SET polyline = EXCLUDED.polyline,
		distance_miles = EXCLUDED.distance_miles,
		expires_at = EXCLUDED.expires_at;
	`

	expiresAt := time.Now().Add(s.TTL).Unix()
	if _, err := s.DB.ExecContext(ctx, q, originHash, destHash, g.EncodedPolyline, g.DistanceMiles, expiresAt); err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}
	return nil
}
