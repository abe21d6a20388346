package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fuel-route-service/internal/adapters/routing"
	"fuel-route-service/internal/ports"
)

// DefaultRouteTTL is how long a cached route stays valid. Road geometry
// changes rarely; prices and traffic are not cached here.
const DefaultRouteTTL = 24 * time.Hour

// SQLite backed store for cached route geometry, keyed by geohash pairs.
// Expired rows are treated as misses and overwritten on write.
type SqliteRouteCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db, TTL: DefaultRouteTTL}
}

// GetRoute returns the cached geometry for the key pair, or (nil, nil) on a
// miss or an expired entry.
func (s *SqliteRouteCache) GetRoute(
	ctx context.Context,
	originHash, destHash string,
) (*ports.RouteGeometry, error) {
	if s.DB == nil {
		return nil, errors.New("route cache: db is nil")
	}
	if originHash == "" || destHash == "" {
		return nil, errors.New("get route cache: hashes must not be empty")
	}

	q := `
	SELECT polyline, distance_miles, expires_at
	FROM route_cache
	WHERE origin_hash = ? AND dest_hash = ?;
	`

	var polyline string
	var miles float64
	var expiresAt int64
	err := s.DB.QueryRowContext(ctx, q, originHash, destHash).Scan(&polyline, &miles, &expiresAt)
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
func (s *SqliteRouteCache) PutRoute(
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
	INSERT OR REPLACE INTO route_cache (
		origin_hash,
		dest_hash,
		polyline,
		distance_miles,
		expires_at
	)
	VALUES (?, ?, ?, ?, ?);
	`

	expiresAt := time.Now().Add(s.TTL).Unix()
	if _, err := s.DB.ExecContext(ctx, q, originHash, destHash, g.EncodedPolyline, g.DistanceMiles, expiresAt); err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}
	return nil
}

// decodeCachedRoute rebuilds a RouteGeometry from its stored polyline,
// dropping the leading origin point exactly as the live provider does.
func decodeCachedRoute(polyline string, miles float64) *ports.RouteGeometry {
	points := routing.DecodePolyline(polyline)
	if len(points) > 0 {
		points = points[1:]
	}
	return &ports.RouteGeometry{
		Points:          points,
		DistanceMiles:   miles,
		EncodedPolyline: polyline,
	}
}
