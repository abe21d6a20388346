package routing

import (
	"context"
	"log"

	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"

	"github.com/mmcloughlin/geohash"
	"golang.org/x/sync/singleflight"
)

// geohashPrecision controls the spatial resolution of cache keys.
// Precision 6 ≈ ±0.6 km cells: endpoints that close share a cached route,
// which is acceptable for multi-hundred-mile trips.
const geohashPrecision = 6

// RouteCacheStore abstracts persistence for cached route geometry.
type RouteCacheStore interface {
	// GetRoute returns the cached geometry for the key pair, or (nil, nil)
	// when there is no valid (non-expired) entry.
	GetRoute(ctx context.Context, originHash, destHash string) (*ports.RouteGeometry, error)

	// PutRoute upserts a geometry entry.
	PutRoute(ctx context.Context, originHash, destHash string, g *ports.RouteGeometry) error
}

// CachedGeometryProvider wraps another RouteGeometryProvider with a
// cache-aside store. Concurrent lookups for the same key pair are collapsed
// with singleflight so a cold cache issues one upstream call per key.
//
// Cache read/write failures degrade to the inner provider; they are logged,
// never surfaced.
type CachedGeometryProvider struct {
	inner ports.RouteGeometryProvider
	store RouteCacheStore
	group singleflight.Group
}

func NewCachedGeometryProvider(inner ports.RouteGeometryProvider, store RouteCacheStore) *CachedGeometryProvider {
	return &CachedGeometryProvider{inner: inner, store: store}
}

func (c *CachedGeometryProvider) GetRoute(
	ctx context.Context,
	start, finish domain.Coordinates,
) (*ports.RouteGeometry, error) {
	if c.store == nil {
		return c.inner.GetRoute(ctx, start, finish)
	}

	originHash := geohash.EncodeWithPrecision(start.Lat, start.Lon, geohashPrecision)
	destHash := geohash.EncodeWithPrecision(finish.Lat, finish.Lon, geohashPrecision)
	key := originHash + "|" + destHash

	v, err, _ := c.group.Do(key, func() (any, error) {
		cached, err := c.store.GetRoute(ctx, originHash, destHash)
		if err != nil {
			log.Printf("route cache read failed key=%s: %v", key, err)
		} else if cached != nil {
			return cached, nil
		}

		g, err := c.inner.GetRoute(ctx, start, finish)
		if err != nil {
			return nil, err
		}

		if err := c.store.PutRoute(ctx, originHash, destHash, g); err != nil {
			log.Printf("route cache write failed key=%s: %v", key, err)
		}
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ports.RouteGeometry), nil
}
