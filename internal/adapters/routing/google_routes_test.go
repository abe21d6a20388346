package routing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoutesProvider(t *testing.T, handler http.HandlerFunc) *GoogleRoutesProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &GoogleRoutesProvider{
		client: newAPIClient(2 * time.Second),
		apiKey: "test-key",
		apiURL: srv.URL,
	}
}

func TestGetRouteDecodesResponse(t *testing.T) {
	points := []domain.Coordinates{
		{Lat: 38.5, Lon: -120.2},
		{Lat: 40.7, Lon: -120.95},
	}
	encoded := EncodePolyline(points)

	provider := newTestRoutesProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.NotEmpty(t, r.Header.Get("X-Goog-FieldMask"))

		var req routesAPIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "DRIVE", req.TravelMode)

		resp := map[string]any{
			"routes": []map[string]any{{
				"distanceMeters": 160934,
				"polyline":       map[string]string{"encodedPolyline": encoded},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	})

	got, err := provider.GetRoute(context.Background(),
		domain.Coordinates{Lat: 38.5, Lon: -120.2},
		domain.Coordinates{Lat: 40.7, Lon: -120.95},
	)
	require.NoError(t, err)

	// 160934 m is 100 miles; the leading origin point is dropped.
	assert.InDelta(t, 100.0, got.DistanceMiles, 0.01)
	require.Len(t, got.Points, 1)
	assert.InDelta(t, 40.7, got.Points[0].Lat, 1e-5)
	assert.Equal(t, encoded, got.EncodedPolyline)
}

func TestGetRouteNoRoutes(t *testing.T) {
	provider := newTestRoutesProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes":[]}`))
	})

	_, err := provider.GetRoute(context.Background(), domain.Coordinates{}, domain.Coordinates{Lat: 1})
	assert.ErrorIs(t, err, ports.ErrNoRoute)
}

func TestGetRouteClientErrorNotRetried(t *testing.T) {
	calls := 0
	provider := newTestRoutesProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	_, err := provider.GetRoute(context.Background(), domain.Coordinates{}, domain.Coordinates{Lat: 1})

	var he *httpStatusError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, 1, calls)
}

func TestGetRouteRetriesServerError(t *testing.T) {
	calls := 0
	points := []domain.Coordinates{{Lat: 1}, {Lat: 2}}
	provider := newTestRoutesProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		resp := map[string]any{
			"routes": []map[string]any{{
				"distanceMeters": 1609,
				"polyline":       map[string]string{"encodedPolyline": EncodePolyline(points)},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	})

	got, err := provider.GetRoute(context.Background(), domain.Coordinates{}, domain.Coordinates{Lat: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, got.Points, 1)
}

func TestGetRouteContextCancelled(t *testing.T) {
	provider := newTestRoutesProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.GetRoute(ctx, domain.Coordinates{}, domain.Coordinates{Lat: 1})
	assert.True(t, errors.Is(err, context.Canceled))
}
