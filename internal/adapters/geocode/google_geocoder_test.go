package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fuel-route-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *GoogleGeocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &GoogleGeocoder{
		session:  srv.Client(),
		apiKey:   "test-key",
		apiURL:   srv.URL,
		attempts: 3,
		delay:    time.Millisecond,
	}
}

func TestGeocodeSuccess(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PILOT, I-40 EXIT 1, AMARILLO, TX, USA", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Write([]byte(`{"results":[{"geometry":{"location":{"lat":35.19,"lng":-101.85}}}]}`))
	})

	c, err := g.Geocode(context.Background(), "PILOT, I-40 EXIT 1, AMARILLO, TX, USA")
	require.NoError(t, err)
	assert.Equal(t, 35.19, c.Lat)
	assert.Equal(t, -101.85, c.Lon)
}

func TestGeocodeRetriesEmptyResults(t *testing.T) {
	calls := 0
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.Write([]byte(`{"results":[]}`))
			return
		}
		w.Write([]byte(`{"results":[{"geometry":{"location":{"lat":1,"lng":2}}}]}`))
	})

	c, err := g.Geocode(context.Background(), "FLAKY ADDRESS")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1.0, c.Lat)
}

func TestGeocodeNotFoundAfterRetries(t *testing.T) {
	calls := 0
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"results":[]}`))
	})

	_, err := g.Geocode(context.Background(), "NOWHERE")
	assert.ErrorIs(t, err, ports.ErrAddressNotFound)
	assert.Equal(t, 3, calls)
}

func TestGeocodeContextCancelled(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})
	g.delay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := g.Geocode(ctx, "SLOW")
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("geocode did not observe cancellation")
	}
}
