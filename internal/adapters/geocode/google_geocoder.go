package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
)

const (
	geocodeAPIURL = "https://maps.googleapis.com/maps/api/geocode/json"

	defaultAttempts = 3
	defaultDelay    = 2 * time.Second
)

// GoogleGeocoder resolves street addresses with the Google Geocoding API.
//
// Each lookup is retried a bounded number of times with a fixed delay,
// both on transport failures and on empty results, since the API is
// occasionally flaky on addresses it can resolve. An address that still
// yields nothing maps to ports.ErrAddressNotFound so bulk callers can skip
// the row instead of aborting the batch.
type GoogleGeocoder struct {
	session  *http.Client
	apiKey   string
	apiURL   string
	attempts int
	delay    time.Duration
}

func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("google api key is empty")
	}
	return &GoogleGeocoder{
		session:  &http.Client{Timeout: 10 * time.Second},
		apiKey:   apiKey,
		apiURL:   geocodeAPIURL,
		attempts: defaultAttempts,
		delay:    defaultDelay,
	}, nil
}

type geocodeAPIResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	var lastErr error

	for attempt := 1; attempt <= g.attempts; attempt++ {
		coords, err := g.lookup(ctx, address)
		if err == nil {
			return coords, nil
		}
		lastErr = err

		if attempt == g.attempts {
			break
		}

		timer := time.NewTimer(g.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return domain.Coordinates{}, ctx.Err()
		case <-timer.C:
		}
	}

	return domain.Coordinates{}, fmt.Errorf("geocode %q after %d attempts: %w", address, g.attempts, lastErr)
}

func (g *GoogleGeocoder) lookup(ctx context.Context, address string) (domain.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL, nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("create request: %w", err)
	}

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", g.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := g.session.Do(req)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var decoded geocodeAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Results) == 0 {
		return domain.Coordinates{}, ports.ErrAddressNotFound
	}

	loc := decoded.Results[0].Geometry.Location
	return domain.Coordinates{Lat: loc.Lat, Lon: loc.Lng}, nil
}
