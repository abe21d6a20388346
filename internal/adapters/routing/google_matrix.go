package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"encoding/json"

	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
)

// matrixAPIURL is the Google Distance Matrix endpoint.
const matrixAPIURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

// GoogleMatrixProvider implements DistanceMatrixProvider using the Google
// Distance Matrix API. One call resolves every consecutive leg of a
// waypoint sequence. Safe for concurrent use.
type GoogleMatrixProvider struct {
	client *apiClient
	apiKey string
	// apiURL is the Distance Matrix endpoint. Overrideable in tests.
	apiURL string
}

func NewGoogleMatrixProvider(apiKey string) (*GoogleMatrixProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google api key is empty")
	}
	return &GoogleMatrixProvider{
		client: newAPIClient(10 * time.Second),
		apiKey: apiKey,
		apiURL: matrixAPIURL,
	}, nil
}

type matrixAPIResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// LegDistances returns the road distance of each consecutive waypoint pair.
//
// Origins are waypoints[:n-1] and destinations waypoints[1:], so the leg
// from waypoint i to i+1 is the diagonal element rows[i].elements[i]. A leg
// the API cannot resolve comes back with OK=false instead of failing the
// whole call.
func (g *GoogleMatrixProvider) LegDistances(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (_ []ports.LegDistance, err error) {
	defer obs.Time(ctx, "matrix.LegDistances")(&err)

	if len(waypoints) < 2 {
		return nil, fmt.Errorf("leg distances: need at least 2 waypoints, got %d", len(waypoints))
	}

	origins := make([]string, 0, len(waypoints)-1)
	destinations := make([]string, 0, len(waypoints)-1)
	for i := 0; i < len(waypoints)-1; i++ {
		origins = append(origins, waypoints[i].String())
		destinations = append(destinations, waypoints[i+1].String())
	}

	resp, err := g.client.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL, nil)
		if err != nil {
			return nil, err
		}
		q := url.Values{}
		q.Set("origins", strings.Join(origins, "|"))
		q.Set("destinations", strings.Join(destinations, "|"))
		q.Set("key", g.apiKey)
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("leg distances: %w", err)
	}
	defer resp.Body.Close()

	var decoded matrixAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("leg distances: decode response: %w", err)
	}

	if decoded.Status != "OK" {
		return nil, fmt.Errorf("leg distances: matrix status %q", decoded.Status)
	}

	legs := make([]ports.LegDistance, 0, len(origins))
	for i := range origins {
		if i >= len(decoded.Rows) || i >= len(decoded.Rows[i].Elements) {
			legs = append(legs, ports.LegDistance{})
			continue
		}

		el := decoded.Rows[i].Elements[i]
		if el.Status != "OK" {
			legs = append(legs, ports.LegDistance{})
			continue
		}

		legs = append(legs, ports.LegDistance{
			Miles: float64(el.Distance.Value) / metersPerMile,
			OK:    true,
		})
	}

	return legs, nil
}
