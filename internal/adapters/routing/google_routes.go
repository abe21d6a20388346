package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
)

const (
	// routesAPIURL is the Google Routes API v2 endpoint.
	routesAPIURL = "https://routes.googleapis.com/directions/v2:computeRoutes"

	metersPerMile = 1609.34
)

// GoogleRoutesProvider implements RouteGeometryProvider using the Google
// Routes API v2. It is safe for concurrent use.
type GoogleRoutesProvider struct {
	client *apiClient
	apiKey string
	// apiURL is the Routes API endpoint. Overrideable in tests.
	apiURL string
}

func NewGoogleRoutesProvider(apiKey string) (*GoogleRoutesProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google api key is empty")
	}
	return &GoogleRoutesProvider{
		client: newAPIClient(10 * time.Second),
		apiKey: apiKey,
		apiURL: routesAPIURL,
	}, nil
}

type routesAPILatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type routesAPILocation struct {
	LatLng routesAPILatLng `json:"latLng"`
}

type routesAPIWaypoint struct {
	Location routesAPILocation `json:"location"`
}

type routesAPIRequest struct {
	Origin            routesAPIWaypoint `json:"origin"`
	Destination       routesAPIWaypoint `json:"destination"`
	TravelMode        string            `json:"travelMode"`
	RoutingPreference string            `json:"routingPreference"`
}

type routesAPIResponse struct {
	Routes []struct {
		DistanceMeters int `json:"distanceMeters"`
		Polyline       struct {
			EncodedPolyline string `json:"encodedPolyline"`
		} `json:"polyline"`
	} `json:"routes"`
}

// GetRoute fetches the primary driving route between start and finish.
// An empty route list from the API maps to ports.ErrNoRoute; transport and
// decoding problems surface as ordinary errors.
func (g *GoogleRoutesProvider) GetRoute(
	ctx context.Context,
	start, finish domain.Coordinates,
) (_ *ports.RouteGeometry, err error) {
	defer obs.Time(ctx, "routes.GetRoute")(&err)

	body := routesAPIRequest{
		Origin: routesAPIWaypoint{
			Location: routesAPILocation{
				LatLng: routesAPILatLng{Latitude: start.Lat, Longitude: start.Lon},
			},
		},
		Destination: routesAPIWaypoint{
			Location: routesAPILocation{
				LatLng: routesAPILatLng{Latitude: finish.Lat, Longitude: finish.Lon},
			},
		},
		TravelMode:        "DRIVE",
		RoutingPreference: "TRAFFIC_UNAWARE",
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("get route: marshal request: %w", err)
	}

	resp, err := g.client.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Goog-Api-Key", g.apiKey)
		// Request only the fields we need to minimize response size.
		req.Header.Set("X-Goog-FieldMask", "routes.distanceMeters,routes.polyline.encodedPolyline")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}
	defer resp.Body.Close()

	var decoded routesAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("get route: decode response: %w", err)
	}

	if len(decoded.Routes) == 0 {
		return nil, ports.ErrNoRoute
	}

	route := decoded.Routes[0]
	points := DecodePolyline(route.Polyline.EncodedPolyline)
	if len(points) == 0 {
		return nil, fmt.Errorf("get route: empty polyline in response")
	}

	return &ports.RouteGeometry{
		// The first decoded point is the origin, which the caller already
		// carries as the query start.
		Points:          points[1:],
		DistanceMiles:   float64(route.DistanceMeters) / metersPerMile,
		EncodedPolyline: route.Polyline.EncodedPolyline,
	}, nil
}
