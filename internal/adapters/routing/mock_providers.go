package routing

import (
	"context"

	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
)

// MockGeometryProvider returns a fixed geometry or error. Calls is
// incremented on each lookup so tests can assert cache behavior.
type MockGeometryProvider struct {
	Route *ports.RouteGeometry
	Err   error
	Calls int
}

func (m *MockGeometryProvider) GetRoute(
	ctx context.Context,
	start, finish domain.Coordinates,
) (*ports.RouteGeometry, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Route, nil
}

// MockMatrixProvider returns fixed per-leg distances when Legs is set,
// and otherwise falls back to the great-circle distance of each leg.
type MockMatrixProvider struct {
	Legs []ports.LegDistance
	Err  error
}

func (m *MockMatrixProvider) LegDistances(
	ctx context.Context,
	waypoints []domain.Coordinates,
) ([]ports.LegDistance, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Legs != nil {
		return m.Legs, nil
	}

	legs := make([]ports.LegDistance, 0, len(waypoints)-1)
	for i := 0; i < len(waypoints)-1; i++ {
		legs = append(legs, ports.LegDistance{
			Miles: waypoints[i].MilesTo(waypoints[i+1]),
			OK:    true,
		})
	}
	return legs, nil
}
