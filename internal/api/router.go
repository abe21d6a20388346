package api

import (
	"net/http"

	"fuel-route-service/internal/api/handlers"
	"fuel-route-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.StationRepository, geometry ports.RouteGeometryProvider, matrix ports.DistanceMatrixProvider) http.Handler {
	mux := http.NewServeMux()

	stationHandler := handlers.NewStationHandler(repo)
	routeHandler := handlers.NewFuelRouteHandler(repo, geometry, matrix)

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/stations", stationHandler.List)
	mux.HandleFunc("/routes/fuel", routeHandler.Plan)

	return loggingMiddleware(mux)
}
