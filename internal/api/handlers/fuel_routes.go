package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
	"fuel-route-service/internal/services"
)

// FuelRouteHandler plans fuel stops for a submitted trip.
type FuelRouteHandler struct {
	Repo     ports.StationRepository
	Geometry ports.RouteGeometryProvider
	Matrix   ports.DistanceMatrixProvider
}

func NewFuelRouteHandler(repo ports.StationRepository, geometry ports.RouteGeometryProvider, matrix ports.DistanceMatrixProvider) *FuelRouteHandler {
	return &FuelRouteHandler{Repo: repo, Geometry: geometry, Matrix: matrix}
}

func (h *FuelRouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.FuelRouteRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "request body must contain a single JSON object")
		return
	}

	if req.Start == nil || req.Start.Lat == nil || req.Start.Lon == nil {
		writeError(w, r, http.StatusBadRequest, "start coordinates are required")
		return
	}
	if req.Finish == nil || req.Finish.Lat == nil || req.Finish.Lon == nil {
		writeError(w, r, http.StatusBadRequest, "finish coordinates are required")
		return
	}

	query := domain.FuelQuery{
		Start:               domain.Coordinates{Lat: *req.Start.Lat, Lon: *req.Start.Lon},
		Finish:              domain.Coordinates{Lat: *req.Finish.Lat, Lon: *req.Finish.Lon},
		MaxRangeMiles:       req.MaxRangeMiles,
		FuelEfficiencyMPG:   req.FuelEfficiencyMPG,
		BufferRangeMiles:    req.BufferRangeMiles,
		DeviationLimitMiles: req.DeviationLimitMiles,
	}

	plan, err := services.PlanFuelRoute(r.Context(), query, h.Repo, h.Geometry, h.Matrix)
	if err != nil {
		h.writePlanError(w, r, err)
		return
	}

	res := dto.FuelRouteResponse{
		RouteMapURL: plan.RouteMapURL,
		Stops:       make([]dto.StationResponse, 0, len(plan.Stops)),
		TotalCost:   plan.TotalCost,
	}
	for _, stop := range plan.Stops {
		s := stop.Station
		res.Stops = append(res.Stops, dto.StationResponse{
			StopID:         s.StopID,
			Name:           s.Name,
			Address:        s.Address,
			City:           s.City,
			State:          s.State,
			RackID:         s.RackID,
			Latitude:       s.Latitude,
			Longitude:      s.Longitude,
			PricePerGallon: s.PricePerGallon,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *FuelRouteHandler) writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	var upstream *services.UpstreamError

	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, ports.ErrNoRoute):
		writeError(w, r, http.StatusNotFound, "no drivable route between start and finish")
	case errors.Is(err, services.ErrNoStations):
		writeError(w, r, http.StatusNotFound, "no fuel stations available")
	case errors.Is(err, services.ErrNoFeasibleStop):
		writeError(w, r, http.StatusNotFound, "no reachable fuel stop within vehicle range")
	case errors.As(err, &upstream):
		log.Printf("plan fuel route: %v", err)
		writeError(w, r, http.StatusBadGateway, "upstream routing service unavailable")
	default:
		log.Printf("plan fuel route: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
