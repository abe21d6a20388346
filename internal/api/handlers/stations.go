package handlers

import (
	"log"
	"net/http"

	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/ports"
)

// StationHandler serves the fuel station catalog.
type StationHandler struct {
	Repo ports.StationRepository
}

func NewStationHandler(repo ports.StationRepository) *StationHandler {
	return &StationHandler{Repo: repo}
}

func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stations, err := h.Repo.ListStations(r.Context())
	if err != nil {
		log.Printf("list stations: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListStationsResponse{Stations: make([]dto.StationResponse, 0, len(stations))}
	for _, s := range stations {
		res.Stations = append(res.Stations, dto.StationResponse{
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
