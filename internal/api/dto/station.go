package dto

type StationResponse struct {
	StopID         int     `json:"stop_id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	RackID         int     `json:"rack_id"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	PricePerGallon float64 `json:"price_per_gallon"`
}

type ListStationsResponse struct {
	Stations []StationResponse `json:"stations"`
}
