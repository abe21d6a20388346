package domain

// A fuel station from the catalog, including its OPIS identifiers and the
// current retail price per gallon. Station records are owned by the station
// repository and treated as immutable for the duration of one route
// computation.
type Station struct {
	StopID         int
	Name           string
	Address        string
	City           string
	State          string
	RackID         int
	Latitude       float64
	Longitude      float64
	PricePerGallon float64
}

func (s *Station) Coordinates() Coordinates {
	return Coordinates{Lat: s.Latitude, Lon: s.Longitude}
}
