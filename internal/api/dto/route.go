package dto

// Pointer fields distinguish "absent" from zero values: (0, 0) is a real
// coordinate.
type CoordinateRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type FuelRouteRequest struct {
	Start  *CoordinateRequest `json:"start"`
	Finish *CoordinateRequest `json:"finish"`

	// Zero means "use the fleet default".
	MaxRangeMiles       float64 `json:"max_range_miles"`
	FuelEfficiencyMPG   float64 `json:"fuel_efficiency_mpg"`
	BufferRangeMiles    float64 `json:"buffer_range_miles"`
	DeviationLimitMiles float64 `json:"deviation_limit_miles"`
}

type FuelRouteResponse struct {
	RouteMapURL string            `json:"route_map_url"`
	Stops       []StationResponse `json:"optimal_route"`
	TotalCost   float64           `json:"total_cost"`
}
