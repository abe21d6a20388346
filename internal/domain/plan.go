package domain

// A chosen refueling stop. MilesFromPrev is the great-circle distance from
// the position the vehicle held when the stop was selected (the start or the
// previous stop), recorded for auditing the feasibility window.
type SelectedStop struct {
	Station       *Station
	MilesFromPrev float64
}

// The result of one fuel route computation: the ordered stops between start
// and finish, the total fuel cost in dollars (rounded to cents), and a
// shareable map link through the waypoints. It is immutable planning data
// and contains no side effects.
type FuelPlan struct {
	RouteMapURL string
	Stops       []SelectedStop
	TotalCost   float64
}
