package services

import (
	"math"

	"fuel-route-service/internal/domain"

	"github.com/tidwall/rtree"
)

// Approximate degrees of latitude per mile. Used only to size the bounding
// box handed to the R-tree; every hit is confirmed against the true
// great-circle distance before it is returned.
const degreesPerMile = 1.0 / 69.0

// StationIndex answers radius queries over a fixed station catalog.
// It is immutable after construction and safe for concurrent reads.
type StationIndex struct {
	tree rtree.RTree
}

// NewStationIndex builds a static R-tree over the catalog's coordinates.
func NewStationIndex(stations []*domain.Station) *StationIndex {
	idx := &StationIndex{}
	for _, s := range stations {
		pt := [2]float64{s.Latitude, s.Longitude}
		idx.tree.Insert(pt, pt, s)
	}
	return idx
}

// WithinMiles returns every station within radiusMiles of p.
//
// The search box is widened in longitude by 1/cos(lat) so a degree box never
// excludes a station that the geodesic check would accept.
func (idx *StationIndex) WithinMiles(p domain.Coordinates, radiusMiles float64) []*domain.Station {
	latDeg := radiusMiles * degreesPerMile

	cosLat := math.Cos(p.Lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lonDeg := latDeg / cosLat

	min := [2]float64{p.Lat - latDeg, p.Lon - lonDeg}
	max := [2]float64{p.Lat + latDeg, p.Lon + lonDeg}

	var out []*domain.Station
	idx.tree.Search(min, max, func(_, _ [2]float64, data interface{}) bool {
		s := data.(*domain.Station)
		if p.MilesTo(s.Coordinates()) <= radiusMiles {
			out = append(out, s)
		}
		return true
	})
	return out
}
