package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fuel-route-service/internal/domain"
)

type fakeStore struct {
	stations map[int]*domain.Station
	inserted []*domain.Station
	updates  map[int]float64
}

func newFakeStore(existing ...*domain.Station) *fakeStore {
	s := &fakeStore{
		stations: make(map[int]*domain.Station),
		updates:  make(map[int]float64),
	}
	for _, st := range existing {
		s.stations[st.StopID] = st
	}
	return s
}

func (s *fakeStore) FindByStopID(ctx context.Context, stopID int) (*domain.Station, error) {
	return s.stations[stopID], nil
}

func (s *fakeStore) UpdatePrice(ctx context.Context, stopID int, price float64) error {
	s.updates[stopID] = price
	return nil
}

func (s *fakeStore) Insert(ctx context.Context, station *domain.Station) error {
	s.stations[station.StopID] = station
	s.inserted = append(s.inserted, station)
	return nil
}

type fakeGeocoder struct {
	coords map[string]domain.Coordinates
	calls  int
}

func (g *fakeGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	g.calls++
	c, ok := g.coords[address]
	if !ok {
		return domain.Coordinates{}, errors.New("address not found")
	}
	return c, nil
}

type fakeGeocodeCache struct {
	entries map[string]domain.Coordinates
	puts    int
}

func newFakeGeocodeCache() *fakeGeocodeCache {
	return &fakeGeocodeCache{entries: make(map[string]domain.Coordinates)}
}

func (c *fakeGeocodeCache) GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	out := make(map[string]domain.Coordinates)
	for _, a := range addresses {
		if coord, ok := c.entries[a]; ok {
			out[a] = coord
		}
	}
	return out, nil
}

func (c *fakeGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	c.puts++
	for a, coord := range results {
		c.entries[a] = coord
	}
	return nil
}

const sheetHeader = "OPIS Truckstop ID,Truckstop Name,Address,City,State,Rack ID,Retail Price\n"

func writeSheet(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.csv")
	if err := os.WriteFile(path, []byte(sheetHeader+rows), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunUpdatesKnownStations(t *testing.T) {
	store := newFakeStore(&domain.Station{StopID: 42, PricePerGallon: 3.10})
	imp := &Importer{Store: store, Geocoder: &fakeGeocoder{}}

	path := writeSheet(t, "42,BIG TRUCK STOP,I-40 EXIT 1,AMARILLO,TX,7,3.459\n")
	result, err := imp.Run(context.Background(), path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Updated != 1 || result.Inserted != 0 || result.Skipped != 0 {
		t.Errorf("result = %+v, want 1 update", result)
	}
	if got := store.updates[42]; got != 3.459 {
		t.Errorf("price update = %v, want 3.459", got)
	}
}

func TestRunGeocodesAndInsertsNewStations(t *testing.T) {
	store := newFakeStore()
	geocoder := &fakeGeocoder{coords: map[string]domain.Coordinates{
		"BIG TRUCK STOP, I-40 EXIT 1, AMARILLO, TX, USA": {Lat: 35.19, Lon: -101.85},
	}}
	cache := newFakeGeocodeCache()
	imp := &Importer{Store: store, Geocoder: geocoder, Cache: cache}

	path := writeSheet(t, "42,BIG TRUCK STOP,I-40 EXIT 1,AMARILLO,TX,7,3.459\n")
	result, err := imp.Run(context.Background(), path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Inserted != 1 {
		t.Fatalf("result = %+v, want 1 insert", result)
	}
	s := store.inserted[0]
	if s.StopID != 42 || s.Latitude != 35.19 || s.Longitude != -101.85 || s.PricePerGallon != 3.459 {
		t.Errorf("inserted station = %+v", s)
	}
	if s.Name != "BIG TRUCK STOP" || s.Address != "I-40 EXIT 1" || s.City != "AMARILLO" || s.State != "TX" || s.RackID != 7 {
		t.Errorf("inserted station fields = %+v", s)
	}
	if cache.puts != 1 {
		t.Errorf("cache puts = %d, want 1", cache.puts)
	}
}

func TestRunUsesCacheBeforeGeocoder(t *testing.T) {
	store := newFakeStore()
	geocoder := &fakeGeocoder{}
	cache := newFakeGeocodeCache()
	cache.entries["BIG TRUCK STOP, I-40 EXIT 1, AMARILLO, TX, USA"] = domain.Coordinates{Lat: 35.19, Lon: -101.85}
	imp := &Importer{Store: store, Geocoder: geocoder, Cache: cache}

	path := writeSheet(t, "42,BIG TRUCK STOP,I-40 EXIT 1,AMARILLO,TX,7,3.459\n")
	result, err := imp.Run(context.Background(), path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Inserted != 1 {
		t.Fatalf("result = %+v, want 1 insert", result)
	}
	if geocoder.calls != 0 {
		t.Errorf("geocoder called %d times, want 0 (cache hit)", geocoder.calls)
	}
}

func TestRunSkipsUnresolvableAddresses(t *testing.T) {
	store := newFakeStore()
	geocoder := &fakeGeocoder{coords: map[string]domain.Coordinates{
		"GOOD STOP, MAIN ST, TULSA, OK, USA": {Lat: 36.15, Lon: -95.99},
	}}
	imp := &Importer{Store: store, Geocoder: geocoder}

	path := writeSheet(t,
		"1,GOOD STOP,MAIN ST,TULSA,OK,3,3.20\n"+
			"2,GHOST STOP,NOWHERE RD,NOWHERE,ZZ,3,3.30\n")
	result, err := imp.Run(context.Background(), path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Inserted != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v, want 1 insert and 1 skip", result)
	}
	if _, ok := store.stations[2]; ok {
		t.Error("unresolvable station was inserted")
	}
}

func TestReadRowsMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	if err := os.WriteFile(path, []byte("OPIS Truckstop ID,Truckstop Name\n1,X\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadRows(path); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestRunRequiresStoreAndGeocoder(t *testing.T) {
	imp := &Importer{}
	if _, err := imp.Run(context.Background(), "unused.csv"); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}
