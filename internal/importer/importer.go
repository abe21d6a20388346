package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/ports"
)

// DefaultConcurrency bounds simultaneous geocode lookups to respect the
// provider's rate limit.
const DefaultConcurrency = 50

// GeocodeCache is the slice of the geocode cache the importer consumes.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

// One parsed OPIS price-sheet row.
type Row struct {
	StopID int
	Name   string
	City   string
	State  string
	Street string
	RackID int
	Price  float64
}

// Summary of one bulk import run.
type Result struct {
	Updated  int
	Inserted int
	Skipped  int
}

// Importer loads an OPIS truckstop price sheet into the station catalog.
//
// Rows whose stop ID is already known get a price update. New rows are
// geocoded (cache first, then the provider under a bounded worker pool)
// and inserted. A row whose address cannot be resolved is skipped and
// logged; one bad address never aborts the batch.
type Importer struct {
	Store       ports.StationStore
	Geocoder    ports.Geocoder
	Cache       GeocodeCache
	Concurrency int
}

func (imp *Importer) Run(ctx context.Context, csvPath string) (*Result, error) {
	if imp.Store == nil || imp.Geocoder == nil {
		return nil, fmt.Errorf("import stations: store and geocoder are required")
	}

	rows, err := ReadRows(csvPath)
	if err != nil {
		return nil, fmt.Errorf("import stations: %w", err)
	}

	result := &Result{}

	type pending struct {
		row     Row
		address string
	}
	toGeocode := make([]pending, 0, len(rows))

	for _, row := range rows {
		existing, err := imp.Store.FindByStopID(ctx, row.StopID)
		if err != nil {
			return nil, fmt.Errorf("import stations: find stop_id=%d: %w", row.StopID, err)
		}

		if existing != nil {
			if err := imp.Store.UpdatePrice(ctx, row.StopID, row.Price); err != nil {
				return nil, fmt.Errorf("import stations: %w", err)
			}
			result.Updated++
			continue
		}

		toGeocode = append(toGeocode, pending{row: row, address: geocodeAddress(row)})
	}

	if len(toGeocode) == 0 {
		return result, nil
	}

	addresses := make([]string, 0, len(toGeocode))
	for _, p := range toGeocode {
		addresses = append(addresses, p.address)
	}

	coords := map[string]domain.Coordinates{}
	if imp.Cache != nil {
		cached, err := imp.Cache.GetMany(ctx, addresses)
		if err != nil {
			log.Printf("import stations: geocode cache read failed: %v", err)
		} else {
			coords = cached
		}
	}

	misses := make([]string, 0, len(addresses))
	seen := map[string]struct{}{}
	for _, a := range addresses {
		if _, ok := coords[a]; ok {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		misses = append(misses, a)
	}

	fresh, err := imp.geocodeAll(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("import stations: %w", err)
	}

	if imp.Cache != nil && len(fresh) > 0 {
		if err := imp.Cache.PutMany(ctx, fresh); err != nil {
			log.Printf("import stations: geocode cache write failed: %v", err)
		}
	}
	for a, c := range fresh {
		coords[a] = c
	}

	for _, p := range toGeocode {
		c, ok := coords[p.address]
		if !ok {
			log.Printf("import stations: skipping %s, %s, %s, coordinates not found",
				p.row.Name, p.row.City, p.row.State)
			result.Skipped++
			continue
		}

		station := &domain.Station{
			StopID:         p.row.StopID,
			Name:           p.row.Name,
			Address:        p.row.Street,
			City:           p.row.City,
			State:          p.row.State,
			RackID:         p.row.RackID,
			Latitude:       c.Lat,
			Longitude:      c.Lon,
			PricePerGallon: p.row.Price,
		}
		if err := imp.Store.Insert(ctx, station); err != nil {
			return nil, fmt.Errorf("import stations: %w", err)
		}
		result.Inserted++
	}

	return result, nil
}

// geocodeAll resolves addresses under a bounded worker pool. Individual
// failures are logged and dropped from the result; the pool itself only
// fails on context cancellation.
func (imp *Importer) geocodeAll(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	concurrency := imp.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var mu sync.Mutex
	out := make(map[string]domain.Coordinates, len(addresses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, addr := range addresses {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			c, err := imp.Geocoder.Geocode(gctx, addr)
			if err != nil {
				log.Printf("import stations: geocode %q: %v", addr, err)
				return nil
			}

			mu.Lock()
			out[addr] = c
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// geocodeAddress mirrors the lookup string the price sheets were geocoded
// with historically; changing it would orphan existing cache entries.
func geocodeAddress(r Row) string {
	return fmt.Sprintf("%s, %s, %s, %s, USA", r.Name, r.Street, r.City, r.State)
}

// ReadRows parses an OPIS truckstop price sheet.
func ReadRows(csvPath string) ([]Row, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("read rows: open %q: %w", csvPath, err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read rows: read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	required := []string{
		"OPIS Truckstop ID", "Truckstop Name", "Address",
		"City", "State", "Rack ID", "Retail Price",
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("read rows: missing column %q", name)
		}
	}

	field := func(record []string, name string) string {
		return strings.TrimSpace(record[col[name]])
	}

	rows := make([]Row, 0, 256)
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rows: line %d: %w", line, err)
		}

		stopID, err := strconv.Atoi(field(record, "OPIS Truckstop ID"))
		if err != nil {
			return nil, fmt.Errorf("read rows: line %d: invalid stop id: %w", line, err)
		}
		rackID, err := strconv.Atoi(field(record, "Rack ID"))
		if err != nil {
			return nil, fmt.Errorf("read rows: line %d: invalid rack id: %w", line, err)
		}
		price, err := strconv.ParseFloat(field(record, "Retail Price"), 64)
		if err != nil {
			return nil, fmt.Errorf("read rows: line %d: invalid retail price: %w", line, err)
		}

		rows = append(rows, Row{
			StopID: stopID,
			Name:   field(record, "Truckstop Name"),
			Street: field(record, "Address"),
			City:   field(record, "City"),
			State:  field(record, "State"),
			RackID: rackID,
			Price:  price,
		})
	}

	return rows, nil
}
