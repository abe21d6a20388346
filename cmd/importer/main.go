package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fuel-route-service/internal/adapters/cache"
	"fuel-route-service/internal/adapters/geocode"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/config"
	"fuel-route-service/internal/importer"
	platformdb "fuel-route-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// Bulk-loads an OPIS truckstop price sheet into the station catalog.
//
// Usage: importer <prices.csv>
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <prices.csv>", os.Args[0])
	}
	csvPath := os.Args[1]

	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		log.Fatal("GOOGLE_MAPS_API_KEY is required")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := repositories.InitSchema(db); err != nil {
		log.Fatal(err)
	}

	// Geocode results are worth keeping across runs. With DATABASE_URL set
	// the cache is shared through Postgres, otherwise it stays in SQLite.
	var geocodeCache importer.GeocodeCache = cache.NewSqliteGeocodeCache(db)
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pg, err := platformdb.Open(dbURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()

		if err := repositories.InitCacheSchema(pg); err != nil {
			log.Fatal(err)
		}
		geocodeCache = cache.NewSQLGeocodeCache(pg)
		log.Println("Using shared Postgres geocode cache")
	}

	geocoder, err := geocode.NewGoogleGeocoder(apiKey)
	if err != nil {
		log.Fatal(err)
	}

	imp := &importer.Importer{
		Store:    repositories.NewSqliteStationRepository(db),
		Geocoder: geocoder,
		Cache:    geocodeCache,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := imp.Run(ctx, csvPath)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Import complete: updated=%d inserted=%d skipped=%d",
		result.Updated, result.Inserted, result.Skipped)
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}
