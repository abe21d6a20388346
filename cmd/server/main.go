package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"fuel-route-service/internal/adapters/cache"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/adapters/routing"
	"fuel-route-service/internal/api"
	"fuel-route-service/internal/config"
	platformdb "fuel-route-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Google Maps) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	port := config.Get("PORT", "8080")

	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		log.Fatal("GOOGLE_MAPS_API_KEY is required")
	}

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := repositories.InitSchema(db); err != nil {
		log.Fatal(err)
	}

	// Routes are cached by geohash pair. With DATABASE_URL set the cache
	// lives in Postgres so multiple instances share it; otherwise it sits
	// next to the station catalog in SQLite.
	var routeCache routing.RouteCacheStore = cache.NewSqliteRouteCache(db)
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pg, err := platformdb.Open(dbURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()

		if err := repositories.InitCacheSchema(pg); err != nil {
			log.Fatal(err)
		}
		routeCache = cache.NewSQLRouteCache(pg)
		log.Println("Using shared Postgres route cache")
	}

	routesProvider, err := routing.NewGoogleRoutesProvider(apiKey)
	if err != nil {
		log.Fatal(err)
	}
	geometry := routing.NewCachedGeometryProvider(routesProvider, routeCache)

	matrix, err := routing.NewGoogleMatrixProvider(apiKey)
	if err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSqliteStationRepository(db)
	router := api.NewRouter(repo, geometry, matrix)

	// Timeouts are tuned for cold-cache route planning (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
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
