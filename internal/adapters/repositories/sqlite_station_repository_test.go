package repositories

import (
	"context"
	"database/sql"
	"testing"

	"fuel-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// A shared in-memory database needs a single connection; a second
	// connection would see a fresh empty database.
	db.SetMaxOpenConns(1)

	require.NoError(t, InitSchema(db))
	return db
}

func sampleStation(stopID int, price float64) *domain.Station {
	return &domain.Station{
		StopID:         stopID,
		Name:           "WAYSIDE FUEL",
		Address:        "I-40 EXIT 10",
		City:           "AMARILLO",
		State:          "TX",
		RackID:         3,
		Latitude:       35.19,
		Longitude:      -101.85,
		PricePerGallon: price,
	}
}

func TestInsertAndFindByStopID(t *testing.T) {
	repo := NewSqliteStationRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, sampleStation(1, 3.45)))

	got, err := repo.FindByStopID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "WAYSIDE FUEL", got.Name)
	assert.Equal(t, 3.45, got.PricePerGallon)

	missing, err := repo.FindByStopID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListStationsOrderedByStopID(t *testing.T) {
	repo := NewSqliteStationRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, sampleStation(20, 3.10)))
	require.NoError(t, repo.Insert(ctx, sampleStation(5, 3.20)))

	stations, err := repo.ListStations(ctx)
	require.NoError(t, err)
	require.Len(t, stations, 2)
	assert.Equal(t, 5, stations[0].StopID)
	assert.Equal(t, 20, stations[1].StopID)
}

func TestUpdatePrice(t *testing.T) {
	repo := NewSqliteStationRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, sampleStation(1, 3.45)))
	require.NoError(t, repo.UpdatePrice(ctx, 1, 3.99))

	got, err := repo.FindByStopID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3.99, got.PricePerGallon)
}

func TestUpdatePriceUnknownStation(t *testing.T) {
	repo := NewSqliteStationRepository(newTestDB(t))

	err := repo.UpdatePrice(context.Background(), 404, 3.99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such station")
}

func TestUpdatePriceRejectsNegative(t *testing.T) {
	repo := NewSqliteStationRepository(newTestDB(t))

	err := repo.UpdatePrice(context.Background(), 1, -1)
	require.Error(t, err)
}

func TestInsertDuplicateStopID(t *testing.T) {
	repo := NewSqliteStationRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, sampleStation(1, 3.45)))
	require.Error(t, repo.Insert(ctx, sampleStation(1, 3.50)))
}
