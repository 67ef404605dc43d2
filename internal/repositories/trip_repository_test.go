package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbm "lazytravel/internal/models/db_models"
	resp "lazytravel/internal/models/response_models"
)

// Hand-written DDL because the production models carry postgres column types
// (text[], uuid) that sqlite's migrator cannot reproduce. SQLite's flexible
// typing stores the same values fine.
var testSchema = []string{
	`CREATE TABLE trips (
		id TEXT PRIMARY KEY,
		created_at INTEGER, updated_at INTEGER, deleted_at DATETIME,
		title TEXT, city TEXT, cities TEXT, total_budget REAL, currency TEXT,
		hotel_name TEXT, hotel_lat REAL, hotel_lng REAL,
		share_token TEXT UNIQUE, is_public NUMERIC
	)`,
	`CREATE TABLE trip_days (
		id TEXT PRIMARY KEY,
		created_at INTEGER, updated_at INTEGER, deleted_at DATETIME,
		trip_id TEXT, day_number INTEGER
	)`,
	`CREATE TABLE activities (
		id TEXT PRIMARY KEY,
		created_at INTEGER, updated_at INTEGER, deleted_at DATETIME,
		day_id TEXT, order_index INTEGER,
		place_name TEXT, category TEXT, city TEXT, lat REAL, lng REAL,
		address TEXT, description TEXT, website_url TEXT, image_url TEXT,
		rating REAL, cost REAL, currency TEXT, travel_time_next TEXT,
		source TEXT, original_context TEXT, is_verified NUMERIC
	)`,
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "trips.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	for _, stmt := range testSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func materializedItem(name, city string, day int) resp.TripItem {
	cost := 12.5
	return resp.TripItem{
		ID:        uuid.NewString(),
		PlaceName: name,
		Category:  "attraction",
		City:      city,
		DayNumber: day,
		Cost:      &cost,
		Currency:  "EUR",
	}
}

func itemIDs(items []resp.TripItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestReplaceMaterializedItineraryRoundTrip(t *testing.T) {
	repo := NewTripRepository(openTestDB(t))
	ctx := context.Background()

	trip := &dbm.Trip{Title: "Rome long weekend", ShareToken: uuid.NewString()}
	_, err := repo.CreateTrip(ctx, trip)
	require.NoError(t, err)
	tripID := trip.ID.String()

	items := []resp.TripItem{
		materializedItem("Colosseum", "Rome", 1),
		materializedItem("Pantheon", "Rome", 1),
		materializedItem("Uffizi", "Florence", 2),
	}
	require.NoError(t, repo.ReplaceMaterializedItinerary(ctx, tripID, items))

	loaded, err := repo.ListStops(ctx, tripID)
	require.NoError(t, err)
	require.Equal(t, itemIDs(items), itemIDs(loaded))

	// A loaded session flushing again reuses the same activity ids; the
	// previous rows must be really gone, not soft-deleted with live keys.
	reordered := []resp.TripItem{loaded[1], loaded[0], loaded[2]}
	require.NoError(t, repo.ReplaceMaterializedItinerary(ctx, tripID, reordered))

	again, err := repo.ListStops(ctx, tripID)
	require.NoError(t, err)
	require.Equal(t, itemIDs(reordered), itemIDs(again))
}

func TestReplaceMaterializedItineraryDerivesTripFields(t *testing.T) {
	repo := NewTripRepository(openTestDB(t))
	ctx := context.Background()

	trip := &dbm.Trip{Title: "Two cities", ShareToken: uuid.NewString()}
	_, err := repo.CreateTrip(ctx, trip)
	require.NoError(t, err)

	items := []resp.TripItem{
		materializedItem("Colosseum", "Rome", 1),
		materializedItem("Uffizi", "Florence", 2),
	}
	require.NoError(t, repo.ReplaceMaterializedItinerary(ctx, trip.ID.String(), items))

	saved, err := repo.GetTripByID(ctx, trip.ID.String())
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Equal(t, "Rome", saved.City)
	require.Equal(t, []string{"Rome", "Florence"}, []string(saved.Cities))
	require.NotNil(t, saved.TotalBudget)
	require.InDelta(t, 25.0, *saved.TotalBudget, 0.001)
}
