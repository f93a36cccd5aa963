package store

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

// newTestPostgresStore connects to TEST_DATABASE_URL, drops whatever an earlier run left
// behind and migrates from scratch.
func newTestPostgresStore(t *testing.T) (*PostgresStore, *pgxpool.Pool) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(db.Close)

	_, err = db.Exec(ctx, `
		DROP TABLE IF EXISTS trip_landmarks, trips, landmarks, accommodations, flights, cities,
			catalogue_version, schema_migrations CASCADE;
		DROP FUNCTION IF EXISTS bump_catalogue_version();
	`)
	if err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return NewPostgresStore(db), db
}

func TestPostgresStore_MigrateIsIdempotent(t *testing.T) {
	_, db := newTestPostgresStore(t)
	ctx := context.Background()

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var applied int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	names, _ := migrations.ReadDir("migrations")
	if applied != len(names) {
		t.Errorf("schema_migrations has %d rows, want %d", applied, len(names))
	}
}

func TestPostgresStore_JoinedReadsSkipOrphans(t *testing.T) {
	s, _ := newTestPostgresStore(t)
	ctx := context.Background()

	paris, err := s.InsertCity(ctx, models.City{Name: "Paris", Country: "France"})
	if err != nil {
		t.Fatalf("InsertCity: %v", err)
	}
	rome, err := s.InsertCity(ctx, models.City{Name: "Rome", Country: "Italy"})
	if err != nil {
		t.Fatalf("InsertCity: %v", err)
	}
	for _, city := range []int64{paris, rome} {
		if _, err := s.InsertFlight(ctx, models.Flight{ToCityID: city, TicketPrice: "90", From: 1, To: 2}); err != nil {
			t.Fatalf("InsertFlight: %v", err)
		}
		if _, err := s.InsertAccommodation(ctx, models.Accommodation{CityID: city, Name: "Hotel", From: 1, To: 2}); err != nil {
			t.Fatalf("InsertAccommodation: %v", err)
		}
	}

	// deleting only the city leaves its flight and accommodation rows behind
	if err := s.DeleteCity(ctx, paris); err != nil {
		t.Fatalf("DeleteCity: %v", err)
	}

	flights, err := s.ListFlights(ctx)
	if err != nil {
		t.Fatalf("ListFlights: %v", err)
	}
	if len(flights) != 1 || flights[0].City.ID != rome {
		t.Errorf("flights = %+v, want only the Rome flight", flights)
	}

	accommodations, err := s.ListAccommodations(ctx)
	if err != nil {
		t.Fatalf("ListAccommodations: %v", err)
	}
	if len(accommodations) != 1 || accommodations[0].City.Name != "Rome" {
		t.Errorf("accommodations = %+v, want only the Rome hotel", accommodations)
	}
}

func TestPostgresStore_Photos(t *testing.T) {
	s, _ := newTestPostgresStore(t)
	ctx := context.Background()

	city, _ := s.InsertCity(ctx, models.City{Name: "Lisbon", Country: "Portugal"})
	accID, err := s.InsertAccommodation(ctx, models.Accommodation{CityID: city, Name: "Alfama Rooms"})
	if err != nil {
		t.Fatalf("InsertAccommodation: %v", err)
	}
	landmarkID, err := s.InsertLandmark(ctx, models.Landmark{CityID: city, Name: "Belem Tower"})
	if err != nil {
		t.Fatalf("InsertLandmark: %v", err)
	}

	for _, url := range []string{"a.jpg", "b.jpg", "a.jpg"} {
		if err := s.AddAccommodationPhoto(ctx, accID, url); err != nil {
			t.Fatalf("AddAccommodationPhoto(%s): %v", url, err)
		}
	}
	if err := s.RemoveAccommodationPhoto(ctx, accID, "a.jpg"); err != nil {
		t.Fatalf("RemoveAccommodationPhoto: %v", err)
	}
	acc, err := s.GetAccommodation(ctx, accID)
	if err != nil {
		t.Fatalf("GetAccommodation: %v", err)
	}
	if want := []string{"b.jpg", "a.jpg"}; !reflect.DeepEqual(acc.Accommodation.AdditionalPhotos, want) {
		t.Errorf("accommodation photos = %v, want %v", acc.Accommodation.AdditionalPhotos, want)
	}

	if err := s.AddLandmarkPhoto(ctx, landmarkID, "c.jpg"); err != nil {
		t.Fatalf("AddLandmarkPhoto: %v", err)
	}
	if err := s.RemoveLandmarkPhoto(ctx, landmarkID, "c.jpg"); err != nil {
		t.Fatalf("RemoveLandmarkPhoto: %v", err)
	}
	landmark, err := s.GetLandmark(ctx, landmarkID)
	if err != nil {
		t.Fatalf("GetLandmark: %v", err)
	}
	if len(landmark.AdditionalPhotos) != 0 {
		t.Errorf("landmark photos = %v, want none", landmark.AdditionalPhotos)
	}

	if err := s.AddAccommodationPhoto(ctx, 9999, "x.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("photo on missing accommodation err = %v, want ErrNotFound", err)
	}
}

func TestPostgresStore_LinkTripLandmarkTwice(t *testing.T) {
	s, _ := newTestPostgresStore(t)
	ctx := context.Background()

	city, _ := s.InsertCity(ctx, models.City{Name: "Rome", Country: "Italy"})
	landmarkID, _ := s.InsertLandmark(ctx, models.Landmark{CityID: city, Name: "Colosseum", TicketPrice: 18})
	tripID, err := s.InsertTrip(ctx, models.Trip{CityID: city, Name: "Rome, Italy", TotalPrice: 18})
	if err != nil {
		t.Fatalf("InsertTrip: %v", err)
	}

	link := models.TripLandmark{TripID: tripID, LandmarkID: landmarkID}
	for i := 0; i < 2; i++ {
		if err := s.LinkTripLandmark(ctx, link); err != nil {
			t.Fatalf("LinkTripLandmark #%d: %v", i+1, err)
		}
	}

	trip, err := s.GetTripWithLandmarks(ctx, tripID)
	if err != nil {
		t.Fatalf("GetTripWithLandmarks: %v", err)
	}
	if len(trip.Landmarks) != 1 || trip.Landmarks[0].ID != landmarkID {
		t.Errorf("trip landmarks = %+v, want exactly the Colosseum", trip.Landmarks)
	}
}

func TestPostgresStore_VersionMovesOnWrite(t *testing.T) {
	s, _ := newTestPostgresStore(t)
	ctx := context.Background()

	before, err := s.Version(ctx)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if again, _ := s.Version(ctx); again != before {
		t.Errorf("Version changed without a write: %d -> %d", before, again)
	}

	id, err := s.InsertCity(ctx, models.City{Name: "Porto", Country: "Portugal"})
	if err != nil {
		t.Fatalf("InsertCity: %v", err)
	}
	afterInsert, _ := s.Version(ctx)
	if afterInsert <= before {
		t.Errorf("Version after insert = %d, want > %d", afterInsert, before)
	}

	if err := s.UpdateCity(ctx, models.City{ID: id, Name: "Porto", Country: "Portugal", Description: "river"}); err != nil {
		t.Fatalf("UpdateCity: %v", err)
	}
	if afterUpdate, _ := s.Version(ctx); afterUpdate <= afterInsert {
		t.Errorf("Version after update = %d, want > %d", afterUpdate, afterInsert)
	}
}
