package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
	"github.com/DanilaRazvan/TravelPlaner/internal/preferences"
	"github.com/DanilaRazvan/TravelPlaner/internal/store"
)

func newService() (*Service, *store.MemoryStore, *preferences.MemoryStore) {
	st := store.NewMemoryStore()
	prefs := preferences.NewMemoryStore()
	return NewService(st, prefs), st, prefs
}

func mustCity(t *testing.T, s *Service, name, country string) int64 {
	t.Helper()
	id, err := s.AddCity(context.Background(), models.AddCityRequest{Name: name, Country: country})
	if err != nil {
		t.Fatalf("AddCity: %v", err)
	}
	return id
}

func TestAddCity_Validation(t *testing.T) {
	s, _, _ := newService()
	ctx := context.Background()

	if _, err := s.AddCity(ctx, models.AddCityRequest{Country: "France"}); !errors.Is(err, models.ErrMissingName) {
		t.Errorf("missing name err = %v", err)
	}
	if _, err := s.AddCity(ctx, models.AddCityRequest{Name: "Paris", Country: "  "}); !errors.Is(err, models.ErrMissingCountry) {
		t.Errorf("missing country err = %v", err)
	}
}

func TestAddFlight_UnknownCity(t *testing.T) {
	s, _, _ := newService()

	_, err := s.AddFlight(context.Background(), models.AddFlightRequest{ToCityID: 9, From: 1, To: 2})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAddAccommodation_InvalidRange(t *testing.T) {
	s, _, _ := newService()
	cityID := mustCity(t, s, "Paris", "France")

	_, err := s.AddAccommodation(context.Background(), models.AddAccommodationRequest{CityID: cityID, Name: "Hotel", From: 10, To: 5})
	if !errors.Is(err, models.ErrInvalidDateRange) {
		t.Errorf("err = %v, want ErrInvalidDateRange", err)
	}
}

func TestToggleFavorites(t *testing.T) {
	s, _, _ := newService()
	ctx := context.Background()
	cityID := mustCity(t, s, "Paris", "France")

	flightID, _ := s.AddFlight(ctx, models.AddFlightRequest{ToCityID: cityID, TicketPrice: "99", Duration: "1h"})
	accID, _ := s.AddAccommodation(ctx, models.AddAccommodationRequest{CityID: cityID, Name: "Hotel"})

	f, err := s.ToggleFlightFavorite(ctx, flightID)
	if err != nil || !f.Flight.IsFavorite {
		t.Fatalf("ToggleFlightFavorite = %+v, %v", f.Flight, err)
	}
	a, err := s.ToggleAccommodationFavorite(ctx, accID)
	if err != nil || !a.Accommodation.IsFavorite {
		t.Fatalf("ToggleAccommodationFavorite = %+v, %v", a.Accommodation, err)
	}

	favs, err := s.Favorites(ctx)
	if err != nil {
		t.Fatalf("Favorites: %v", err)
	}
	if len(favs.Flights) != 1 || len(favs.Accommodations) != 1 || len(favs.Trips) != 0 {
		t.Errorf("favorites = %+v", favs)
	}

	// removing from favorites is toggling again
	_, _ = s.ToggleFlightFavorite(ctx, flightID)
	favs, _ = s.Favorites(ctx)
	if len(favs.Flights) != 0 {
		t.Errorf("flight still favorite: %+v", favs.Flights)
	}

	if _, err := s.ToggleFlightFavorite(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("toggle missing flight err = %v", err)
	}
}

func TestAccommodationPhotos(t *testing.T) {
	s, _, _ := newService()
	ctx := context.Background()
	cityID := mustCity(t, s, "Paris", "France")
	accID, _ := s.AddAccommodation(ctx, models.AddAccommodationRequest{CityID: cityID, Name: "Hotel"})

	before, _ := s.GetAccommodation(ctx, accID)

	if err := s.AddAccommodationPhoto(ctx, accID, models.PhotoRequest{URL: "u1"}); err != nil {
		t.Fatalf("AddAccommodationPhoto: %v", err)
	}
	if err := s.RemoveAccommodationPhoto(ctx, accID, models.PhotoRequest{URL: "u1"}); err != nil {
		t.Fatalf("RemoveAccommodationPhoto: %v", err)
	}

	after, _ := s.GetAccommodation(ctx, accID)
	if len(after.Accommodation.AdditionalPhotos) != len(before.Accommodation.AdditionalPhotos) {
		t.Errorf("photos = %v, want %v", after.Accommodation.AdditionalPhotos, before.Accommodation.AdditionalPhotos)
	}

	if err := s.AddAccommodationPhoto(ctx, accID, models.PhotoRequest{URL: " "}); !errors.Is(err, models.ErrMissingPhotoURL) {
		t.Errorf("blank url err = %v", err)
	}
}

func TestLandmarkPhotos(t *testing.T) {
	s, _, _ := newService()
	ctx := context.Background()
	cityID := mustCity(t, s, "Rome", "Italy")
	id, _ := s.AddLandmark(ctx, cityID, models.AddLandmarkRequest{Name: "Colosseum", TicketPrice: "18"})

	_ = s.AddLandmarkPhoto(ctx, id, models.PhotoRequest{URL: "a"})
	_ = s.AddLandmarkPhoto(ctx, id, models.PhotoRequest{URL: "b"})
	_ = s.RemoveLandmarkPhoto(ctx, id, models.PhotoRequest{URL: "a"})

	l, err := s.GetLandmark(ctx, id)
	if err != nil {
		t.Fatalf("GetLandmark: %v", err)
	}
	if len(l.AdditionalPhotos) != 1 || l.AdditionalPhotos[0] != "b" {
		t.Errorf("photos = %v, want [b]", l.AdditionalPhotos)
	}
}

func TestDeleteCity(t *testing.T) {
	s, st, _ := newService()
	ctx := context.Background()
	cityID := mustCity(t, s, "Paris", "France")
	_, _ = s.AddFlight(ctx, models.AddFlightRequest{ToCityID: cityID})
	_, _ = s.AddLandmark(ctx, cityID, models.AddLandmarkRequest{Name: "Louvre"})
	_, _ = s.SaveTrip(ctx, models.SaveTripRequest{CityID: cityID})

	if err := s.DeleteCity(ctx, cityID); err != nil {
		t.Fatalf("DeleteCity: %v", err)
	}

	flights, _ := st.ListFlights(ctx)
	trips, _ := st.ListTrips(ctx)
	if len(flights) != 0 || len(trips) != 0 {
		t.Errorf("leftovers: flights=%v trips=%v", flights, trips)
	}
	if err := s.DeleteCity(ctx, cityID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestPreferences(t *testing.T) {
	s, _, prefs := newService()
	ctx := context.Background()
	_ = preferences.SetLoggedUser(ctx, prefs, models.User{ID: 1, Username: "ana", Password: "secret"})

	if on, err := s.ToggleEditMode(ctx); err != nil || !on {
		t.Fatalf("ToggleEditMode = %v, %v", on, err)
	}
	if err := s.SetTheme(ctx, models.ThemeRequest{Theme: "PURPLE"}); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if err := s.SetTheme(ctx, models.ThemeRequest{Theme: "pink"}); !errors.Is(err, models.ErrUnknownTheme) {
		t.Errorf("SetTheme(pink) err = %v", err)
	}

	resp, err := s.Preferences(ctx)
	if err != nil {
		t.Fatalf("Preferences: %v", err)
	}
	if !resp.EditModeEnabled || resp.Theme != "PURPLE" {
		t.Errorf("preferences = %+v", resp)
	}
	if resp.LoggedUser == nil || resp.LoggedUser.Username != "ana" || resp.LoggedUser.Password != "" {
		t.Errorf("logged user = %+v", resp.LoggedUser)
	}

	_ = s.Logout(ctx)
	resp, _ = s.Preferences(ctx)
	if resp.LoggedUser != nil {
		t.Errorf("logged user after logout = %+v", resp.LoggedUser)
	}
}

func TestWatchAccommodation(t *testing.T) {
	s, _, _ := newService()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cityID := mustCity(t, s, "Paris", "France")
	accID, _ := s.AddAccommodation(ctx, models.AddAccommodationRequest{CityID: cityID, Name: "Hotel"})

	ch := s.WatchAccommodation(ctx, accID)
	next := func() AccommodationDetail {
		t.Helper()
		select {
		case d := <-ch:
			return d
		case <-time.After(time.Second):
			t.Fatal("timed out")
		}
		return AccommodationDetail{}
	}

	d := next()
	if d.Accommodation.Accommodation.Name != "Hotel" || d.EditModeEnabled {
		t.Fatalf("first detail = %+v", d)
	}

	_, _ = s.ToggleEditMode(ctx)
	for d = next(); !d.EditModeEnabled; d = next() {
	}

	_ = s.AddAccommodationPhoto(ctx, accID, models.PhotoRequest{URL: "p"})
	for d = next(); len(d.Accommodation.Accommodation.AdditionalPhotos) == 0; d = next() {
	}
	if !d.EditModeEnabled {
		t.Error("edit flag lost after reload")
	}
}
