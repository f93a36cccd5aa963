package catalog

import (
	"context"
	"fmt"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
	"github.com/DanilaRazvan/TravelPlaner/internal/preferences"
	"github.com/DanilaRazvan/TravelPlaner/internal/store"
)

// Service backs the detail screens. Missing records come back as store.ErrNotFound.
type Service struct {
	store store.Store
	prefs preferences.Store
}

func NewService(st store.Store, prefs preferences.Store) *Service {
	return &Service{store: st, prefs: prefs}
}

func (s *Service) ListCities(ctx context.Context) ([]models.City, error) {
	return s.store.ListCities(ctx)
}

func (s *Service) AddCity(ctx context.Context, req models.AddCityRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	return s.store.InsertCity(ctx, models.City{
		Name:        req.Name,
		Country:     req.Country,
		PhotoURL:    req.ImageURL,
		Description: req.Description,
	})
}

func (s *Service) GetCity(ctx context.Context, id int64) (models.CityWithLandmarks, error) {
	return s.store.GetCityWithLandmarks(ctx, id)
}

// DeleteCity removes the city together with its flights, accommodations, landmarks and trips.
func (s *Service) DeleteCity(ctx context.Context, id int64) error {
	if _, err := s.store.GetCity(ctx, id); err != nil {
		return err
	}
	return store.DeleteCityCascade(ctx, s.store, id)
}

func (s *Service) AddFlight(ctx context.Context, req models.AddFlightRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	if _, err := s.store.GetCity(ctx, req.ToCityID); err != nil {
		return 0, err
	}
	return s.store.InsertFlight(ctx, models.Flight{
		TicketPrice: req.TicketPrice,
		Duration:    req.Duration,
		ToCityID:    req.ToCityID,
		Description: req.Description,
		From:        req.From,
		To:          req.To,
	})
}

func (s *Service) GetFlight(ctx context.Context, id int64) (models.FlightWithCity, error) {
	return s.store.GetFlight(ctx, id)
}

func (s *Service) DeleteFlight(ctx context.Context, id int64) error {
	return s.store.DeleteFlight(ctx, id)
}

// ToggleFlightFavorite flips the favorite flag and returns the updated flight.
func (s *Service) ToggleFlightFavorite(ctx context.Context, id int64) (models.FlightWithCity, error) {
	f, err := s.store.GetFlight(ctx, id)
	if err != nil {
		return models.FlightWithCity{}, err
	}

	f.Flight.IsFavorite = !f.Flight.IsFavorite
	if err := s.store.UpdateFlight(ctx, f.Flight); err != nil {
		return models.FlightWithCity{}, err
	}
	return f, nil
}

func (s *Service) AddAccommodation(ctx context.Context, req models.AddAccommodationRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	if _, err := s.store.GetCity(ctx, req.CityID); err != nil {
		return 0, err
	}
	return s.store.InsertAccommodation(ctx, models.Accommodation{
		Name:             req.Name,
		CityID:           req.CityID,
		Description:      req.Description,
		PhotoURL:         req.ImageURL,
		From:             req.From,
		To:               req.To,
		AdditionalPhotos: []string{},
	})
}

func (s *Service) GetAccommodation(ctx context.Context, id int64) (models.AccommodationWithCity, error) {
	return s.store.GetAccommodation(ctx, id)
}

func (s *Service) DeleteAccommodation(ctx context.Context, id int64) error {
	return s.store.DeleteAccommodation(ctx, id)
}

func (s *Service) ToggleAccommodationFavorite(ctx context.Context, id int64) (models.AccommodationWithCity, error) {
	a, err := s.store.GetAccommodation(ctx, id)
	if err != nil {
		return models.AccommodationWithCity{}, err
	}

	a.Accommodation.IsFavorite = !a.Accommodation.IsFavorite
	if err := s.store.UpdateAccommodation(ctx, a.Accommodation); err != nil {
		return models.AccommodationWithCity{}, err
	}
	return a, nil
}

func (s *Service) AddAccommodationPhoto(ctx context.Context, id int64, req models.PhotoRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.store.AddAccommodationPhoto(ctx, id, req.URL)
}

func (s *Service) RemoveAccommodationPhoto(ctx context.Context, id int64, req models.PhotoRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.store.RemoveAccommodationPhoto(ctx, id, req.URL)
}

func (s *Service) GetLandmark(ctx context.Context, id int64) (models.Landmark, error) {
	return s.store.GetLandmark(ctx, id)
}

func (s *Service) DeleteLandmark(ctx context.Context, id int64) error {
	return s.store.DeleteLandmark(ctx, id)
}

func (s *Service) AddLandmarkPhoto(ctx context.Context, id int64, req models.PhotoRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.store.AddLandmarkPhoto(ctx, id, req.URL)
}

func (s *Service) RemoveLandmarkPhoto(ctx context.Context, id int64, req models.PhotoRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.store.RemoveLandmarkPhoto(ctx, id, req.URL)
}

func (s *Service) Favorites(ctx context.Context) (models.FavoritesResponse, error) {
	trips, err := s.store.ListTrips(ctx)
	if err != nil {
		return models.FavoritesResponse{}, fmt.Errorf("failed to load trips: %w", err)
	}
	flights, err := s.store.ListFavoriteFlights(ctx)
	if err != nil {
		return models.FavoritesResponse{}, fmt.Errorf("failed to load favorite flights: %w", err)
	}
	accommodations, err := s.store.ListFavoriteAccommodations(ctx)
	if err != nil {
		return models.FavoritesResponse{}, fmt.Errorf("failed to load favorite accommodations: %w", err)
	}

	return models.FavoritesResponse{
		Trips:          trips,
		Flights:        flights,
		Accommodations: accommodations,
	}, nil
}
