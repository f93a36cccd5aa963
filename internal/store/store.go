package store

import (
	"context"
	"errors"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

type Table string

const (
	TableCities         Table = "cities"
	TableFlights        Table = "flights"
	TableAccommodations Table = "accommodations"
	TableLandmarks      Table = "landmarks"
	TableTrips          Table = "trips"
	TableTripLandmarks  Table = "trip_landmarks"
)

var ErrNotFound = errors.New("record not found")

// Store is the durable catalogue. Deletes only cascade to trip_landmarks join rows:
// removing a city means removing what references it first, which callers do explicitly.
// Joined reads skip rows whose parent city no longer exists.
type Store interface {
	InsertCity(ctx context.Context, city models.City) (int64, error)
	UpdateCity(ctx context.Context, city models.City) error
	DeleteCity(ctx context.Context, id int64) error
	GetCity(ctx context.Context, id int64) (models.City, error)
	ListCities(ctx context.Context) ([]models.City, error)
	GetCityWithLandmarks(ctx context.Context, id int64) (models.CityWithLandmarks, error)

	InsertFlight(ctx context.Context, flight models.Flight) (int64, error)
	UpdateFlight(ctx context.Context, flight models.Flight) error
	DeleteFlight(ctx context.Context, id int64) error
	DeleteFlightsByCity(ctx context.Context, cityID int64) error
	GetFlight(ctx context.Context, id int64) (models.FlightWithCity, error)
	ListFlights(ctx context.Context) ([]models.FlightWithCity, error)
	ListFavoriteFlights(ctx context.Context) ([]models.FlightWithCity, error)

	InsertAccommodation(ctx context.Context, accommodation models.Accommodation) (int64, error)
	UpdateAccommodation(ctx context.Context, accommodation models.Accommodation) error
	DeleteAccommodation(ctx context.Context, id int64) error
	DeleteAccommodationsByCity(ctx context.Context, cityID int64) error
	GetAccommodation(ctx context.Context, id int64) (models.AccommodationWithCity, error)
	ListAccommodations(ctx context.Context) ([]models.AccommodationWithCity, error)
	ListFavoriteAccommodations(ctx context.Context) ([]models.AccommodationWithCity, error)
	AddAccommodationPhoto(ctx context.Context, id int64, url string) error
	RemoveAccommodationPhoto(ctx context.Context, id int64, url string) error

	InsertLandmark(ctx context.Context, landmark models.Landmark) (int64, error)
	UpdateLandmark(ctx context.Context, landmark models.Landmark) error
	DeleteLandmark(ctx context.Context, id int64) error
	DeleteLandmarksByCity(ctx context.Context, cityID int64) error
	GetLandmark(ctx context.Context, id int64) (models.Landmark, error)
	AddLandmarkPhoto(ctx context.Context, id int64, url string) error
	RemoveLandmarkPhoto(ctx context.Context, id int64, url string) error

	InsertTrip(ctx context.Context, trip models.Trip) (int64, error)
	DeleteTrip(ctx context.Context, id int64) error
	DeleteTripsByCity(ctx context.Context, cityID int64) error
	ListTrips(ctx context.Context) ([]models.Trip, error)
	GetTripWithLandmarks(ctx context.Context, id int64) (models.TripWithLandmarks, error)
	LinkTripLandmark(ctx context.Context, link models.TripLandmark) error

	// Version changes after every catalogue write, including writes made by other processes
	// sharing the same database.
	Version(ctx context.Context) (uint64, error)

	Changes() *Changes
	Close() error
}
