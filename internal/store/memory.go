package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps every table as an insertion-ordered slice. It backs tests and the
// "memory" store driver.
type MemoryStore struct {
	mu             sync.RWMutex
	lastIDs        map[Table]int64
	cities         []models.City
	flights        []models.Flight
	accommodations []models.Accommodation
	landmarks      []models.Landmark
	trips          []models.Trip
	tripLandmarks  []models.TripLandmark
	changes        *Changes
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lastIDs: make(map[Table]int64), changes: NewChanges()}
}

func (s *MemoryStore) Changes() *Changes {
	return s.changes
}

func (s *MemoryStore) Version(ctx context.Context) (uint64, error) {
	return s.changes.Generation(), nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) nextID(table Table) int64 {
	s.lastIDs[table]++
	return s.lastIDs[table]
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

func (s *MemoryStore) InsertCity(ctx context.Context, city models.City) (int64, error) {
	s.mu.Lock()
	city.ID = s.nextID(TableCities)
	s.cities = append(s.cities, city)
	s.mu.Unlock()

	s.changes.Publish(TableCities)
	return city.ID, nil
}

func (s *MemoryStore) UpdateCity(ctx context.Context, city models.City) error {
	s.mu.Lock()
	i := indexOf(s.cities, func(c models.City) bool { return c.ID == city.ID })
	if i < 0 {
		s.mu.Unlock()
		return notFound("city", city.ID)
	}
	s.cities[i] = city
	s.mu.Unlock()

	s.changes.Publish(TableCities)
	return nil
}

func (s *MemoryStore) DeleteCity(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.cities = removeWhere(s.cities, func(c models.City) bool { return c.ID == id })
	s.mu.Unlock()

	s.changes.Publish(TableCities)
	return nil
}

func (s *MemoryStore) GetCity(ctx context.Context, id int64) (models.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	city, ok := s.city(id)
	if !ok {
		return models.City{}, notFound("city", id)
	}
	return city, nil
}

func (s *MemoryStore) ListCities(ctx context.Context) ([]models.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]models.City, 0, len(s.cities)), s.cities...), nil
}

func (s *MemoryStore) GetCityWithLandmarks(ctx context.Context, id int64) (models.CityWithLandmarks, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	city, ok := s.city(id)
	if !ok {
		return models.CityWithLandmarks{}, notFound("city", id)
	}

	landmarks := make([]models.Landmark, 0)
	for _, l := range s.landmarks {
		if l.CityID == id {
			landmarks = append(landmarks, cloneLandmark(l))
		}
	}
	return models.CityWithLandmarks{City: city, Landmarks: landmarks}, nil
}

func (s *MemoryStore) InsertFlight(ctx context.Context, flight models.Flight) (int64, error) {
	s.mu.Lock()
	flight.ID = s.nextID(TableFlights)
	s.flights = append(s.flights, flight)
	s.mu.Unlock()

	s.changes.Publish(TableFlights)
	return flight.ID, nil
}

func (s *MemoryStore) UpdateFlight(ctx context.Context, flight models.Flight) error {
	s.mu.Lock()
	i := indexOf(s.flights, func(f models.Flight) bool { return f.ID == flight.ID })
	if i < 0 {
		s.mu.Unlock()
		return notFound("flight", flight.ID)
	}
	s.flights[i] = flight
	s.mu.Unlock()

	s.changes.Publish(TableFlights)
	return nil
}

func (s *MemoryStore) DeleteFlight(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.flights = removeWhere(s.flights, func(f models.Flight) bool { return f.ID == id })
	s.mu.Unlock()

	s.changes.Publish(TableFlights)
	return nil
}

func (s *MemoryStore) DeleteFlightsByCity(ctx context.Context, cityID int64) error {
	s.mu.Lock()
	s.flights = removeWhere(s.flights, func(f models.Flight) bool { return f.ToCityID == cityID })
	s.mu.Unlock()

	s.changes.Publish(TableFlights)
	return nil
}

func (s *MemoryStore) GetFlight(ctx context.Context, id int64) (models.FlightWithCity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.flights, func(f models.Flight) bool { return f.ID == id })
	if i < 0 {
		return models.FlightWithCity{}, notFound("flight", id)
	}
	city, ok := s.city(s.flights[i].ToCityID)
	if !ok {
		return models.FlightWithCity{}, notFound("flight", id)
	}
	return models.FlightWithCity{Flight: s.flights[i], City: city}, nil
}

func (s *MemoryStore) ListFlights(ctx context.Context) ([]models.FlightWithCity, error) {
	return s.listFlights(func(models.Flight) bool { return true }), nil
}

func (s *MemoryStore) ListFavoriteFlights(ctx context.Context) ([]models.FlightWithCity, error) {
	return s.listFlights(func(f models.Flight) bool { return f.IsFavorite }), nil
}

func (s *MemoryStore) listFlights(keep func(models.Flight) bool) []models.FlightWithCity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.FlightWithCity, 0, len(s.flights))
	for _, f := range s.flights {
		if !keep(f) {
			continue
		}
		if city, ok := s.city(f.ToCityID); ok {
			result = append(result, models.FlightWithCity{Flight: f, City: city})
		}
	}
	return result
}

func (s *MemoryStore) InsertAccommodation(ctx context.Context, accommodation models.Accommodation) (int64, error) {
	s.mu.Lock()
	accommodation.ID = s.nextID(TableAccommodations)
	accommodation.AdditionalPhotos = cloneStrings(accommodation.AdditionalPhotos)
	s.accommodations = append(s.accommodations, accommodation)
	s.mu.Unlock()

	s.changes.Publish(TableAccommodations)
	return accommodation.ID, nil
}

func (s *MemoryStore) UpdateAccommodation(ctx context.Context, accommodation models.Accommodation) error {
	s.mu.Lock()
	i := indexOf(s.accommodations, func(a models.Accommodation) bool { return a.ID == accommodation.ID })
	if i < 0 {
		s.mu.Unlock()
		return notFound("accommodation", accommodation.ID)
	}
	accommodation.AdditionalPhotos = cloneStrings(accommodation.AdditionalPhotos)
	s.accommodations[i] = accommodation
	s.mu.Unlock()

	s.changes.Publish(TableAccommodations)
	return nil
}

func (s *MemoryStore) DeleteAccommodation(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.accommodations = removeWhere(s.accommodations, func(a models.Accommodation) bool { return a.ID == id })
	s.mu.Unlock()

	s.changes.Publish(TableAccommodations)
	return nil
}

func (s *MemoryStore) DeleteAccommodationsByCity(ctx context.Context, cityID int64) error {
	s.mu.Lock()
	s.accommodations = removeWhere(s.accommodations, func(a models.Accommodation) bool { return a.CityID == cityID })
	s.mu.Unlock()

	s.changes.Publish(TableAccommodations)
	return nil
}

func (s *MemoryStore) GetAccommodation(ctx context.Context, id int64) (models.AccommodationWithCity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.accommodations, func(a models.Accommodation) bool { return a.ID == id })
	if i < 0 {
		return models.AccommodationWithCity{}, notFound("accommodation", id)
	}
	city, ok := s.city(s.accommodations[i].CityID)
	if !ok {
		return models.AccommodationWithCity{}, notFound("accommodation", id)
	}
	return models.AccommodationWithCity{Accommodation: cloneAccommodation(s.accommodations[i]), City: city}, nil
}

func (s *MemoryStore) ListAccommodations(ctx context.Context) ([]models.AccommodationWithCity, error) {
	return s.listAccommodations(func(models.Accommodation) bool { return true }), nil
}

func (s *MemoryStore) ListFavoriteAccommodations(ctx context.Context) ([]models.AccommodationWithCity, error) {
	return s.listAccommodations(func(a models.Accommodation) bool { return a.IsFavorite }), nil
}

func (s *MemoryStore) listAccommodations(keep func(models.Accommodation) bool) []models.AccommodationWithCity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.AccommodationWithCity, 0, len(s.accommodations))
	for _, a := range s.accommodations {
		if !keep(a) {
			continue
		}
		if city, ok := s.city(a.CityID); ok {
			result = append(result, models.AccommodationWithCity{Accommodation: cloneAccommodation(a), City: city})
		}
	}
	return result
}

func (s *MemoryStore) AddAccommodationPhoto(ctx context.Context, id int64, url string) error {
	return s.editAccommodationPhotos(id, func(p []string) []string { return models.AppendPhoto(p, url) })
}

func (s *MemoryStore) RemoveAccommodationPhoto(ctx context.Context, id int64, url string) error {
	return s.editAccommodationPhotos(id, func(p []string) []string { return models.RemovePhoto(p, url) })
}

func (s *MemoryStore) editAccommodationPhotos(id int64, edit func([]string) []string) error {
	s.mu.Lock()
	i := indexOf(s.accommodations, func(a models.Accommodation) bool { return a.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return notFound("accommodation", id)
	}
	s.accommodations[i].AdditionalPhotos = edit(s.accommodations[i].AdditionalPhotos)
	s.mu.Unlock()

	s.changes.Publish(TableAccommodations)
	return nil
}

func (s *MemoryStore) InsertLandmark(ctx context.Context, landmark models.Landmark) (int64, error) {
	s.mu.Lock()
	landmark.ID = s.nextID(TableLandmarks)
	landmark.AdditionalPhotos = cloneStrings(landmark.AdditionalPhotos)
	s.landmarks = append(s.landmarks, landmark)
	s.mu.Unlock()

	s.changes.Publish(TableLandmarks)
	return landmark.ID, nil
}

func (s *MemoryStore) UpdateLandmark(ctx context.Context, landmark models.Landmark) error {
	s.mu.Lock()
	i := indexOf(s.landmarks, func(l models.Landmark) bool { return l.ID == landmark.ID })
	if i < 0 {
		s.mu.Unlock()
		return notFound("landmark", landmark.ID)
	}
	landmark.AdditionalPhotos = cloneStrings(landmark.AdditionalPhotos)
	s.landmarks[i] = landmark
	s.mu.Unlock()

	s.changes.Publish(TableLandmarks)
	return nil
}

func (s *MemoryStore) DeleteLandmark(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.landmarks = removeWhere(s.landmarks, func(l models.Landmark) bool { return l.ID == id })
	s.tripLandmarks = removeWhere(s.tripLandmarks, func(tl models.TripLandmark) bool { return tl.LandmarkID == id })
	s.mu.Unlock()

	s.changes.Publish(TableLandmarks, TableTripLandmarks)
	return nil
}

func (s *MemoryStore) DeleteLandmarksByCity(ctx context.Context, cityID int64) error {
	s.mu.Lock()
	removed := make(map[int64]bool)
	s.landmarks = removeWhere(s.landmarks, func(l models.Landmark) bool {
		if l.CityID == cityID {
			removed[l.ID] = true
			return true
		}
		return false
	})
	s.tripLandmarks = removeWhere(s.tripLandmarks, func(tl models.TripLandmark) bool { return removed[tl.LandmarkID] })
	s.mu.Unlock()

	s.changes.Publish(TableLandmarks, TableTripLandmarks)
	return nil
}

func (s *MemoryStore) GetLandmark(ctx context.Context, id int64) (models.Landmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.landmarks, func(l models.Landmark) bool { return l.ID == id })
	if i < 0 {
		return models.Landmark{}, notFound("landmark", id)
	}
	return cloneLandmark(s.landmarks[i]), nil
}

func (s *MemoryStore) AddLandmarkPhoto(ctx context.Context, id int64, url string) error {
	return s.editLandmarkPhotos(id, func(p []string) []string { return models.AppendPhoto(p, url) })
}

func (s *MemoryStore) RemoveLandmarkPhoto(ctx context.Context, id int64, url string) error {
	return s.editLandmarkPhotos(id, func(p []string) []string { return models.RemovePhoto(p, url) })
}

func (s *MemoryStore) editLandmarkPhotos(id int64, edit func([]string) []string) error {
	s.mu.Lock()
	i := indexOf(s.landmarks, func(l models.Landmark) bool { return l.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return notFound("landmark", id)
	}
	s.landmarks[i].AdditionalPhotos = edit(s.landmarks[i].AdditionalPhotos)
	s.mu.Unlock()

	s.changes.Publish(TableLandmarks)
	return nil
}

func (s *MemoryStore) InsertTrip(ctx context.Context, trip models.Trip) (int64, error) {
	s.mu.Lock()
	trip.ID = s.nextID(TableTrips)
	s.trips = append(s.trips, trip)
	s.mu.Unlock()

	s.changes.Publish(TableTrips)
	return trip.ID, nil
}

func (s *MemoryStore) DeleteTrip(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.trips = removeWhere(s.trips, func(t models.Trip) bool { return t.ID == id })
	s.tripLandmarks = removeWhere(s.tripLandmarks, func(tl models.TripLandmark) bool { return tl.TripID == id })
	s.mu.Unlock()

	s.changes.Publish(TableTrips, TableTripLandmarks)
	return nil
}

func (s *MemoryStore) DeleteTripsByCity(ctx context.Context, cityID int64) error {
	s.mu.Lock()
	removed := make(map[int64]bool)
	s.trips = removeWhere(s.trips, func(t models.Trip) bool {
		if t.CityID == cityID {
			removed[t.ID] = true
			return true
		}
		return false
	})
	s.tripLandmarks = removeWhere(s.tripLandmarks, func(tl models.TripLandmark) bool { return removed[tl.TripID] })
	s.mu.Unlock()

	s.changes.Publish(TableTrips, TableTripLandmarks)
	return nil
}

func (s *MemoryStore) ListTrips(ctx context.Context) ([]models.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]models.Trip, 0, len(s.trips)), s.trips...), nil
}

func (s *MemoryStore) GetTripWithLandmarks(ctx context.Context, id int64) (models.TripWithLandmarks, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.trips, func(t models.Trip) bool { return t.ID == id })
	if i < 0 {
		return models.TripWithLandmarks{}, notFound("trip", id)
	}

	landmarks := make([]models.Landmark, 0)
	for _, tl := range s.tripLandmarks {
		if tl.TripID != id {
			continue
		}
		if j := indexOf(s.landmarks, func(l models.Landmark) bool { return l.ID == tl.LandmarkID }); j >= 0 {
			landmarks = append(landmarks, cloneLandmark(s.landmarks[j]))
		}
	}
	return models.TripWithLandmarks{Trip: s.trips[i], Landmarks: landmarks}, nil
}

// LinkTripLandmark replaces an existing identical link.
func (s *MemoryStore) LinkTripLandmark(ctx context.Context, link models.TripLandmark) error {
	s.mu.Lock()
	s.tripLandmarks = removeWhere(s.tripLandmarks, func(tl models.TripLandmark) bool { return tl == link })
	s.tripLandmarks = append(s.tripLandmarks, link)
	s.mu.Unlock()

	s.changes.Publish(TableTripLandmarks)
	return nil
}

func (s *MemoryStore) city(id int64) (models.City, bool) {
	i := indexOf(s.cities, func(c models.City) bool { return c.ID == id })
	if i < 0 {
		return models.City{}, false
	}
	return s.cities[i], true
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, item := range items {
		if match(item) {
			return i
		}
	}
	return -1
}

func removeWhere[T any](items []T, match func(T) bool) []T {
	kept := items[:0]
	for _, item := range items {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	return kept
}

func cloneStrings(s []string) []string {
	return append(make([]string, 0, len(s)), s...)
}

func cloneAccommodation(a models.Accommodation) models.Accommodation {
	a.AdditionalPhotos = cloneStrings(a.AdditionalPhotos)
	return a
}

func cloneLandmark(l models.Landmark) models.Landmark {
	l.AdditionalPhotos = cloneStrings(l.AdditionalPhotos)
	return l
}
