package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore handles catalogue persistence in PostgreSQL
type PostgresStore struct {
	db      *pgxpool.Pool
	changes *Changes
}

// NewPostgresStore creates a store over an open pool
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db, changes: NewChanges()}
}

func (s *PostgresStore) Changes() *Changes {
	return s.changes
}

func (s *PostgresStore) Version(ctx context.Context) (uint64, error) {
	var version int64
	err := s.db.QueryRow(ctx, `SELECT epoch + version FROM catalogue_version`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read catalogue version: %w", err)
	}
	return uint64(version), nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

const (
	cityColumns          = `c.id, c.name, c.country, c.photo_url, c.description`
	flightColumns        = `f.id, f.ticket_price, f.duration, f.to_city_id, f.description, f.from_ms, f.to_ms, f.is_favorite`
	accommodationColumns = `a.id, a.name, a.city_id, a.description, a.photo_url, a.from_ms, a.to_ms, a.is_favorite, a.additional_photos`
	landmarkColumns      = `l.id, l.city_id, l.name, l.ticket_price, l.description, l.photo_url, l.opening, l.closing, l.additional_photos`
)

func cityFields(c *models.City) []any {
	return []any{&c.ID, &c.Name, &c.Country, &c.PhotoURL, &c.Description}
}

func flightFields(f *models.Flight) []any {
	return []any{&f.ID, &f.TicketPrice, &f.Duration, &f.ToCityID, &f.Description, &f.From, &f.To, &f.IsFavorite}
}

func accommodationFields(a *models.Accommodation) []any {
	return []any{&a.ID, &a.Name, &a.CityID, &a.Description, &a.PhotoURL, &a.From, &a.To, &a.IsFavorite, &a.AdditionalPhotos}
}

func landmarkFields(l *models.Landmark) []any {
	return []any{&l.ID, &l.CityID, &l.Name, &l.TicketPrice, &l.Description, &l.PhotoURL, &l.Opening, &l.Closing, &l.AdditionalPhotos}
}

func photosOrEmpty(p []string) []string {
	if p == nil {
		return []string{}
	}
	return p
}

func (s *PostgresStore) exec(ctx context.Context, op string, query string, args ...any) (int64, error) {
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to %s: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) insert(ctx context.Context, op string, table Table, query string, args ...any) (int64, error) {
	var id int64
	if err := s.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to %s: %w", op, err)
	}
	s.changes.Publish(table)
	return id, nil
}

func (s *PostgresStore) update(ctx context.Context, kind string, id int64, table Table, query string, args ...any) error {
	n, err := s.exec(ctx, "update "+kind, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(kind, id)
	}
	s.changes.Publish(table)
	return nil
}

func (s *PostgresStore) delete(ctx context.Context, op string, query string, arg int64, tables ...Table) error {
	if _, err := s.exec(ctx, op, query, arg); err != nil {
		return err
	}
	s.changes.Publish(tables...)
	return nil
}

func (s *PostgresStore) InsertCity(ctx context.Context, city models.City) (int64, error) {
	return s.insert(ctx, "create city", TableCities, `
		INSERT INTO cities (name, country, photo_url, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, city.Name, city.Country, city.PhotoURL, city.Description)
}

func (s *PostgresStore) UpdateCity(ctx context.Context, city models.City) error {
	return s.update(ctx, "city", city.ID, TableCities, `
		UPDATE cities SET name = $1, country = $2, photo_url = $3, description = $4
		WHERE id = $5
	`, city.Name, city.Country, city.PhotoURL, city.Description, city.ID)
}

func (s *PostgresStore) DeleteCity(ctx context.Context, id int64) error {
	return s.delete(ctx, "delete city", `DELETE FROM cities WHERE id = $1`, id, TableCities)
}

func (s *PostgresStore) GetCity(ctx context.Context, id int64) (models.City, error) {
	var city models.City
	err := s.db.QueryRow(ctx, `SELECT `+cityColumns+` FROM cities c WHERE c.id = $1`, id).Scan(cityFields(&city)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.City{}, notFound("city", id)
		}
		return models.City{}, fmt.Errorf("failed to get city: %w", err)
	}
	return city, nil
}

func (s *PostgresStore) ListCities(ctx context.Context) ([]models.City, error) {
	rows, err := s.db.Query(ctx, `SELECT `+cityColumns+` FROM cities c ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer rows.Close()

	cities := make([]models.City, 0)
	for rows.Next() {
		var city models.City
		if err := rows.Scan(cityFields(&city)...); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, city)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cities: %w", err)
	}
	return cities, nil
}

func (s *PostgresStore) GetCityWithLandmarks(ctx context.Context, id int64) (models.CityWithLandmarks, error) {
	city, err := s.GetCity(ctx, id)
	if err != nil {
		return models.CityWithLandmarks{}, err
	}

	landmarks, err := s.queryLandmarks(ctx, `SELECT `+landmarkColumns+` FROM landmarks l WHERE l.city_id = $1 ORDER BY l.id`, id)
	if err != nil {
		return models.CityWithLandmarks{}, err
	}
	return models.CityWithLandmarks{City: city, Landmarks: landmarks}, nil
}

func (s *PostgresStore) InsertFlight(ctx context.Context, flight models.Flight) (int64, error) {
	return s.insert(ctx, "create flight", TableFlights, `
		INSERT INTO flights (ticket_price, duration, to_city_id, description, from_ms, to_ms, is_favorite)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, flight.TicketPrice, flight.Duration, flight.ToCityID, flight.Description, flight.From, flight.To, flight.IsFavorite)
}

func (s *PostgresStore) UpdateFlight(ctx context.Context, flight models.Flight) error {
	return s.update(ctx, "flight", flight.ID, TableFlights, `
		UPDATE flights
		SET ticket_price = $1, duration = $2, to_city_id = $3, description = $4,
		    from_ms = $5, to_ms = $6, is_favorite = $7
		WHERE id = $8
	`, flight.TicketPrice, flight.Duration, flight.ToCityID, flight.Description,
		flight.From, flight.To, flight.IsFavorite, flight.ID)
}

func (s *PostgresStore) DeleteFlight(ctx context.Context, id int64) error {
	return s.delete(ctx, "delete flight", `DELETE FROM flights WHERE id = $1`, id, TableFlights)
}

func (s *PostgresStore) DeleteFlightsByCity(ctx context.Context, cityID int64) error {
	return s.delete(ctx, "delete flights by city", `DELETE FROM flights WHERE to_city_id = $1`, cityID, TableFlights)
}

const flightWithCityQuery = `SELECT ` + flightColumns + `, ` + cityColumns + `
	FROM flights f
	JOIN cities c ON c.id = f.to_city_id`

func (s *PostgresStore) GetFlight(ctx context.Context, id int64) (models.FlightWithCity, error) {
	flights, err := s.queryFlights(ctx, flightWithCityQuery+` WHERE f.id = $1`, id)
	if err != nil {
		return models.FlightWithCity{}, err
	}
	if len(flights) == 0 {
		return models.FlightWithCity{}, notFound("flight", id)
	}
	return flights[0], nil
}

func (s *PostgresStore) ListFlights(ctx context.Context) ([]models.FlightWithCity, error) {
	return s.queryFlights(ctx, flightWithCityQuery+` ORDER BY f.id`)
}

func (s *PostgresStore) ListFavoriteFlights(ctx context.Context) ([]models.FlightWithCity, error) {
	return s.queryFlights(ctx, flightWithCityQuery+` WHERE f.is_favorite ORDER BY f.id`)
}

func (s *PostgresStore) queryFlights(ctx context.Context, query string, args ...any) ([]models.FlightWithCity, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get flights: %w", err)
	}
	defer rows.Close()

	flights := make([]models.FlightWithCity, 0)
	for rows.Next() {
		var fc models.FlightWithCity
		dest := append(flightFields(&fc.Flight), cityFields(&fc.City)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan flight: %w", err)
		}
		flights = append(flights, fc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating flights: %w", err)
	}
	return flights, nil
}

func (s *PostgresStore) InsertAccommodation(ctx context.Context, a models.Accommodation) (int64, error) {
	return s.insert(ctx, "create accommodation", TableAccommodations, `
		INSERT INTO accommodations (name, city_id, description, photo_url, from_ms, to_ms, is_favorite, additional_photos)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, a.Name, a.CityID, a.Description, a.PhotoURL, a.From, a.To, a.IsFavorite, photosOrEmpty(a.AdditionalPhotos))
}

func (s *PostgresStore) UpdateAccommodation(ctx context.Context, a models.Accommodation) error {
	return s.update(ctx, "accommodation", a.ID, TableAccommodations, `
		UPDATE accommodations
		SET name = $1, city_id = $2, description = $3, photo_url = $4,
		    from_ms = $5, to_ms = $6, is_favorite = $7, additional_photos = $8
		WHERE id = $9
	`, a.Name, a.CityID, a.Description, a.PhotoURL, a.From, a.To, a.IsFavorite,
		photosOrEmpty(a.AdditionalPhotos), a.ID)
}

func (s *PostgresStore) DeleteAccommodation(ctx context.Context, id int64) error {
	return s.delete(ctx, "delete accommodation", `DELETE FROM accommodations WHERE id = $1`, id, TableAccommodations)
}

func (s *PostgresStore) DeleteAccommodationsByCity(ctx context.Context, cityID int64) error {
	return s.delete(ctx, "delete accommodations by city", `DELETE FROM accommodations WHERE city_id = $1`, cityID, TableAccommodations)
}

const accommodationWithCityQuery = `SELECT ` + accommodationColumns + `, ` + cityColumns + `
	FROM accommodations a
	JOIN cities c ON c.id = a.city_id`

func (s *PostgresStore) GetAccommodation(ctx context.Context, id int64) (models.AccommodationWithCity, error) {
	accommodations, err := s.queryAccommodations(ctx, accommodationWithCityQuery+` WHERE a.id = $1`, id)
	if err != nil {
		return models.AccommodationWithCity{}, err
	}
	if len(accommodations) == 0 {
		return models.AccommodationWithCity{}, notFound("accommodation", id)
	}
	return accommodations[0], nil
}

func (s *PostgresStore) ListAccommodations(ctx context.Context) ([]models.AccommodationWithCity, error) {
	return s.queryAccommodations(ctx, accommodationWithCityQuery+` ORDER BY a.id`)
}

func (s *PostgresStore) ListFavoriteAccommodations(ctx context.Context) ([]models.AccommodationWithCity, error) {
	return s.queryAccommodations(ctx, accommodationWithCityQuery+` WHERE a.is_favorite ORDER BY a.id`)
}

func (s *PostgresStore) queryAccommodations(ctx context.Context, query string, args ...any) ([]models.AccommodationWithCity, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get accommodations: %w", err)
	}
	defer rows.Close()

	accommodations := make([]models.AccommodationWithCity, 0)
	for rows.Next() {
		var ac models.AccommodationWithCity
		dest := append(accommodationFields(&ac.Accommodation), cityFields(&ac.City)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan accommodation: %w", err)
		}
		accommodations = append(accommodations, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accommodations: %w", err)
	}
	return accommodations, nil
}

func (s *PostgresStore) AddAccommodationPhoto(ctx context.Context, id int64, url string) error {
	return s.editPhotos(ctx, "accommodations", "accommodation", id, TableAccommodations,
		func(p []string) []string { return models.AppendPhoto(p, url) })
}

func (s *PostgresStore) RemoveAccommodationPhoto(ctx context.Context, id int64, url string) error {
	return s.editPhotos(ctx, "accommodations", "accommodation", id, TableAccommodations,
		func(p []string) []string { return models.RemovePhoto(p, url) })
}

// editPhotos rewrites a row's additional_photos under a row lock so concurrent edits to
// the same row cannot drop each other's changes.
func (s *PostgresStore) editPhotos(ctx context.Context, table, kind string, id int64, changed Table, edit func([]string) []string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin %s photo edit: %w", kind, err)
	}
	defer tx.Rollback(ctx)

	var photos []string
	err = tx.QueryRow(ctx, `SELECT additional_photos FROM `+table+` WHERE id = $1 FOR UPDATE`, id).Scan(&photos)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound(kind, id)
		}
		return fmt.Errorf("failed to read %s photos: %w", kind, err)
	}

	if _, err := tx.Exec(ctx, `UPDATE `+table+` SET additional_photos = $1 WHERE id = $2`, edit(photos), id); err != nil {
		return fmt.Errorf("failed to update %s photos: %w", kind, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit %s photo edit: %w", kind, err)
	}

	s.changes.Publish(changed)
	return nil
}

func (s *PostgresStore) InsertLandmark(ctx context.Context, l models.Landmark) (int64, error) {
	return s.insert(ctx, "create landmark", TableLandmarks, `
		INSERT INTO landmarks (city_id, name, ticket_price, description, photo_url, opening, closing, additional_photos)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, l.CityID, l.Name, l.TicketPrice, l.Description, l.PhotoURL, l.Opening, l.Closing, photosOrEmpty(l.AdditionalPhotos))
}

func (s *PostgresStore) UpdateLandmark(ctx context.Context, l models.Landmark) error {
	return s.update(ctx, "landmark", l.ID, TableLandmarks, `
		UPDATE landmarks
		SET city_id = $1, name = $2, ticket_price = $3, description = $4, photo_url = $5,
		    opening = $6, closing = $7, additional_photos = $8
		WHERE id = $9
	`, l.CityID, l.Name, l.TicketPrice, l.Description, l.PhotoURL, l.Opening, l.Closing,
		photosOrEmpty(l.AdditionalPhotos), l.ID)
}

func (s *PostgresStore) DeleteLandmark(ctx context.Context, id int64) error {
	return s.delete(ctx, "delete landmark", `DELETE FROM landmarks WHERE id = $1`, id, TableLandmarks, TableTripLandmarks)
}

func (s *PostgresStore) DeleteLandmarksByCity(ctx context.Context, cityID int64) error {
	return s.delete(ctx, "delete landmarks by city", `DELETE FROM landmarks WHERE city_id = $1`, cityID, TableLandmarks, TableTripLandmarks)
}

func (s *PostgresStore) GetLandmark(ctx context.Context, id int64) (models.Landmark, error) {
	landmarks, err := s.queryLandmarks(ctx, `SELECT `+landmarkColumns+` FROM landmarks l WHERE l.id = $1`, id)
	if err != nil {
		return models.Landmark{}, err
	}
	if len(landmarks) == 0 {
		return models.Landmark{}, notFound("landmark", id)
	}
	return landmarks[0], nil
}

func (s *PostgresStore) AddLandmarkPhoto(ctx context.Context, id int64, url string) error {
	return s.editPhotos(ctx, "landmarks", "landmark", id, TableLandmarks,
		func(p []string) []string { return models.AppendPhoto(p, url) })
}

func (s *PostgresStore) RemoveLandmarkPhoto(ctx context.Context, id int64, url string) error {
	return s.editPhotos(ctx, "landmarks", "landmark", id, TableLandmarks,
		func(p []string) []string { return models.RemovePhoto(p, url) })
}

func (s *PostgresStore) queryLandmarks(ctx context.Context, query string, args ...any) ([]models.Landmark, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get landmarks: %w", err)
	}
	defer rows.Close()

	landmarks := make([]models.Landmark, 0)
	for rows.Next() {
		var l models.Landmark
		if err := rows.Scan(landmarkFields(&l)...); err != nil {
			return nil, fmt.Errorf("failed to scan landmark: %w", err)
		}
		landmarks = append(landmarks, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating landmarks: %w", err)
	}
	return landmarks, nil
}

func (s *PostgresStore) InsertTrip(ctx context.Context, trip models.Trip) (int64, error) {
	return s.insert(ctx, "create trip", TableTrips, `
		INSERT INTO trips (name, city_id, total_price)
		VALUES ($1, $2, $3)
		RETURNING id
	`, trip.Name, trip.CityID, trip.TotalPrice)
}

func (s *PostgresStore) DeleteTrip(ctx context.Context, id int64) error {
	return s.delete(ctx, "delete trip", `DELETE FROM trips WHERE id = $1`, id, TableTrips, TableTripLandmarks)
}

func (s *PostgresStore) DeleteTripsByCity(ctx context.Context, cityID int64) error {
	return s.delete(ctx, "delete trips by city", `DELETE FROM trips WHERE city_id = $1`, cityID, TableTrips, TableTripLandmarks)
}

func (s *PostgresStore) ListTrips(ctx context.Context) ([]models.Trip, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, city_id, total_price FROM trips ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := make([]models.Trip, 0)
	for rows.Next() {
		var t models.Trip
		if err := rows.Scan(&t.ID, &t.Name, &t.CityID, &t.TotalPrice); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trips: %w", err)
	}
	return trips, nil
}

func (s *PostgresStore) GetTripWithLandmarks(ctx context.Context, id int64) (models.TripWithLandmarks, error) {
	var trip models.Trip
	err := s.db.QueryRow(ctx, `SELECT id, name, city_id, total_price FROM trips WHERE id = $1`, id).
		Scan(&trip.ID, &trip.Name, &trip.CityID, &trip.TotalPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.TripWithLandmarks{}, notFound("trip", id)
		}
		return models.TripWithLandmarks{}, fmt.Errorf("failed to get trip: %w", err)
	}

	landmarks, err := s.queryLandmarks(ctx, `
		SELECT `+landmarkColumns+`
		FROM trip_landmarks tl
		JOIN landmarks l ON l.id = tl.landmark_id
		WHERE tl.trip_id = $1
		ORDER BY l.id
	`, id)
	if err != nil {
		return models.TripWithLandmarks{}, err
	}
	return models.TripWithLandmarks{Trip: trip, Landmarks: landmarks}, nil
}

func (s *PostgresStore) LinkTripLandmark(ctx context.Context, link models.TripLandmark) error {
	_, err := s.exec(ctx, "link trip landmark", `
		INSERT INTO trip_landmarks (trip_id, landmark_id)
		VALUES ($1, $2)
		ON CONFLICT (trip_id, landmark_id) DO NOTHING
	`, link.TripID, link.LandmarkID)
	if err != nil {
		return err
	}
	s.changes.Publish(TableTripLandmarks)
	return nil
}
