package store

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

// Watch loads the current value, delivers it, and reloads after every write to one of the
// tables until ctx is done. A failed load is logged and skipped; the previous value stands.
// The returned channel is closed when the watch ends.
func Watch[T any](ctx context.Context, changes *Changes, load func(context.Context) (T, error), tables ...Table) <-chan T {
	out := make(chan T)
	notify, release := changes.Subscribe(tables...)

	go func() {
		defer close(out)
		defer release()

		for {
			v, err := load(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warn().Err(err).Interface("tables", tables).Msg("Watch reload failed")
			} else {
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-notify:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func WatchCities(ctx context.Context, s Store) <-chan []models.City {
	return Watch(ctx, s.Changes(), s.ListCities, TableCities)
}

func WatchFlights(ctx context.Context, s Store) <-chan []models.FlightWithCity {
	return Watch(ctx, s.Changes(), s.ListFlights, TableFlights, TableCities)
}

func WatchAccommodations(ctx context.Context, s Store) <-chan []models.AccommodationWithCity {
	return Watch(ctx, s.Changes(), s.ListAccommodations, TableAccommodations, TableCities)
}

func WatchFlight(ctx context.Context, s Store, id int64) <-chan models.FlightWithCity {
	return Watch(ctx, s.Changes(), func(ctx context.Context) (models.FlightWithCity, error) {
		return s.GetFlight(ctx, id)
	}, TableFlights, TableCities)
}

func WatchAccommodation(ctx context.Context, s Store, id int64) <-chan models.AccommodationWithCity {
	return Watch(ctx, s.Changes(), func(ctx context.Context) (models.AccommodationWithCity, error) {
		return s.GetAccommodation(ctx, id)
	}, TableAccommodations, TableCities)
}

func WatchLandmark(ctx context.Context, s Store, id int64) <-chan models.Landmark {
	return Watch(ctx, s.Changes(), func(ctx context.Context) (models.Landmark, error) {
		return s.GetLandmark(ctx, id)
	}, TableLandmarks)
}

func WatchCityWithLandmarks(ctx context.Context, s Store, id int64) <-chan models.CityWithLandmarks {
	return Watch(ctx, s.Changes(), func(ctx context.Context) (models.CityWithLandmarks, error) {
		return s.GetCityWithLandmarks(ctx, id)
	}, TableCities, TableLandmarks)
}
