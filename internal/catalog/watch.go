package catalog

import (
	"context"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
	"github.com/DanilaRazvan/TravelPlaner/internal/preferences"
	"github.com/DanilaRazvan/TravelPlaner/internal/store"
)

type AccommodationDetail struct {
	Accommodation   models.AccommodationWithCity `json:"accommodation"`
	EditModeEnabled bool                         `json:"edit_mode_enabled"`
}

func (s *Service) WatchFlight(ctx context.Context, id int64) <-chan models.FlightWithCity {
	return store.WatchFlight(ctx, s.store, id)
}

func (s *Service) WatchLandmark(ctx context.Context, id int64) <-chan models.Landmark {
	return store.WatchLandmark(ctx, s.store, id)
}

// WatchAccommodation follows an accommodation and the edit flag that decides whether its
// photos can be edited.
func (s *Service) WatchAccommodation(ctx context.Context, id int64) <-chan AccommodationDetail {
	return withEditMode(ctx,
		store.WatchAccommodation(ctx, s.store, id),
		preferences.WatchEditMode(ctx, s.prefs),
		func(a models.AccommodationWithCity, edit bool) AccommodationDetail {
			return AccommodationDetail{Accommodation: a, EditModeEnabled: edit}
		})
}

// WatchTripPlan follows PlanTrip for a city.
func (s *Service) WatchTripPlan(ctx context.Context, cityID int64, exclude []int64) <-chan models.TripDetailsResponse {
	return withEditMode(ctx,
		store.WatchCityWithLandmarks(ctx, s.store, cityID),
		preferences.WatchEditMode(ctx, s.prefs),
		func(cwl models.CityWithLandmarks, edit bool) models.TripDetailsResponse {
			return planFor(cwl, exclude, edit)
		})
}

// withEditMode emits combine(latest value, latest edit flag) once both have arrived and after
// every change of either.
func withEditMode[T, R any](ctx context.Context, values <-chan T, edit <-chan bool, combine func(T, bool) R) <-chan R {
	out := make(chan R)

	go func() {
		defer close(out)

		var (
			value             T
			editMode          bool
			haveValue, haveEM bool
		)
		for {
			select {
			case v, ok := <-values:
				if !ok {
					return
				}
				value, haveValue = v, true
			case e, ok := <-edit:
				if !ok {
					return
				}
				editMode, haveEM = e, true
			case <-ctx.Done():
				return
			}

			if !haveValue || !haveEM {
				continue
			}
			select {
			case out <- combine(value, editMode):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
