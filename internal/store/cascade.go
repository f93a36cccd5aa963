package store

import (
	"context"

	"github.com/rs/zerolog/log"
)

// DeleteCityCascade removes a city and everything that references it, in dependency order.
// Each step is its own write; a failure stops the sequence and leaves earlier steps applied.
func DeleteCityCascade(ctx context.Context, s Store, cityID int64) error {
	steps := []struct {
		name string
		run  func(context.Context, int64) error
	}{
		{"flights", s.DeleteFlightsByCity},
		{"accommodations", s.DeleteAccommodationsByCity},
		{"landmarks", s.DeleteLandmarksByCity},
		{"trips", s.DeleteTripsByCity},
		{"city", s.DeleteCity},
	}

	for _, step := range steps {
		if err := step.run(ctx, cityID); err != nil {
			log.Warn().Err(err).Int64("city_id", cityID).Str("step", step.name).Msg("City cascade stopped")
			return err
		}
	}
	return nil
}
