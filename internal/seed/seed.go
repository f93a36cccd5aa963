package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
	"github.com/DanilaRazvan/TravelPlaner/internal/store"
)

//go:embed data/catalogue.json
var catalogueData []byte

type catalogue struct {
	Cities []seedCity `json:"cities"`
}

type seedCity struct {
	Name           string                 `json:"name"`
	Country        string                 `json:"country"`
	PhotoURL       string                 `json:"photo_url"`
	Description    string                 `json:"description"`
	Flights        []models.Flight        `json:"flights"`
	Accommodations []models.Accommodation `json:"accommodations"`
	Landmarks      []models.Landmark      `json:"landmarks"`
}

type Result struct {
	Cities         int
	Flights        int
	Accommodations int
	Landmarks      int
	Skipped        bool
}

// Load fills an empty store with the demo catalogue. A store that already has cities is left
// alone.
func Load(ctx context.Context, st store.Store) (Result, error) {
	return load(ctx, st, catalogueData)
}

func load(ctx context.Context, st store.Store, data []byte) (Result, error) {
	existing, err := st.ListCities(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to check catalogue: %w", err)
	}
	if len(existing) > 0 {
		return Result{Skipped: true}, nil
	}

	var cat catalogue
	if err := json.Unmarshal(data, &cat); err != nil {
		return Result{}, fmt.Errorf("failed to parse seed catalogue: %w", err)
	}

	var res Result
	for _, c := range cat.Cities {
		cityID, err := st.InsertCity(ctx, models.City{
			Name:        c.Name,
			Country:     c.Country,
			PhotoURL:    c.PhotoURL,
			Description: c.Description,
		})
		if err != nil {
			return res, fmt.Errorf("failed to seed city %s: %w", c.Name, err)
		}
		res.Cities++

		for _, f := range c.Flights {
			f.ToCityID = cityID
			if _, err := st.InsertFlight(ctx, f); err != nil {
				return res, fmt.Errorf("failed to seed flight to %s: %w", c.Name, err)
			}
			res.Flights++
		}

		for _, a := range c.Accommodations {
			a.CityID = cityID
			if a.AdditionalPhotos == nil {
				a.AdditionalPhotos = []string{}
			}
			if _, err := st.InsertAccommodation(ctx, a); err != nil {
				return res, fmt.Errorf("failed to seed accommodation %s: %w", a.Name, err)
			}
			res.Accommodations++
		}

		for _, l := range c.Landmarks {
			l.CityID = cityID
			if l.AdditionalPhotos == nil {
				l.AdditionalPhotos = []string{}
			}
			if _, err := st.InsertLandmark(ctx, l); err != nil {
				return res, fmt.Errorf("failed to seed landmark %s: %w", l.Name, err)
			}
			res.Landmarks++
		}
	}

	log.Info().
		Int("cities", res.Cities).
		Int("flights", res.Flights).
		Int("accommodations", res.Accommodations).
		Int("landmarks", res.Landmarks).
		Msg("Seeded demo catalogue")

	return res, nil
}
