package catalog

import (
	"context"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
	"github.com/DanilaRazvan/TravelPlaner/internal/preferences"
	"github.com/DanilaRazvan/TravelPlaner/pkg/price"
)

// AddLandmark parses the typed ticket price leniently; anything unreadable counts as free.
func (s *Service) AddLandmark(ctx context.Context, cityID int64, req models.AddLandmarkRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	if _, err := s.store.GetCity(ctx, cityID); err != nil {
		return 0, err
	}
	return s.store.InsertLandmark(ctx, models.Landmark{
		CityID:           cityID,
		Name:             req.Name,
		TicketPrice:      price.Parse(req.TicketPrice),
		Description:      req.Description,
		PhotoURL:         req.ImageURL,
		Opening:          req.Opening,
		Closing:          req.Closing,
		AdditionalPhotos: []string{},
	})
}

// PlanTrip shows a city's landmarks as a trip under construction, leaving out the excluded
// landmark ids. The total is live.
func (s *Service) PlanTrip(ctx context.Context, cityID int64, exclude []int64) (models.TripDetailsResponse, error) {
	cwl, err := s.store.GetCityWithLandmarks(ctx, cityID)
	if err != nil {
		return models.TripDetailsResponse{}, err
	}
	editMode, err := preferences.EditMode(ctx, s.prefs)
	if err != nil {
		return models.TripDetailsResponse{}, err
	}
	return planFor(cwl, exclude, editMode), nil
}

func planFor(cwl models.CityWithLandmarks, exclude []int64, editMode bool) models.TripDetailsResponse {
	included := withoutIDs(cwl.Landmarks, exclude)
	total := totalOf(included)

	return models.TripDetailsResponse{
		Destination:       Destination(cwl.City),
		TotalPrice:        total,
		TotalFormatted:    price.Format(total),
		Landmarks:         landmarkItems(included),
		CanRemoveLandmark: true,
		EditModeEnabled:   editMode,
	}
}

// SaveTrip stores the chosen landmarks of a city as a trip named after the city, with the
// total frozen at save time. An empty selection takes every landmark of the city; ids that do
// not belong to the city are ignored.
func (s *Service) SaveTrip(ctx context.Context, req models.SaveTripRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	cwl, err := s.store.GetCityWithLandmarks(ctx, req.CityID)
	if err != nil {
		return 0, err
	}

	chosen := cwl.Landmarks
	if len(req.LandmarkIDs) > 0 {
		chosen = onlyIDs(cwl.Landmarks, req.LandmarkIDs)
	}

	tripID, err := s.store.InsertTrip(ctx, models.Trip{
		Name:       Destination(cwl.City),
		CityID:     req.CityID,
		TotalPrice: totalOf(chosen),
	})
	if err != nil {
		return 0, err
	}

	for _, l := range chosen {
		if err := s.store.LinkTripLandmark(ctx, models.TripLandmark{TripID: tripID, LandmarkID: l.ID}); err != nil {
			return tripID, err
		}
	}
	return tripID, nil
}

// TripDetails shows a saved trip. Its total is the one captured at save time.
func (s *Service) TripDetails(ctx context.Context, tripID int64) (models.TripDetailsResponse, error) {
	twl, err := s.store.GetTripWithLandmarks(ctx, tripID)
	if err != nil {
		return models.TripDetailsResponse{}, err
	}
	editMode, err := preferences.EditMode(ctx, s.prefs)
	if err != nil {
		return models.TripDetailsResponse{}, err
	}

	return models.TripDetailsResponse{
		Destination:       twl.Trip.Name,
		TotalPrice:        twl.Trip.TotalPrice,
		TotalFormatted:    price.Format(twl.Trip.TotalPrice),
		Landmarks:         landmarkItems(twl.Landmarks),
		CanRemoveLandmark: false,
		EditModeEnabled:   editMode,
	}, nil
}

func (s *Service) ListTrips(ctx context.Context) ([]models.Trip, error) {
	return s.store.ListTrips(ctx)
}

// DeleteTrip is also how a trip leaves the favorites.
func (s *Service) DeleteTrip(ctx context.Context, tripID int64) error {
	return s.store.DeleteTrip(ctx, tripID)
}

func Destination(c models.City) string {
	return c.Name + ", " + c.Country
}

func totalOf(landmarks []models.Landmark) float32 {
	prices := make([]float32, 0, len(landmarks))
	for _, l := range landmarks {
		prices = append(prices, l.TicketPrice)
	}
	return price.Sum(prices)
}

func landmarkItems(landmarks []models.Landmark) []models.LandmarkItem {
	items := make([]models.LandmarkItem, 0, len(landmarks))
	for _, l := range landmarks {
		items = append(items, models.LandmarkListItem(l))
	}
	return items
}

func withoutIDs(landmarks []models.Landmark, ids []int64) []models.Landmark {
	skip := idSet(ids)
	kept := make([]models.Landmark, 0, len(landmarks))
	for _, l := range landmarks {
		if !skip[l.ID] {
			kept = append(kept, l)
		}
	}
	return kept
}

func onlyIDs(landmarks []models.Landmark, ids []int64) []models.Landmark {
	want := idSet(ids)
	kept := make([]models.Landmark, 0, len(ids))
	for _, l := range landmarks {
		if want[l.ID] {
			kept = append(kept, l)
		}
	}
	return kept
}

func idSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
