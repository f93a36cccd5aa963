package handler

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/DanilaRazvan/TravelPlaner/internal/catalog"
	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

// StreamHandler serves the detail screens as websocket streams. Each stream sends the current
// record first and then a fresh copy after every change that affects it.
type StreamHandler struct {
	service *catalog.Service
}

func NewStreamHandler(service *catalog.Service) *StreamHandler {
	return &StreamHandler{service: service}
}

func (h *StreamHandler) Flight(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.service.GetFlight(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return stream(c, "flight", func(ctx context.Context) <-chan models.FlightWithCity {
		return h.service.WatchFlight(ctx, id)
	})
}

func (h *StreamHandler) Accommodation(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.service.GetAccommodation(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return stream(c, "accommodation", func(ctx context.Context) <-chan catalog.AccommodationDetail {
		return h.service.WatchAccommodation(ctx, id)
	})
}

func (h *StreamHandler) Landmark(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.service.GetLandmark(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return stream(c, "landmark", func(ctx context.Context) <-chan models.Landmark {
		return h.service.WatchLandmark(ctx, id)
	})
}

func (h *StreamHandler) TripPlan(c echo.Context) error {
	cityID, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	exclude, err := queryIDs(c, "exclude")
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.service.GetCity(c.Request().Context(), cityID); err != nil {
		return respondError(c, err)
	}
	return stream(c, "trip_plan", func(ctx context.Context) <-chan models.TripDetailsResponse {
		return h.service.WatchTripPlan(ctx, cityID, exclude)
	})
}

func stream[T any](c echo.Context, kind string, open func(ctx context.Context) <-chan T) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Str("stream", kind).Msg("Failed to upgrade WebSocket connection")
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	pushUpdates(ctx, cancel, conn, kind, open(ctx))
	return nil
}
