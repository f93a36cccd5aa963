package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DanilaRazvan/TravelPlaner/internal/catalog"
	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

type photoEdit func(ctx context.Context, id int64, req models.PhotoRequest) error

type CatalogHandler struct {
	service *catalog.Service
}

func NewCatalogHandler(service *catalog.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) ListCities(c echo.Context) error {
	cities, err := h.service.ListCities(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cities)
}

func (h *CatalogHandler) AddCity(c echo.Context) error {
	var req models.AddCityRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c, err)
	}
	id, err := h.service.AddCity(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, models.IDResponse{ID: id})
}

func (h *CatalogHandler) GetCity(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	city, err := h.service.GetCity(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, city)
}

func (h *CatalogHandler) DeleteCity(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteCity(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ListLandmarks(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	city, err := h.service.GetCity(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, city.Landmarks)
}

func (h *CatalogHandler) AddLandmark(c echo.Context) error {
	cityID, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req models.AddLandmarkRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c, err)
	}
	id, err := h.service.AddLandmark(c.Request().Context(), cityID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, models.IDResponse{ID: id})
}

// PlanTrip lists a city's landmarks with the running total; ?exclude=1,2 drops landmarks
// the traveller removed from the plan.
func (h *CatalogHandler) PlanTrip(c echo.Context) error {
	cityID, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	exclude, err := queryIDs(c, "exclude")
	if err != nil {
		return respondError(c, err)
	}
	plan, err := h.service.PlanTrip(c.Request().Context(), cityID, exclude)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *CatalogHandler) AddFlight(c echo.Context) error {
	var req models.AddFlightRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c, err)
	}
	id, err := h.service.AddFlight(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, models.IDResponse{ID: id})
}

func (h *CatalogHandler) GetFlight(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	flight, err := h.service.GetFlight(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, flight)
}

func (h *CatalogHandler) DeleteFlight(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteFlight(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ToggleFlightFavorite(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	flight, err := h.service.ToggleFlightFavorite(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, flight)
}

func (h *CatalogHandler) AddAccommodation(c echo.Context) error {
	var req models.AddAccommodationRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c, err)
	}
	id, err := h.service.AddAccommodation(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, models.IDResponse{ID: id})
}

func (h *CatalogHandler) GetAccommodation(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	acc, err := h.service.GetAccommodation(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, acc)
}

func (h *CatalogHandler) DeleteAccommodation(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteAccommodation(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ToggleAccommodationFavorite(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	acc, err := h.service.ToggleAccommodationFavorite(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, acc)
}

func (h *CatalogHandler) AddAccommodationPhoto(c echo.Context) error {
	return h.editPhoto(c, h.service.AddAccommodationPhoto)
}

func (h *CatalogHandler) RemoveAccommodationPhoto(c echo.Context) error {
	return h.editPhoto(c, h.service.RemoveAccommodationPhoto)
}

func (h *CatalogHandler) GetLandmark(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	landmark, err := h.service.GetLandmark(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, landmark)
}

func (h *CatalogHandler) DeleteLandmark(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteLandmark(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) AddLandmarkPhoto(c echo.Context) error {
	return h.editPhoto(c, h.service.AddLandmarkPhoto)
}

func (h *CatalogHandler) RemoveLandmarkPhoto(c echo.Context) error {
	return h.editPhoto(c, h.service.RemoveLandmarkPhoto)
}

func (h *CatalogHandler) editPhoto(c echo.Context, edit photoEdit) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req models.PhotoRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c, err)
	}
	if err := edit(c.Request().Context(), id, req); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ListTrips(c echo.Context) error {
	trips, err := h.service.ListTrips(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, trips)
}

func (h *CatalogHandler) SaveTrip(c echo.Context) error {
	var req models.SaveTripRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c, err)
	}
	id, err := h.service.SaveTrip(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, models.IDResponse{ID: id})
}

func (h *CatalogHandler) GetTrip(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	trip, err := h.service.TripDetails(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, trip)
}

func (h *CatalogHandler) DeleteTrip(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteTrip(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) Favorites(c echo.Context) error {
	favorites, err := h.service.Favorites(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, favorites)
}

func (h *CatalogHandler) Preferences(c echo.Context) error {
	prefs, err := h.service.Preferences(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, prefs)
}

func (h *CatalogHandler) ToggleEditMode(c echo.Context) error {
	enabled, err := h.service.ToggleEditMode(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"edit_mode_enabled": enabled})
}

func (h *CatalogHandler) SetTheme(c echo.Context) error {
	var req models.ThemeRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c, err)
	}
	if err := h.service.SetTheme(c.Request().Context(), req); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) Logout(c echo.Context) error {
	if err := h.service.Logout(c.Request().Context()); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
