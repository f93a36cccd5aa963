package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
	"github.com/DanilaRazvan/TravelPlaner/internal/store"
)

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func invalidRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid_request",
		Message: "Failed to parse request body: " + err.Error(),
		Code:    http.StatusBadRequest,
	})
}

// respondError maps validation failures to 400 and missing records to 404. Anything else is
// logged and reported as a 500 without details.
func respondError(c echo.Context, err error) error {
	var verr models.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: verr.Error(),
			Code:    http.StatusBadRequest,
		})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
			Code:    http.StatusNotFound,
		})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
			Code:    http.StatusInternalServerError,
		})
	}
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.ErrInvalidID
	}
	return id, nil
}

// queryTime reads an optional epoch-millisecond query parameter.
func queryTime(c echo.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, models.ErrInvalidTimestamp
	}
	return &v, nil
}

// queryIDs reads a comma separated id list such as "3,7,9".
func queryIDs(c echo.Context, name string) ([]int64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, models.ErrInvalidID
		}
		ids = append(ids, id)
	}
	return ids, nil
}
