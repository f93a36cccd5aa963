package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

type PhotoUploader interface {
	UploadURL(ctx context.Context, kind string, req models.UploadURLRequest) (*models.UploadURLResponse, error)
}

var photoKinds = map[string]bool{
	"cities":         true,
	"accommodations": true,
	"landmarks":      true,
}

type PhotoHandler struct {
	uploader PhotoUploader
}

func NewPhotoHandler(uploader PhotoUploader) *PhotoHandler {
	return &PhotoHandler{uploader: uploader}
}

// UploadURL returns a presigned PUT URL and the public URL the photo will have once the
// client has uploaded it. ?kind= picks the folder and defaults to "cities".
func (h *PhotoHandler) UploadURL(c echo.Context) error {
	kind := c.QueryParam("kind")
	if kind == "" {
		kind = "cities"
	}
	if !photoKinds[kind] {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "kind must be one of cities, accommodations, landmarks",
			Code:    http.StatusBadRequest,
		})
	}

	var req models.UploadURLRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c, err)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	resp, err := h.uploader.UploadURL(c.Request().Context(), kind, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
