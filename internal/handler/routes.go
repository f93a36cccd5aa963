package handler

import (
	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Home    *HomeHandler
	Catalog *CatalogHandler
	Streams *StreamHandler
	// Photos is nil when no bucket is configured.
	Photos *PhotoHandler
}

// Register mounts every route on e. Mutating routes go through limit.
func Register(e *echo.Echo, h Handlers, limit echo.MiddlewareFunc) {
	e.GET("/health", HealthHandler)

	api := e.Group("/api/v1")

	api.GET("/home", h.Home.Get)
	api.GET("/home/ws", h.Home.Session)

	api.GET("/cities", h.Catalog.ListCities)
	api.POST("/cities", h.Catalog.AddCity, limit)
	api.GET("/cities/:id", h.Catalog.GetCity)
	api.DELETE("/cities/:id", h.Catalog.DeleteCity, limit)
	api.GET("/cities/:id/landmarks", h.Catalog.ListLandmarks)
	api.POST("/cities/:id/landmarks", h.Catalog.AddLandmark, limit)
	api.GET("/cities/:id/trip", h.Catalog.PlanTrip)
	api.GET("/cities/:id/trip/ws", h.Streams.TripPlan)

	api.POST("/flights", h.Catalog.AddFlight, limit)
	api.GET("/flights/:id", h.Catalog.GetFlight)
	api.DELETE("/flights/:id", h.Catalog.DeleteFlight, limit)
	api.POST("/flights/:id/favorite", h.Catalog.ToggleFlightFavorite, limit)
	api.GET("/flights/:id/ws", h.Streams.Flight)

	api.POST("/accommodations", h.Catalog.AddAccommodation, limit)
	api.GET("/accommodations/:id", h.Catalog.GetAccommodation)
	api.DELETE("/accommodations/:id", h.Catalog.DeleteAccommodation, limit)
	api.POST("/accommodations/:id/favorite", h.Catalog.ToggleAccommodationFavorite, limit)
	api.POST("/accommodations/:id/photos", h.Catalog.AddAccommodationPhoto, limit)
	api.DELETE("/accommodations/:id/photos", h.Catalog.RemoveAccommodationPhoto, limit)
	api.GET("/accommodations/:id/ws", h.Streams.Accommodation)

	api.GET("/landmarks/:id", h.Catalog.GetLandmark)
	api.DELETE("/landmarks/:id", h.Catalog.DeleteLandmark, limit)
	api.POST("/landmarks/:id/photos", h.Catalog.AddLandmarkPhoto, limit)
	api.DELETE("/landmarks/:id/photos", h.Catalog.RemoveLandmarkPhoto, limit)
	api.GET("/landmarks/:id/ws", h.Streams.Landmark)

	api.GET("/trips", h.Catalog.ListTrips)
	api.POST("/trips", h.Catalog.SaveTrip, limit)
	api.GET("/trips/:id", h.Catalog.GetTrip)
	api.DELETE("/trips/:id", h.Catalog.DeleteTrip, limit)

	api.GET("/favorites", h.Catalog.Favorites)

	api.GET("/preferences", h.Catalog.Preferences)
	api.POST("/preferences/edit-mode", h.Catalog.ToggleEditMode, limit)
	api.PUT("/preferences/theme", h.Catalog.SetTheme, limit)
	api.DELETE("/session", h.Catalog.Logout, limit)

	if h.Photos != nil {
		api.POST("/photos/upload-url", h.Photos.UploadURL, limit)
	}
}
