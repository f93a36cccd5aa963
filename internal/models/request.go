package models

import "strings"

type AddCityRequest struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

func (r *AddCityRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Country = strings.TrimSpace(r.Country)
	if r.Name == "" {
		return ErrMissingName
	}
	if r.Country == "" {
		return ErrMissingCountry
	}
	return nil
}

type AddFlightRequest struct {
	ToCityID    int64  `json:"to_city_id"`
	TicketPrice string `json:"ticket_price"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
	From        int64  `json:"from"`
	To          int64  `json:"to"`
}

func (r *AddFlightRequest) Validate() error {
	if r.ToCityID <= 0 {
		return ErrMissingCity
	}
	if r.To < r.From {
		return ErrInvalidDateRange
	}
	return nil
}

type AddAccommodationRequest struct {
	CityID      int64  `json:"city_id"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
	From        int64  `json:"from"`
	To          int64  `json:"to"`
}

func (r *AddAccommodationRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.CityID <= 0 {
		return ErrMissingCity
	}
	if r.Name == "" {
		return ErrMissingName
	}
	if r.To < r.From {
		return ErrInvalidDateRange
	}
	return nil
}

// AddLandmarkRequest keeps the ticket price as typed; it is parsed leniently on save.
type AddLandmarkRequest struct {
	Name        string `json:"name"`
	TicketPrice string `json:"ticket_price"`
	ImageURL    string `json:"image_url"`
	Opening     string `json:"opening"`
	Closing     string `json:"closing"`
	Description string `json:"description"`
}

func (r *AddLandmarkRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ErrMissingName
	}
	return nil
}

type PhotoRequest struct {
	URL string `json:"url"`
}

func (r *PhotoRequest) Validate() error {
	r.URL = strings.TrimSpace(r.URL)
	if r.URL == "" {
		return ErrMissingPhotoURL
	}
	return nil
}

type SaveTripRequest struct {
	CityID      int64   `json:"city_id"`
	LandmarkIDs []int64 `json:"landmark_ids"`
}

func (r *SaveTripRequest) Validate() error {
	if r.CityID <= 0 {
		return ErrMissingCity
	}
	return nil
}

type ThemeRequest struct {
	Theme string `json:"theme"`
}

type UploadURLRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

func (r *UploadURLRequest) Validate() error {
	if r.Filename == "" {
		return ErrMissingFilename
	}
	if r.ContentType == "" {
		r.ContentType = "image/jpeg"
	}
	return nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingName      ValidationError = "name is required"
	ErrMissingCountry   ValidationError = "country is required"
	ErrMissingCity      ValidationError = "city id is required"
	ErrInvalidDateRange ValidationError = "to must not be before from"
	ErrMissingPhotoURL  ValidationError = "url is required"
	ErrMissingFilename  ValidationError = "filename is required"
	ErrUnknownTheme     ValidationError = "unknown theme"
	ErrInvalidID        ValidationError = "id must be a positive integer"
	ErrInvalidTimestamp ValidationError = "dates must be epoch milliseconds"
)
