package models

type HomeResponse struct {
	Query           string     `json:"query"`
	From            *int64     `json:"from,omitempty"`
	To              *int64     `json:"to,omitempty"`
	Cities          []ListItem `json:"cities"`
	Flights         []ListItem `json:"flights"`
	Accommodations  []ListItem `json:"accommodations"`
	EditModeEnabled bool       `json:"edit_mode_enabled"`
	CacheHit        bool       `json:"cache_hit"`
}

type TripDetailsResponse struct {
	Destination       string         `json:"destination"`
	TotalPrice        float32        `json:"total_price"`
	TotalFormatted    string         `json:"total_formatted"`
	Landmarks         []LandmarkItem `json:"landmarks"`
	CanRemoveLandmark bool           `json:"can_remove_landmarks"`
	EditModeEnabled   bool           `json:"edit_mode_enabled"`
}

type FavoritesResponse struct {
	Trips          []Trip                  `json:"trips"`
	Flights        []FlightWithCity        `json:"flights"`
	Accommodations []AccommodationWithCity `json:"accommodations"`
}

type PreferencesResponse struct {
	EditModeEnabled bool   `json:"edit_mode_enabled"`
	Theme           string `json:"theme"`
	LoggedUser      *User  `json:"logged_user,omitempty"`
}

type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	PhotoURL  string `json:"photo_url"`
	ExpiresIn int    `json:"expires_in"`
}

type IDResponse struct {
	ID int64 `json:"id"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
