package models

type City struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	PhotoURL    string `json:"photo_url"`
	Description string `json:"description"`
}

// Flight prices and durations are free text entered by the editor, e.g. "120 EUR" and "2h 15m".
type Flight struct {
	ID          int64  `json:"id"`
	TicketPrice string `json:"ticket_price"`
	Duration    string `json:"duration"`
	ToCityID    int64  `json:"to_city_id"`
	Description string `json:"description"`
	From        int64  `json:"from"`
	To          int64  `json:"to"`
	IsFavorite  bool   `json:"is_favorite"`
}

type Accommodation struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	CityID           int64    `json:"city_id"`
	Description      string   `json:"description"`
	PhotoURL         string   `json:"photo_url"`
	From             int64    `json:"from"`
	To               int64    `json:"to"`
	IsFavorite       bool     `json:"is_favorite"`
	AdditionalPhotos []string `json:"additional_photos"`
}

type Landmark struct {
	ID               int64    `json:"id"`
	CityID           int64    `json:"city_id"`
	Name             string   `json:"name"`
	TicketPrice      float32  `json:"ticket_price"`
	Description      string   `json:"description"`
	PhotoURL         string   `json:"photo_url"`
	Opening          string   `json:"opening"`
	Closing          string   `json:"closing"`
	AdditionalPhotos []string `json:"additional_photos"`
}

// TotalPrice is captured when the trip is saved and is never recomputed.
type Trip struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	CityID     int64   `json:"city_id"`
	TotalPrice float32 `json:"total_price"`
}

type TripLandmark struct {
	TripID     int64 `json:"trip_id"`
	LandmarkID int64 `json:"landmark_id"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type FlightWithCity struct {
	Flight Flight `json:"flight"`
	City   City   `json:"city"`
}

type AccommodationWithCity struct {
	Accommodation Accommodation `json:"accommodation"`
	City          City          `json:"city"`
}

type CityWithLandmarks struct {
	City      City       `json:"city"`
	Landmarks []Landmark `json:"landmarks"`
}

type TripWithLandmarks struct {
	Trip      Trip       `json:"trip"`
	Landmarks []Landmark `json:"landmarks"`
}

// AppendPhoto returns photos with url added at the end.
func AppendPhoto(photos []string, url string) []string {
	out := make([]string, 0, len(photos)+1)
	out = append(out, photos...)
	return append(out, url)
}

// RemovePhoto drops the first occurrence of url, keeping the order of the rest.
func RemovePhoto(photos []string, url string) []string {
	out := make([]string, 0, len(photos))
	removed := false
	for _, p := range photos {
		if !removed && p == url {
			removed = true
			continue
		}
		out = append(out, p)
	}
	return out
}
