package models

import "fmt"

// ListItem is the shape the home feed renders for cities, flights and accommodations alike.
type ListItem struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"image_url"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Details  string `json:"details"`
	From     *int64 `json:"from,omitempty"`
	To       *int64 `json:"to,omitempty"`
}

type LandmarkItem struct {
	ID       int64   `json:"id"`
	ImageURL string  `json:"image_url"`
	Name     string  `json:"name"`
	Details  string  `json:"details"`
	Price    float32 `json:"price"`
}

func CityItem(c City) ListItem {
	return ListItem{
		ID:       c.ID,
		ImageURL: c.PhotoURL,
		City:     c.Name,
		Country:  c.Country,
		Details:  c.Description,
	}
}

func FlightItem(f FlightWithCity) ListItem {
	from, to := f.Flight.From, f.Flight.To
	return ListItem{
		ID:       f.Flight.ID,
		ImageURL: f.City.PhotoURL,
		City:     f.City.Name,
		Country:  f.City.Country,
		Details:  fmt.Sprintf("%s - %s", f.Flight.TicketPrice, f.Flight.Duration),
		From:     &from,
		To:       &to,
	}
}

func AccommodationItem(a AccommodationWithCity) ListItem {
	from, to := a.Accommodation.From, a.Accommodation.To
	return ListItem{
		ID:       a.Accommodation.ID,
		ImageURL: a.Accommodation.PhotoURL,
		City:     a.City.Name,
		Country:  a.City.Country,
		Details:  a.Accommodation.Description,
		From:     &from,
		To:       &to,
	}
}

func LandmarkListItem(l Landmark) LandmarkItem {
	return LandmarkItem{
		ID:       l.ID,
		ImageURL: l.PhotoURL,
		Name:     l.Name,
		Details:  l.Description,
		Price:    l.TicketPrice,
	}
}
