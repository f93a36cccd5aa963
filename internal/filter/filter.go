package filter

import (
	"strings"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

// Criteria is what the home screen filters by. From is an inclusive lower bound on a record's
// start, To an exclusive upper bound on its end; nil means unbounded.
type Criteria struct {
	Query    string `json:"query"`
	From     *int64 `json:"from,omitempty"`
	To       *int64 `json:"to,omitempty"`
	EditMode bool   `json:"edit_mode"`
}

// Match reports whether a record passes. Edit mode lets everything through so the raw
// catalogue can be managed; otherwise every supplied predicate must hold.
func Match(fields []string, start, end int64, c Criteria) bool {
	if c.EditMode {
		return true
	}

	if !matchesText(fields, c.Query) {
		return false
	}

	if c.From != nil && start < *c.From {
		return false
	}
	if c.To != nil && end >= *c.To {
		return false
	}

	return true
}

// MatchText applies only the free-text half, for records without dates.
func MatchText(fields []string, c Criteria) bool {
	if c.EditMode {
		return true
	}
	return matchesText(fields, c.Query)
}

func matchesText(fields []string, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}

	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func Cities(cities []models.City, c Criteria) []models.City {
	result := make([]models.City, 0, len(cities))
	for _, city := range cities {
		if MatchText([]string{city.Name, city.Country}, c) {
			result = append(result, city)
		}
	}
	return result
}

func Flights(flights []models.FlightWithCity, c Criteria) []models.FlightWithCity {
	result := make([]models.FlightWithCity, 0, len(flights))
	for _, f := range flights {
		if Match([]string{f.City.Name, f.City.Country}, f.Flight.From, f.Flight.To, c) {
			result = append(result, f)
		}
	}
	return result
}

func Accommodations(accommodations []models.AccommodationWithCity, c Criteria) []models.AccommodationWithCity {
	result := make([]models.AccommodationWithCity, 0, len(accommodations))
	for _, a := range accommodations {
		if Match([]string{a.City.Name, a.City.Country}, a.Accommodation.From, a.Accommodation.To, c) {
			result = append(result, a)
		}
	}
	return result
}
