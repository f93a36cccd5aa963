package home

type Screen string

const (
	ScreenVisit Screen = "VISIT"
	ScreenFly   Screen = "FLY"
	ScreenSleep Screen = "SLEEP"
)

func (s Screen) Valid() bool {
	switch s {
	case ScreenVisit, ScreenFly, ScreenSleep:
		return true
	}
	return false
}

type SearchTextChanged struct {
	Text string `json:"text"`
}

// SearchSubmitted asks for a search with whatever text is current once the debounce elapses.
type SearchSubmitted struct{}

type SearchByDestination struct {
	Destination string `json:"destination"`
}

type FromDateChanged struct {
	From *int64 `json:"from"`
}

type ToDateChanged struct {
	To *int64 `json:"to"`
}

type ScreenChanged struct {
	Screen Screen `json:"screen"`
}

type ToggleEditMode struct{}

type AddCity struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

type AddFlight struct {
	ToCityID    int64  `json:"to_city_id"`
	TicketPrice string `json:"ticket_price"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
	From        int64  `json:"from"`
	To          int64  `json:"to"`
}

type AddAccommodation struct {
	CityID      int64  `json:"city_id"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
	From        int64  `json:"from"`
	To          int64  `json:"to"`
}

// RemoveElement deletes the row with ID from the list shown on Screen.
type RemoveElement struct {
	ID     int64  `json:"id"`
	Screen Screen `json:"screen"`
}

type Logout struct{}
