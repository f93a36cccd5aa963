package home

import (
	"encoding/json"
	"fmt"
)

type envelope struct {
	Type string `json:"type"`
}

var eventTypes = map[string]func() any{
	"search_text_changed":   func() any { return &SearchTextChanged{} },
	"search_submitted":      func() any { return &SearchSubmitted{} },
	"search_by_destination": func() any { return &SearchByDestination{} },
	"from_date_changed":     func() any { return &FromDateChanged{} },
	"to_date_changed":       func() any { return &ToDateChanged{} },
	"screen_changed":        func() any { return &ScreenChanged{} },
	"toggle_edit_mode":      func() any { return &ToggleEditMode{} },
	"add_city":              func() any { return &AddCity{} },
	"add_flight":            func() any { return &AddFlight{} },
	"add_accommodation":     func() any { return &AddAccommodation{} },
	"remove_element":        func() any { return &RemoveElement{} },
	"logout":                func() any { return &Logout{} },
}

// DecodeEvent turns a {"type": ..., ...} message into one of the event values.
func DecodeEvent(data []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}

	newEvent, ok := eventTypes[env.Type]
	if !ok {
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}

	ptr := newEvent()
	if err := json.Unmarshal(data, ptr); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", env.Type, err)
	}

	switch e := ptr.(type) {
	case *SearchTextChanged:
		return *e, nil
	case *SearchSubmitted:
		return *e, nil
	case *SearchByDestination:
		return *e, nil
	case *FromDateChanged:
		return *e, nil
	case *ToDateChanged:
		return *e, nil
	case *ScreenChanged:
		if !e.Screen.Valid() {
			return nil, fmt.Errorf("unknown screen %q", e.Screen)
		}
		return *e, nil
	case *ToggleEditMode:
		return *e, nil
	case *AddCity:
		return *e, nil
	case *AddFlight:
		return *e, nil
	case *AddAccommodation:
		return *e, nil
	case *RemoveElement:
		if !e.Screen.Valid() {
			return nil, fmt.Errorf("unknown screen %q", e.Screen)
		}
		return *e, nil
	case *Logout:
		return *e, nil
	}
	return nil, fmt.Errorf("unhandled event type %q", env.Type)
}
