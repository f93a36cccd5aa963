package home

import (
	"math"

	"github.com/DanilaRazvan/TravelPlaner/internal/aggregator"
	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

type State struct {
	SearchText        string            `json:"search_text"`
	SelectedScreen    Screen            `json:"selected_screen"`
	Cities            []models.ListItem `json:"cities"`
	Flights           []models.ListItem `json:"flights"`
	Accommodations    []models.ListItem `json:"accommodations"`
	IsLoading         bool              `json:"is_loading"`
	IsEditModeEnabled bool              `json:"is_edit_mode_enabled"`
	From              int64             `json:"from"`
	To                int64             `json:"to"`

	// searches counts SearchByDestination events folded so far.
	searches uint64
}

func InitialState() State {
	return State{
		SelectedScreen: ScreenVisit,
		Cities:         []models.ListItem{},
		Flights:        []models.ListItem{},
		Accommodations: []models.ListItem{},
		IsLoading:      true,
		To:             math.MaxInt64,
	}
}

// Reduce folds one event or feed snapshot into the state. Values it does not know leave the
// state unchanged.
func Reduce(s State, event any) State {
	switch e := event.(type) {
	case SearchTextChanged:
		s.SearchText = e.Text
		s.IsLoading = false
	case FromDateChanged:
		s.From = 0
		if e.From != nil {
			s.From = *e.From
		}
		s.IsLoading = false
	case ToDateChanged:
		s.To = math.MaxInt64
		if e.To != nil {
			s.To = *e.To
		}
		s.IsLoading = false
	case ScreenChanged:
		s.SelectedScreen = e.Screen
	case SearchByDestination:
		s.IsLoading = true
		s.searches++
	case aggregator.Snapshot:
		s.Cities = e.Cities
		s.Flights = e.Flights
		s.Accommodations = e.Accommodations
		s.IsEditModeEnabled = e.EditModeEnabled
		// a snapshot computed before the latest search does not end it
		if e.QuerySeq >= s.searches {
			s.IsLoading = false
		}
	}
	return s
}
