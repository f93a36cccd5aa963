package aggregator

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/DanilaRazvan/TravelPlaner/internal/filter"
	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

// Snapshot is one consistent view of the home feed.
type Snapshot struct {
	Cities          []models.ListItem `json:"cities"`
	Flights         []models.ListItem `json:"flights"`
	Accommodations  []models.ListItem `json:"accommodations"`
	EditModeEnabled bool              `json:"edit_mode_enabled"`
	// QuerySeq counts the Query values applied to this snapshot.
	QuerySeq        uint64            `json:"-"`
}

type DateRange struct {
	From *int64
	To   *int64
}

// Inputs are the upstream streams. Cities, Flights, Accommodations and EditMode must each
// deliver a value before the first snapshot. Query and Range may be nil; they then stay at
// "" and an unbounded range. Every Query value produces a snapshot, repeated or not.
type Inputs struct {
	Cities         <-chan []models.City
	Flights        <-chan []models.FlightWithCity
	Accommodations <-chan []models.AccommodationWithCity
	Query          <-chan string
	Range          <-chan DateRange
	EditMode       <-chan bool
}

type Aggregator struct {
	in Inputs
}

func NewAggregator(in Inputs) *Aggregator {
	return &Aggregator{in: in}
}

// Compose builds a snapshot in one step.
func Compose(cities []models.City, flights []models.FlightWithCity, accommodations []models.AccommodationWithCity, c filter.Criteria) Snapshot {
	return Snapshot{
		Cities:          projectCities(cities, c),
		Flights:         projectFlights(flights, c),
		Accommodations:  projectAccommodations(accommodations, c),
		EditModeEnabled: c.EditMode,
	}
}

func projectCities(cities []models.City, c filter.Criteria) []models.ListItem {
	kept := filter.Cities(cities, c)
	items := make([]models.ListItem, 0, len(kept))
	for _, city := range kept {
		items = append(items, models.CityItem(city))
	}
	return items
}

func projectFlights(flights []models.FlightWithCity, c filter.Criteria) []models.ListItem {
	kept := filter.Flights(flights, c)
	items := make([]models.ListItem, 0, len(kept))
	for _, f := range kept {
		items = append(items, models.FlightItem(f))
	}
	return items
}

func projectAccommodations(accommodations []models.AccommodationWithCity, c filter.Criteria) []models.ListItem {
	kept := filter.Accommodations(accommodations, c)
	items := make([]models.ListItem, 0, len(kept))
	for _, a := range kept {
		items = append(items, models.AccommodationItem(a))
	}
	return items
}

// state tracks the latest upstream values and which projections they invalidated.
type state struct {
	cities         []models.City
	flights        []models.FlightWithCity
	accommodations []models.AccommodationWithCity
	criteria       filter.Criteria
	queries        uint64

	haveCities, haveFlights, haveAccommodations, haveEditMode bool

	dirtyCities, dirtyFlights, dirtyAccommodations bool

	snapshot Snapshot
}

func (s *state) ready() bool {
	return s.haveCities && s.haveFlights && s.haveAccommodations && s.haveEditMode
}

func (s *state) dirty() bool {
	return s.dirtyCities || s.dirtyFlights || s.dirtyAccommodations
}

// recompute rebuilds only the invalidated projections.
func (s *state) recompute() Snapshot {
	if s.dirtyCities {
		s.snapshot.Cities = projectCities(s.cities, s.criteria)
	}
	if s.dirtyFlights {
		s.snapshot.Flights = projectFlights(s.flights, s.criteria)
	}
	if s.dirtyAccommodations {
		s.snapshot.Accommodations = projectAccommodations(s.accommodations, s.criteria)
	}
	s.snapshot.EditModeEnabled = s.criteria.EditMode
	s.snapshot.QuerySeq = s.queries
	s.dirtyCities, s.dirtyFlights, s.dirtyAccommodations = false, false, false
	return s.snapshot
}

// Run merges the inputs until ctx is done. The returned channel holds at most one pending
// snapshot; an unread snapshot is replaced by a newer one.
func (a *Aggregator) Run(ctx context.Context) <-chan Snapshot {
	out := make(chan Snapshot, 1)
	in := a.in

	go func() {
		defer close(out)

		var s state
		for {
			select {
			case v, ok := <-in.Cities:
				if !ok {
					in.Cities = nil
					continue
				}
				s.cities, s.haveCities = v, true
				s.dirtyCities = true
			case v, ok := <-in.Flights:
				if !ok {
					in.Flights = nil
					continue
				}
				s.flights, s.haveFlights = v, true
				s.dirtyFlights = true
			case v, ok := <-in.Accommodations:
				if !ok {
					in.Accommodations = nil
					continue
				}
				s.accommodations, s.haveAccommodations = v, true
				s.dirtyAccommodations = true
			case v, ok := <-in.Query:
				if !ok {
					in.Query = nil
					continue
				}
				s.criteria.Query = v
				s.queries++
				s.dirtyCities, s.dirtyFlights, s.dirtyAccommodations = true, true, true
			case v, ok := <-in.Range:
				if !ok {
					in.Range = nil
					continue
				}
				s.criteria.From, s.criteria.To = v.From, v.To
				s.dirtyFlights, s.dirtyAccommodations = true, true
			case v, ok := <-in.EditMode:
				if !ok {
					in.EditMode = nil
					continue
				}
				first := !s.haveEditMode
				s.haveEditMode = true
				if !first && v == s.criteria.EditMode {
					continue
				}
				s.criteria.EditMode = v
				s.dirtyCities, s.dirtyFlights, s.dirtyAccommodations = true, true, true
			case <-ctx.Done():
				return
			}

			if !s.ready() || !s.dirty() {
				continue
			}

			snap := s.recompute()
			log.Debug().
				Int("cities", len(snap.Cities)).
				Int("flights", len(snap.Flights)).
				Int("accommodations", len(snap.Accommodations)).
				Bool("edit_mode", snap.EditModeEnabled).
				Msg("Home feed recomputed")
			publish(out, snap)
		}
	}()

	return out
}

func publish(out chan Snapshot, snap Snapshot) {
	select {
	case out <- snap:
		return
	default:
	}

	select {
	case <-out:
	default:
	}
	out <- snap
}
