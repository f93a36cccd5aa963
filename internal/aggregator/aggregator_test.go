package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/DanilaRazvan/TravelPlaner/internal/filter"
	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

type feed struct {
	cities         chan []models.City
	flights        chan []models.FlightWithCity
	accommodations chan []models.AccommodationWithCity
	query          chan string
	dates          chan DateRange
	edit           chan bool
}

func newFeed() *feed {
	return &feed{
		cities:         make(chan []models.City),
		flights:        make(chan []models.FlightWithCity),
		accommodations: make(chan []models.AccommodationWithCity),
		query:          make(chan string),
		dates:          make(chan DateRange),
		edit:           make(chan bool),
	}
}

func (f *feed) inputs() Inputs {
	return Inputs{
		Cities:         f.cities,
		Flights:        f.flights,
		Accommodations: f.accommodations,
		Query:          f.query,
		Range:          f.dates,
		EditMode:       f.edit,
	}
}

func next(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return Snapshot{}
}

func none(t *testing.T, ch <-chan Snapshot) {
	t.Helper()
	select {
	case s := <-ch:
		t.Fatalf("unexpected snapshot %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCompose_QueryMatchesCity(t *testing.T) {
	cities := []models.City{{ID: 1, Name: "Paris"}}

	snap := Compose(cities, nil, nil, filter.Criteria{Query: "par"})

	if len(snap.Cities) != 1 || snap.Cities[0].City != "Paris" {
		t.Fatalf("cities = %+v, want one Paris item", snap.Cities)
	}
	if snap.Flights == nil || len(snap.Flights) != 0 {
		t.Errorf("flights = %v, want empty non-nil", snap.Flights)
	}
	if snap.Accommodations == nil || len(snap.Accommodations) != 0 {
		t.Errorf("accommodations = %v, want empty non-nil", snap.Accommodations)
	}
}

func TestCompose_Projections(t *testing.T) {
	paris := models.City{ID: 1, Name: "Paris", Country: "France", PhotoURL: "paris.jpg", Description: "City of light"}
	flights := []models.FlightWithCity{{
		Flight: models.Flight{ID: 5, ToCityID: 1, TicketPrice: "120 EUR", Duration: "2h", From: 10, To: 20},
		City:   paris,
	}}
	accs := []models.AccommodationWithCity{{
		Accommodation: models.Accommodation{ID: 7, CityID: 1, PhotoURL: "hotel.jpg", Description: "Near the river", From: 30, To: 40},
		City:          paris,
	}}

	snap := Compose([]models.City{paris}, flights, accs, filter.Criteria{})

	city := snap.Cities[0]
	if city.ImageURL != "paris.jpg" || city.Country != "France" || city.Details != "City of light" || city.From != nil {
		t.Errorf("city item = %+v", city)
	}

	flight := snap.Flights[0]
	if flight.ID != 5 || flight.ImageURL != "paris.jpg" || flight.Details != "120 EUR - 2h" {
		t.Errorf("flight item = %+v", flight)
	}
	if flight.From == nil || *flight.From != 10 || flight.To == nil || *flight.To != 20 {
		t.Errorf("flight dates = %v, %v", flight.From, flight.To)
	}

	acc := snap.Accommodations[0]
	if acc.ID != 7 || acc.ImageURL != "hotel.jpg" || acc.City != "Paris" || acc.Details != "Near the river" {
		t.Errorf("accommodation item = %+v", acc)
	}
}

func TestCompose_PreservesOrder(t *testing.T) {
	cities := []models.City{{ID: 3, Name: "Rome"}, {ID: 1, Name: "Paris"}, {ID: 2, Name: "Porto"}}

	snap := Compose(cities, nil, nil, filter.Criteria{})

	for i, want := range []int64{3, 1, 2} {
		if snap.Cities[i].ID != want {
			t.Fatalf("cities order = %+v", snap.Cities)
		}
	}
}

func TestRun_WaitsForAllUpstreams(t *testing.T) {
	f := newFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := NewAggregator(f.inputs()).Run(ctx)

	f.cities <- []models.City{{ID: 1, Name: "Paris"}}
	f.flights <- nil
	f.accommodations <- nil
	none(t, out)

	f.edit <- false
	snap := next(t, out)
	if len(snap.Cities) != 1 || snap.EditModeEnabled {
		t.Errorf("first snapshot = %+v", snap)
	}
}

func TestRun_QueryFiltersCities(t *testing.T) {
	f := newFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := NewAggregator(f.inputs()).Run(ctx)

	f.cities <- []models.City{{ID: 1, Name: "Paris"}, {ID: 2, Name: "Rome"}}
	f.flights <- []models.FlightWithCity{}
	f.accommodations <- []models.AccommodationWithCity{}
	f.edit <- false
	next(t, out)

	f.query <- "par"
	snap := next(t, out)
	if len(snap.Cities) != 1 || snap.Cities[0].City != "Paris" {
		t.Errorf("cities = %+v, want only Paris", snap.Cities)
	}
	if len(snap.Flights) != 0 || len(snap.Accommodations) != 0 {
		t.Errorf("flights/accommodations should be empty: %+v", snap)
	}
}

func TestRun_EditModeRevealsHiddenRecords(t *testing.T) {
	f := newFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := NewAggregator(f.inputs()).Run(ctx)

	paris := models.City{ID: 1, Name: "Paris"}
	f.cities <- []models.City{paris}
	f.flights <- []models.FlightWithCity{{Flight: models.Flight{ID: 1, ToCityID: 1}, City: paris}}
	f.accommodations <- []models.AccommodationWithCity{}
	f.edit <- false
	next(t, out)

	f.query <- "xyz"
	snap := next(t, out)
	if len(snap.Cities) != 0 || len(snap.Flights) != 0 {
		t.Fatalf("query xyz should hide everything: %+v", snap)
	}

	f.edit <- true
	snap = next(t, out)
	if !snap.EditModeEnabled {
		t.Error("edit mode flag not propagated")
	}
	if len(snap.Cities) != 1 || len(snap.Flights) != 1 {
		t.Errorf("edit mode should reveal records: %+v", snap)
	}
}

func TestRun_RangeIgnoredByCities(t *testing.T) {
	f := newFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := NewAggregator(f.inputs()).Run(ctx)

	paris := models.City{ID: 1, Name: "Paris"}
	f.cities <- []models.City{paris}
	f.flights <- []models.FlightWithCity{
		{Flight: models.Flight{ID: 1, ToCityID: 1, From: 100, To: 200}, City: paris},
		{Flight: models.Flight{ID: 2, ToCityID: 1, From: 300, To: 400}, City: paris},
	}
	f.accommodations <- []models.AccommodationWithCity{}
	f.edit <- false
	next(t, out)

	from := int64(250)
	f.dates <- DateRange{From: &from}
	snap := next(t, out)
	if len(snap.Cities) != 1 {
		t.Errorf("cities = %+v, date range must not filter cities", snap.Cities)
	}
	if len(snap.Flights) != 1 || snap.Flights[0].ID != 2 {
		t.Errorf("flights = %+v, want only flight 2", snap.Flights)
	}
}

func TestRun_RepeatedQueryStillEmits(t *testing.T) {
	f := newFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := NewAggregator(f.inputs()).Run(ctx)

	f.cities <- []models.City{{ID: 1, Name: "Paris"}}
	f.flights <- []models.FlightWithCity{}
	f.accommodations <- []models.AccommodationWithCity{}
	f.edit <- false
	next(t, out)

	f.query <- "par"
	next(t, out)
	f.query <- "par"
	if snap := next(t, out); len(snap.Cities) != 1 {
		t.Errorf("cities = %+v", snap.Cities)
	}
}

func TestRun_RepeatedEditValueIsIgnored(t *testing.T) {
	f := newFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := NewAggregator(f.inputs()).Run(ctx)

	f.cities <- []models.City{}
	f.flights <- []models.FlightWithCity{}
	f.accommodations <- []models.AccommodationWithCity{}
	f.edit <- false
	next(t, out)

	f.edit <- false
	none(t, out)
}

func TestRun_ConflatesForSlowConsumer(t *testing.T) {
	f := newFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := NewAggregator(f.inputs()).Run(ctx)

	f.flights <- []models.FlightWithCity{}
	f.accommodations <- []models.AccommodationWithCity{}
	f.edit <- false
	for i := 1; i <= 5; i++ {
		cities := make([]models.City, i)
		for j := range cities {
			cities[j] = models.City{ID: int64(j + 1), Name: "C"}
		}
		f.cities <- cities
	}
	// a repeated edit flag is dropped; once it is received the fifth list has been published
	f.edit <- false

	snap := next(t, out)
	if len(snap.Cities) != 5 {
		t.Errorf("conflated snapshot has %d cities, want 5", len(snap.Cities))
	}
	none(t, out)
}

func TestRun_ClosesOnCancel(t *testing.T) {
	f := newFeed()
	ctx, cancel := context.WithCancel(context.Background())

	out := NewAggregator(f.inputs()).Run(ctx)
	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("unexpected snapshot")
		}
	case <-time.After(time.Second):
		t.Fatal("output not closed after cancel")
	}
}

func TestRun_SnapshotsCountQueries(t *testing.T) {
	f := newFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := NewAggregator(f.inputs()).Run(ctx)

	f.cities <- []models.City{{ID: 1, Name: "Paris"}}
	f.flights <- []models.FlightWithCity{}
	f.accommodations <- []models.AccommodationWithCity{}
	f.edit <- false
	if snap := next(t, out); snap.QuerySeq != 0 {
		t.Fatalf("initial QuerySeq = %d, want 0", snap.QuerySeq)
	}

	f.query <- "par"
	if snap := next(t, out); snap.QuerySeq != 1 {
		t.Errorf("QuerySeq after one query = %d, want 1", snap.QuerySeq)
	}

	f.cities <- []models.City{{ID: 1, Name: "Paris"}, {ID: 2, Name: "Parma"}}
	snap := next(t, out)
	if snap.QuerySeq != 1 {
		t.Errorf("a data change must not count as a query, QuerySeq = %d", snap.QuerySeq)
	}

	f.query <- "par"
	if snap := next(t, out); snap.QuerySeq != 2 {
		t.Errorf("repeated query QuerySeq = %d, want 2", snap.QuerySeq)
	}
}
