package home

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
	"github.com/DanilaRazvan/TravelPlaner/internal/preferences"
	"github.com/DanilaRazvan/TravelPlaner/internal/store"
	"github.com/DanilaRazvan/TravelPlaner/internal/worker"
)

type harness struct {
	store  *store.MemoryStore
	prefs  *preferences.MemoryStore
	vm     *ViewModel
	states <-chan State
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st := store.NewMemoryStore()
	prefs := preferences.NewMemoryStore()
	pool := worker.NewPool(2)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = pool.Shutdown(context.Background())
	})

	vm := NewViewModel(st, prefs, pool, 20*time.Millisecond)
	return &harness{store: st, prefs: prefs, vm: vm, states: vm.Run(ctx)}
}

func (h *harness) send(t *testing.T, ev any) {
	t.Helper()
	if err := h.vm.Send(context.Background(), ev); err != nil {
		t.Fatalf("Send(%T): %v", ev, err)
	}
}

func (h *harness) waitFor(t *testing.T, what string, cond func(State) bool) State {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s, ok := <-h.states:
			if !ok {
				t.Fatalf("state stream closed waiting for %s", what)
			}
			if cond(s) {
				return s
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s; last state %+v", what, h.vm.State())
		}
	}
}

func cityNames(s State) []string {
	names := make([]string, 0, len(s.Cities))
	for _, c := range s.Cities {
		names = append(names, c.City)
	}
	return names
}

func TestViewModel_LoadsInitialFeed(t *testing.T) {
	h := newHarness(t)

	s := h.waitFor(t, "first snapshot", func(s State) bool { return !s.IsLoading })
	if len(s.Cities) != 0 || len(s.Flights) != 0 || len(s.Accommodations) != 0 {
		t.Errorf("empty store produced %+v", s)
	}
}

func TestViewModel_AddCity(t *testing.T) {
	h := newHarness(t)
	h.waitFor(t, "first snapshot", func(s State) bool { return !s.IsLoading })

	h.send(t, AddCity{Name: "Paris", Country: "France", ImageURL: "p.jpg"})

	s := h.waitFor(t, "city in feed", func(s State) bool { return len(s.Cities) == 1 })
	if s.Cities[0].City != "Paris" || s.Cities[0].ImageURL != "p.jpg" {
		t.Errorf("city item = %+v", s.Cities[0])
	}
}

func TestViewModel_SearchUsesTextAtDelay(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, _ = h.store.InsertCity(ctx, models.City{Name: "Paris", Country: "France"})
	_, _ = h.store.InsertCity(ctx, models.City{Name: "Rome", Country: "Italy"})
	h.waitFor(t, "both cities", func(s State) bool { return len(s.Cities) == 2 })

	h.send(t, SearchTextChanged{Text: "par"})
	h.send(t, SearchSubmitted{})
	h.send(t, SearchTextChanged{Text: "rom"})

	s := h.waitFor(t, "filtered feed", func(s State) bool { return !s.IsLoading && len(s.Cities) == 1 })
	if got := cityNames(s); got[0] != "Rome" {
		t.Errorf("cities = %v, want [Rome]", got)
	}
	if s.SearchText != "rom" {
		t.Errorf("search text = %q", s.SearchText)
	}
}

func TestViewModel_TextUpdatesBeforeSearch(t *testing.T) {
	h := newHarness(t)
	h.waitFor(t, "first snapshot", func(s State) bool { return !s.IsLoading })

	h.send(t, SearchTextChanged{Text: "lis"})
	s := h.waitFor(t, "text", func(s State) bool { return s.SearchText == "lis" })
	if s.IsLoading {
		t.Error("typing alone must not start a search")
	}
}

func TestViewModel_ToggleEditModeRevealsHidden(t *testing.T) {
	h := newHarness(t)
	_, _ = h.store.InsertCity(context.Background(), models.City{Name: "Paris"})
	h.waitFor(t, "city", func(s State) bool { return len(s.Cities) == 1 })

	h.send(t, SearchTextChanged{Text: "xyz"})
	h.send(t, SearchByDestination{Destination: "xyz"})
	h.waitFor(t, "hidden", func(s State) bool { return !s.IsLoading && len(s.Cities) == 0 })

	h.send(t, ToggleEditMode{})
	s := h.waitFor(t, "edit mode", func(s State) bool { return s.IsEditModeEnabled })
	if len(s.Cities) != 1 {
		t.Errorf("edit mode should show all cities, got %v", cityNames(s))
	}

	on, _ := preferences.EditMode(context.Background(), h.prefs)
	if !on {
		t.Error("edit mode preference not persisted")
	}
}

func TestViewModel_DateRangeFiltersFlights(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	cityID, _ := h.store.InsertCity(ctx, models.City{Name: "Paris"})
	_, _ = h.store.InsertFlight(ctx, models.Flight{ToCityID: cityID, From: 100, To: 200})
	_, _ = h.store.InsertFlight(ctx, models.Flight{ToCityID: cityID, From: 300, To: 400})
	h.waitFor(t, "flights", func(s State) bool { return len(s.Flights) == 2 })

	from := int64(250)
	h.send(t, FromDateChanged{From: &from})

	s := h.waitFor(t, "filtered flights", func(s State) bool { return len(s.Flights) == 1 })
	if s.From != 250 {
		t.Errorf("from = %d", s.From)
	}
	if len(s.Cities) != 1 {
		t.Errorf("date range must not hide cities: %v", cityNames(s))
	}
}

func TestViewModel_RemoveCityCascades(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	paris, _ := h.store.InsertCity(ctx, models.City{Name: "Paris"})
	rome, _ := h.store.InsertCity(ctx, models.City{Name: "Rome"})
	_, _ = h.store.InsertFlight(ctx, models.Flight{ToCityID: paris})
	_, _ = h.store.InsertFlight(ctx, models.Flight{ToCityID: rome})
	_, _ = h.store.InsertAccommodation(ctx, models.Accommodation{CityID: paris, Name: "Hotel"})
	landmark, _ := h.store.InsertLandmark(ctx, models.Landmark{CityID: paris, Name: "Louvre"})
	trip, _ := h.store.InsertTrip(ctx, models.Trip{CityID: paris, Name: "Paris"})
	_ = h.store.LinkTripLandmark(ctx, models.TripLandmark{TripID: trip, LandmarkID: landmark})
	h.waitFor(t, "seeded feed", func(s State) bool { return len(s.Cities) == 2 && len(s.Accommodations) == 1 })

	h.send(t, RemoveElement{ID: paris, Screen: ScreenVisit})

	s := h.waitFor(t, "paris removed", func(s State) bool {
		return len(s.Cities) == 1 && len(s.Flights) == 1 && len(s.Accommodations) == 0
	})
	if s.Cities[0].ID != rome {
		t.Errorf("remaining city = %+v", s.Cities[0])
	}

	if _, err := h.store.GetLandmark(ctx, landmark); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("landmark survived cascade: %v", err)
	}
	if _, err := h.store.GetTripWithLandmarks(ctx, trip); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("trip survived cascade: %v", err)
	}
}

func TestViewModel_RemoveFlightAndAccommodation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	cityID, _ := h.store.InsertCity(ctx, models.City{Name: "Paris"})
	flightID, _ := h.store.InsertFlight(ctx, models.Flight{ToCityID: cityID})
	accID, _ := h.store.InsertAccommodation(ctx, models.Accommodation{CityID: cityID, Name: "Hotel"})
	h.waitFor(t, "seeded", func(s State) bool { return len(s.Flights) == 1 && len(s.Accommodations) == 1 })

	h.send(t, RemoveElement{ID: flightID, Screen: ScreenFly})
	h.send(t, RemoveElement{ID: accID, Screen: ScreenSleep})

	s := h.waitFor(t, "removed", func(s State) bool { return len(s.Flights) == 0 && len(s.Accommodations) == 0 })
	if len(s.Cities) != 1 {
		t.Errorf("city should stay, got %v", cityNames(s))
	}
}

func TestViewModel_Logout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_ = preferences.SetLoggedUser(ctx, h.prefs, models.User{ID: 1, Username: "ana"})

	h.send(t, Logout{})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if user, _ := preferences.LoggedUser(ctx, h.prefs); user == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("logged user was not removed")
}

func TestViewModel_StopsOnCancel(t *testing.T) {
	st := store.NewMemoryStore()
	pool := worker.NewPool(1)
	defer pool.Shutdown(context.Background())

	vm := NewViewModel(st, preferences.NewMemoryStore(), pool, 0)
	ctx, cancel := context.WithCancel(context.Background())
	states := vm.Run(ctx)
	cancel()

	for range states {
	}

	if err := vm.Send(context.Background(), Logout{}); !errors.Is(err, ErrStopped) {
		t.Errorf("Send after stop = %v, want ErrStopped", err)
	}
}
