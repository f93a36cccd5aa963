package store

import (
	"context"
	"testing"
	"time"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestChanges_Coalesces(t *testing.T) {
	c := NewChanges()
	notify, release := c.Subscribe(TableCities)
	defer release()

	c.Publish(TableCities)
	c.Publish(TableCities)
	c.Publish(TableFlights)

	select {
	case <-notify:
	default:
		t.Fatal("expected a pending signal")
	}
	select {
	case <-notify:
		t.Fatal("signals were not coalesced")
	default:
	}
}

func TestChanges_GenerationIncreases(t *testing.T) {
	c := NewChanges()
	before := c.Generation()
	c.Publish(TableTrips)
	if after := c.Generation(); after <= before {
		t.Errorf("generation %d did not increase from %d", after, before)
	}
}

func TestChanges_Release(t *testing.T) {
	c := NewChanges()
	notify, release := c.Subscribe()
	release()

	c.Publish(TableCities)
	select {
	case <-notify:
		t.Fatal("released subscription was signalled")
	default:
	}
}

func TestWatchCities_ReplaysAndReloads(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, _ = s.InsertCity(ctx, models.City{Name: "Paris"})

	ch := WatchCities(ctx, s)
	if got := receive(t, ch); len(got) != 1 {
		t.Fatalf("initial cities = %+v, want one", got)
	}

	_, _ = s.InsertCity(ctx, models.City{Name: "Rome"})
	if got := receive(t, ch); len(got) != 2 {
		t.Fatalf("reloaded cities = %+v, want two", got)
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			// a reload may have raced the cancel; the next read must see the close
			if _, ok := <-ch; ok {
				t.Fatal("channel still open after cancel")
			}
		}
	case <-time.After(time.Second):
		t.Fatal("watch did not close after cancel")
	}
}

func TestWatchFlights_ReloadsOnCityChange(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cityID, _ := s.InsertCity(ctx, models.City{Name: "Paris"})
	_, _ = s.InsertFlight(ctx, models.Flight{ToCityID: cityID})

	ch := WatchFlights(ctx, s)
	receive(t, ch)

	_ = s.UpdateCity(ctx, models.City{ID: cityID, Name: "Paris", Country: "France"})
	got := receive(t, ch)
	if len(got) != 1 || got[0].City.Country != "France" {
		t.Errorf("flights after city update = %+v", got)
	}
}

func TestWatchAccommodation_SkipsFailedLoads(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := WatchAccommodation(ctx, s, 1)

	cityID, _ := s.InsertCity(ctx, models.City{Name: "Paris"})
	id, _ := s.InsertAccommodation(ctx, models.Accommodation{CityID: cityID, Name: "Hotel"})
	if id != 1 {
		t.Fatalf("accommodation id = %d, want 1", id)
	}

	got := receive(t, ch)
	if got.Accommodation.Name != "Hotel" {
		t.Errorf("accommodation = %+v", got)
	}
}
