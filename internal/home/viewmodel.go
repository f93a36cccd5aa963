package home

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DanilaRazvan/TravelPlaner/internal/aggregator"
	"github.com/DanilaRazvan/TravelPlaner/internal/models"
	"github.com/DanilaRazvan/TravelPlaner/internal/preferences"
	"github.com/DanilaRazvan/TravelPlaner/internal/store"
	"github.com/DanilaRazvan/TravelPlaner/internal/worker"
)

var ErrStopped = errors.New("home view model stopped")

const DefaultSearchDelay = 100 * time.Millisecond

// searchDue fires when a submitted search's delay has elapsed.
type searchDue struct{}

// ViewModel owns one home screen session. Events are handled one at a time in arrival
// order; storage writes go to the worker pool and come back through the store watches.
type ViewModel struct {
	store       store.Store
	prefs       preferences.Store
	pool        *worker.Pool
	searchDelay time.Duration

	events chan any
	done   chan struct{}

	mu    sync.RWMutex
	state State
}

func NewViewModel(st store.Store, prefs preferences.Store, pool *worker.Pool, searchDelay time.Duration) *ViewModel {
	if searchDelay <= 0 {
		searchDelay = DefaultSearchDelay
	}
	return &ViewModel{
		store:       st,
		prefs:       prefs,
		pool:        pool,
		searchDelay: searchDelay,
		events:      make(chan any, 32),
		done:        make(chan struct{}),
		state:       InitialState(),
	}
}

func (vm *ViewModel) State() State {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.state
}

// Send queues an event for the loop started by Run.
func (vm *ViewModel) Send(ctx context.Context, event any) error {
	select {
	case <-vm.done:
		return ErrStopped
	default:
	}

	select {
	case vm.events <- event:
		return nil
	case <-vm.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run starts the session and returns its state stream. The stream holds at most one pending
// state, the newest. Cancelling ctx ends the session and closes the stream; writes already
// handed to the pool still complete. Run must be called once.
func (vm *ViewModel) Run(ctx context.Context) <-chan State {
	out := make(chan State, 1)
	query := make(chan string)
	dates := make(chan aggregator.DateRange)

	feed := aggregator.NewAggregator(aggregator.Inputs{
		Cities:         store.WatchCities(ctx, vm.store),
		Flights:        store.WatchFlights(ctx, vm.store),
		Accommodations: store.WatchAccommodations(ctx, vm.store),
		Query:          query,
		Range:          dates,
		EditMode:       preferences.WatchEditMode(ctx, vm.prefs),
	}).Run(ctx)

	go func() {
		defer close(out)
		defer close(vm.done)

		var dateRange aggregator.DateRange
		publish(out, vm.State())

		for {
			var folded any
			select {
			case snap, ok := <-feed:
				if !ok {
					return
				}
				folded = snap
			case ev := <-vm.events:
				folded = vm.handle(ctx, ev)
			case <-ctx.Done():
				return
			}
			if folded == nil {
				continue
			}

			publish(out, vm.fold(folded))

			// the filter inputs go out after the fold so the resulting snapshot lands
			// on a state that is already loading
			switch e := folded.(type) {
			case SearchByDestination:
				if !sendTo(ctx, query, e.Destination) {
					return
				}
			case FromDateChanged:
				dateRange.From = e.From
				if !sendTo(ctx, dates, dateRange) {
					return
				}
			case ToDateChanged:
				dateRange.To = e.To
				if !sendTo(ctx, dates, dateRange) {
					return
				}
			}
		}
	}()

	return out
}

func (vm *ViewModel) fold(event any) State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.state = Reduce(vm.state, event)
	return vm.state
}

// handle starts the side effects of an event and returns what should be folded into the
// state, or nil.
func (vm *ViewModel) handle(ctx context.Context, event any) any {
	switch e := event.(type) {
	case SearchSubmitted:
		go vm.scheduleSearch(ctx)
		return nil
	case searchDue:
		return SearchByDestination{Destination: vm.State().SearchText}
	case ToggleEditMode:
		vm.pool.Submit("toggle edit mode", func(ctx context.Context) error {
			_, err := preferences.ToggleEditMode(ctx, vm.prefs)
			return err
		})
		return nil
	case AddCity:
		vm.pool.Submit("add city", func(ctx context.Context) error {
			_, err := vm.store.InsertCity(ctx, models.City{
				Name:        e.Name,
				Country:     e.Country,
				PhotoURL:    e.ImageURL,
				Description: e.Description,
			})
			return err
		})
		return nil
	case AddFlight:
		vm.pool.Submit("add flight", func(ctx context.Context) error {
			_, err := vm.store.InsertFlight(ctx, models.Flight{
				TicketPrice: e.TicketPrice,
				Duration:    e.Duration,
				ToCityID:    e.ToCityID,
				Description: e.Description,
				From:        e.From,
				To:          e.To,
			})
			return err
		})
		return nil
	case AddAccommodation:
		vm.pool.Submit("add accommodation", func(ctx context.Context) error {
			_, err := vm.store.InsertAccommodation(ctx, models.Accommodation{
				Name:             e.Name,
				CityID:           e.CityID,
				Description:      e.Description,
				PhotoURL:         e.ImageURL,
				From:             e.From,
				To:               e.To,
				AdditionalPhotos: []string{},
			})
			return err
		})
		return nil
	case RemoveElement:
		vm.remove(e)
		return nil
	case Logout:
		vm.pool.Submit("logout", func(ctx context.Context) error {
			return preferences.RemoveLoggedUser(ctx, vm.prefs)
		})
		return nil
	default:
		return event
	}
}

func (vm *ViewModel) remove(e RemoveElement) {
	switch e.Screen {
	case ScreenVisit:
		vm.pool.Submit("remove city", func(ctx context.Context) error {
			return store.DeleteCityCascade(ctx, vm.store, e.ID)
		})
	case ScreenFly:
		vm.pool.Submit("remove flight", func(ctx context.Context) error {
			return vm.store.DeleteFlight(ctx, e.ID)
		})
	case ScreenSleep:
		vm.pool.Submit("remove accommodation", func(ctx context.Context) error {
			return vm.store.DeleteAccommodation(ctx, e.ID)
		})
	default:
		log.Warn().Str("screen", string(e.Screen)).Int64("id", e.ID).Msg("Remove on unknown screen ignored")
	}
}

func (vm *ViewModel) scheduleSearch(ctx context.Context) {
	timer := time.NewTimer(vm.searchDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		_ = vm.Send(ctx, searchDue{})
	case <-ctx.Done():
	}
}

func sendTo[T any](ctx context.Context, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-ctx.Done():
		return false
	}
}

func publish(out chan State, s State) {
	select {
	case out <- s:
		return
	default:
	}

	select {
	case <-out:
	default:
	}
	out <- s
}
