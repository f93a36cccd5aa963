package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/DanilaRazvan/TravelPlaner/internal/aggregator"
	"github.com/DanilaRazvan/TravelPlaner/internal/cache"
	"github.com/DanilaRazvan/TravelPlaner/internal/filter"
	"github.com/DanilaRazvan/TravelPlaner/internal/home"
	"github.com/DanilaRazvan/TravelPlaner/internal/models"
	"github.com/DanilaRazvan/TravelPlaner/internal/preferences"
	"github.com/DanilaRazvan/TravelPlaner/internal/store"
	"github.com/DanilaRazvan/TravelPlaner/internal/worker"
)

type HomeHandler struct {
	store       store.Store
	prefs       preferences.Store
	pool        *worker.Pool
	cache       cache.Cache
	searchDelay time.Duration
}

func NewHomeHandler(st store.Store, prefs preferences.Store, pool *worker.Pool, c cache.Cache, searchDelay time.Duration) *HomeHandler {
	return &HomeHandler{
		store:       st,
		prefs:       prefs,
		pool:        pool,
		cache:       c,
		searchDelay: searchDelay,
	}
}

// Get serves one home feed snapshot for ?q=&from=&to= without opening a session.
func (h *HomeHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	from, err := queryTime(c, "from")
	if err != nil {
		return respondError(c, err)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return respondError(c, err)
	}
	editMode, err := preferences.EditMode(ctx, h.prefs)
	if err != nil {
		return respondError(c, err)
	}

	criteria := filter.Criteria{
		Query:    c.QueryParam("q"),
		From:     from,
		To:       to,
		EditMode: editMode,
	}
	version, err := h.store.Version(ctx)
	if err != nil {
		return respondError(c, err)
	}
	key := cache.Key{Criteria: criteria, Generation: version}

	snap, cacheHit := h.cache.Get(ctx, key)
	if !cacheHit {
		snap, err = h.compose(ctx, criteria)
		if err != nil {
			return respondError(c, err)
		}
		if err := h.cache.Set(ctx, key, snap); err != nil {
			log.Warn().Err(err).Msg("Failed to cache home feed")
		}
	}

	return c.JSON(http.StatusOK, models.HomeResponse{
		Query:           criteria.Query,
		From:            from,
		To:              to,
		Cities:          snap.Cities,
		Flights:         snap.Flights,
		Accommodations:  snap.Accommodations,
		EditModeEnabled: snap.EditModeEnabled,
		CacheHit:        cacheHit,
	})
}

func (h *HomeHandler) compose(ctx context.Context, criteria filter.Criteria) (aggregator.Snapshot, error) {
	var (
		cities         []models.City
		flights        []models.FlightWithCity
		accommodations []models.AccommodationWithCity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cities, err = h.store.ListCities(gctx)
		return err
	})
	g.Go(func() (err error) {
		flights, err = h.store.ListFlights(gctx)
		return err
	})
	g.Go(func() (err error) {
		accommodations, err = h.store.ListAccommodations(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return aggregator.Snapshot{}, err
	}

	return aggregator.Compose(cities, flights, accommodations, criteria), nil
}

// Session runs one home screen view model over a websocket. Client messages are events in
// the {"type": ...} form, the server answers with "state" messages and "error" messages for
// events it could not decode. Closing the socket ends the view model.
func (h *HomeHandler) Session(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return nil
	}
	defer conn.Close()

	sessionID := uuid.New().String()
	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	vm := home.NewViewModel(h.store, h.prefs, h.pool, h.searchDelay)
	states := vm.Run(ctx)
	notices := make(chan wsMessage, 8)

	log.Info().Str("session_id", sessionID).Msg("Home session started")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer cancel()
		for {
			var msg wsMessage
			select {
			case s, ok := <-states:
				if !ok {
					return
				}
				msg = wsMessage{Type: "state", Data: s}
			case msg = <-notices:
			}
			if err := writeMessage(conn, msg); err != nil {
				log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to push home state")
				conn.Close()
				return
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if readFailed(err) {
				log.Error().Err(err).Str("session_id", sessionID).Msg("WebSocket error")
			}
			break
		}

		event, err := home.DecodeEvent(data)
		if err != nil {
			select {
			case notices <- wsMessage{Type: "error", Message: err.Error()}:
			default:
			}
			continue
		}
		if err := vm.Send(ctx, event); err != nil {
			break
		}
	}

	cancel()
	<-writerDone
	log.Info().Str("session_id", sessionID).Msg("Home session ended")
	return nil
}
