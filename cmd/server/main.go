package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DanilaRazvan/TravelPlaner/internal/cache"
	"github.com/DanilaRazvan/TravelPlaner/internal/catalog"
	"github.com/DanilaRazvan/TravelPlaner/internal/config"
	"github.com/DanilaRazvan/TravelPlaner/internal/handler"
	"github.com/DanilaRazvan/TravelPlaner/internal/photos"
	"github.com/DanilaRazvan/TravelPlaner/internal/preferences"
	"github.com/DanilaRazvan/TravelPlaner/internal/ratelimit"
	"github.com/DanilaRazvan/TravelPlaner/internal/seed"
	"github.com/DanilaRazvan/TravelPlaner/internal/store"
	"github.com/DanilaRazvan/TravelPlaner/internal/worker"
)

const limiterIdle = 10 * time.Minute

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogger(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open store")
	}
	defer st.Close()

	var (
		homeCache cache.Cache
		prefs     preferences.Store
	)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		homeCache = cache.NewRedisCacheWithClient(rdb, cfg.Redis.TTL, cfg.Redis.Prefix)
		prefs = preferences.NewRedisStoreWithClient(rdb, cfg.Redis.Prefix+"prefs:")
		log.Info().
			Str("addr", cfg.Redis.Host+":"+cfg.Redis.Port).
			Dur("ttl", cfg.Redis.TTL).
			Msg("Redis cache and preferences enabled")
	} else {
		homeCache = cache.NewNoOpCache()
		prefs = preferences.NewMemoryStore()
		defer prefs.Close()
		log.Info().Msg("Redis disabled, preferences kept in memory")
	}

	if cfg.Seed.Enabled {
		res, err := seed.Load(ctx, st)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to seed catalogue")
		}
		if res.Skipped {
			log.Info().Msg("Catalogue not empty, seed skipped")
		}
	}

	pool := worker.NewPool(cfg.Worker.PoolSize)

	limiter := ratelimit.NewClientLimiter(ratelimit.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
	})
	go pruneLimiter(ctx, limiter)

	svc := catalog.NewService(st, prefs)
	handlers := handler.Handlers{
		Home:    handler.NewHomeHandler(st, prefs, pool, homeCache, cfg.Home.SearchDelay),
		Catalog: handler.NewCatalogHandler(svc),
		Streams: handler.NewStreamHandler(svc),
	}

	if cfg.AWS.S3Bucket != "" {
		uploader, err := photos.NewUploader(ctx, photos.Config{
			Region:        cfg.AWS.Region,
			Bucket:        cfg.AWS.S3Bucket,
			AccessKey:     cfg.AWS.AccessKey,
			SecretKey:     cfg.AWS.SecretKey,
			Endpoint:      cfg.AWS.Endpoint,
			PublicBaseURL: cfg.AWS.PublicBaseURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create photo uploader")
		}
		handlers.Photos = handler.NewPhotoHandler(uploader)
		log.Info().Str("bucket", cfg.AWS.S3Bucket).Msg("Photo uploads enabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("Request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	handler.Register(e, handlers, limiter.Middleware())

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("store", cfg.Store.Driver).Msg("Starting travel planner server")
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Background writes cancelled")
	}

	log.Info().Msg("Server exited")
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	if cfg.Driver != "postgres" {
		return store.NewMemoryStore(), nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN())
	if err != nil {
		return nil, err
	}
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Postgres.MaxConns
	}

	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Str("host", cfg.Postgres.Host).Str("db", cfg.Postgres.DBName).Msg("Database connection established")

	if err := store.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return store.NewPostgresStore(db), nil
}

func pruneLimiter(ctx context.Context, limiter *ratelimit.ClientLimiter) {
	ticker := time.NewTicker(limiterIdle)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := limiter.Prune(limiterIdle); n > 0 {
				log.Debug().Int("clients", n).Msg("Pruned idle rate limiters")
			}
		case <-ctx.Done():
			return
		}
	}
}

func setupLogger(level string, pretty bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
