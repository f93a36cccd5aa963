package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

// ClientLimiter keeps one token bucket per client key, usually the remote IP.
type ClientLimiter struct {
	clients  map[string]*client
	mu       sync.RWMutex
	defaults RateLimitConfig
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
	}
}

func NewClientLimiter(config RateLimitConfig) *ClientLimiter {
	return &ClientLimiter{
		clients:  make(map[string]*client),
		defaults: config,
	}
}

func NewClientLimiterWithDefaults() *ClientLimiter {
	return NewClientLimiter(DefaultConfig())
}

func (l *ClientLimiter) GetLimiter(key string) *rate.Limiter {
	now := time.Now()

	l.mu.RLock()
	c, exists := l.clients[key]
	l.mu.RUnlock()

	if exists {
		l.touch(c, now)
		return c.limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if c, exists = l.clients[key]; exists {
		c.lastSeen = now
		return c.limiter
	}

	c = &client{
		limiter:  rate.NewLimiter(rate.Limit(l.defaults.RequestsPerSecond), l.defaults.BurstSize),
		lastSeen: now,
	}
	l.clients[key] = c
	return c.limiter
}

func (l *ClientLimiter) touch(c *client, now time.Time) {
	l.mu.Lock()
	c.lastSeen = now
	l.mu.Unlock()
}

func (l *ClientLimiter) SetClientLimit(key string, rps float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.clients[key] = &client{limiter: rate.NewLimiter(rate.Limit(rps), burst), lastSeen: time.Now()}
}

func (l *ClientLimiter) Allow(key string) bool {
	return l.GetLimiter(key).Allow()
}

func (l *ClientLimiter) Wait(ctx context.Context, key string) error {
	return l.GetLimiter(key).Wait(ctx)
}

// Prune forgets clients not seen for idle and returns how many were dropped.
func (l *ClientLimiter) Prune(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()

	dropped := 0
	for key, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, key)
			dropped++
		}
	}
	return dropped
}

// Middleware rejects requests over the client's budget with 429.
func (l *ClientLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
					Error:   "rate_limited",
					Message: "Too many requests, slow down",
					Code:    http.StatusTooManyRequests,
				})
			}
			return next(c)
		}
	}
}
