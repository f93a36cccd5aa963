package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DanilaRazvan/TravelPlaner/internal/aggregator"
	"github.com/DanilaRazvan/TravelPlaner/internal/filter"
)

// Key identifies a home feed snapshot. Generation is the store's catalogue version, so any
// write, from this process or another one on the same database, moves readers to fresh keys
// and old entries simply expire.
type Key struct {
	Criteria   filter.Criteria
	Generation uint64
}

type Cache interface {
	Get(ctx context.Context, key Key) (aggregator.Snapshot, bool)
	Set(ctx context.Context, key Key, snap aggregator.Snapshot) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     "localhost",
		Port:     "6379",
		Password: "",
		DB:       0,
		TTL:      5 * time.Minute,
		Prefix:   "travelplaner:",
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewRedisCacheWithClient(client, cfg.TTL, cfg.Prefix), nil
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration, prefix string) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: prefix,
	}
}

func (c *RedisCache) Get(ctx context.Context, key Key) (aggregator.Snapshot, bool) {
	data, err := c.client.Get(ctx, c.prefix+generateKey(key)).Bytes()
	if err != nil {
		return aggregator.Snapshot{}, false
	}

	var snap aggregator.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return aggregator.Snapshot{}, false
	}

	return snap, true
}

func (c *RedisCache) Set(ctx context.Context, key Key, snap aggregator.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.prefix+generateKey(key), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, key Key) (aggregator.Snapshot, bool) {
	return aggregator.Snapshot{}, false
}

func (c *NoOpCache) Set(ctx context.Context, key Key, snap aggregator.Snapshot) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

func generateKey(key Key) string {
	keyData := struct {
		Query      string
		From       *int64
		To         *int64
		EditMode   bool
		Generation uint64
	}{
		Query:      key.Criteria.Query,
		From:       key.Criteria.From,
		To:         key.Criteria.To,
		EditMode:   key.Criteria.EditMode,
		Generation: key.Generation,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "home:" + hex.EncodeToString(hash[:])
}
