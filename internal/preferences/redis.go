package preferences

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var _ Store = (*RedisStore)(nil)

const maxToggleRetries = 5

// RedisStore keeps preferences as plain string keys under a prefix and announces every write
// on a pub/sub channel carrying the key name.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	channel string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Prefix   string
}

func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
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

	return NewRedisStoreWithClient(client, cfg.Prefix), nil
}

func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "travelplaner:prefs:"
	}
	return &RedisStore{
		client:  client,
		prefix:  prefix,
		channel: prefix + "changes",
	}
}

func (r *RedisStore) key(k Key) string {
	return r.prefix + string(k)
}

func (r *RedisStore) Get(ctx context.Context, key Key) (Value, error) {
	data, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return Value{}, nil
	}
	if err != nil {
		return Value{}, fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return Value{Data: data, Set: true}, nil
}

func (r *RedisStore) Set(ctx context.Context, key Key, data string) error {
	if err := r.client.Set(ctx, r.key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	r.announce(ctx, key)
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key Key) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	r.announce(ctx, key)
	return nil
}

// Toggle reads and rewrites the key inside WATCH/MULTI so two concurrent toggles never
// collapse into one.
func (r *RedisStore) Toggle(ctx context.Context, key Key) (bool, error) {
	k := r.key(key)
	var next bool

	toggle := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, k).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		next = !parseBool(Value{Data: current, Set: err == nil})

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, strconv.FormatBool(next), 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxToggleRetries; i++ {
		err := r.client.Watch(ctx, toggle, k)
		if err == nil {
			r.announce(ctx, key)
			return next, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return false, fmt.Errorf("failed to toggle preference %s: %w", key, err)
		}
	}
	return false, fmt.Errorf("failed to toggle preference %s: too much contention", key)
}

func (r *RedisStore) announce(ctx context.Context, key Key) {
	if err := r.client.Publish(ctx, r.channel, string(key)).Err(); err != nil {
		log.Warn().Err(err).Str("key", string(key)).Msg("Failed to publish preference change")
	}
}

func (r *RedisStore) Watch(ctx context.Context, key Key) <-chan Value {
	out := make(chan Value)

	go func() {
		defer close(out)

		sub := r.client.Subscribe(ctx, r.channel)
		defer sub.Close()

		// wait for the subscription before the first read so no change is missed
		if _, err := sub.Receive(ctx); err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Str("key", string(key)).Msg("Preference watch subscribe failed")
			}
			return
		}
		messages := sub.Channel()

		for {
			v, err := r.Get(ctx, key)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warn().Err(err).Str("key", string(key)).Msg("Preference watch reload failed")
			} else {
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}

			if !waitFor(ctx, messages, key) {
				return
			}
		}
	}()

	return out
}

func waitFor(ctx context.Context, messages <-chan *redis.Message, key Key) bool {
	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return false
			}
			if msg.Payload == string(key) {
				return true
			}
		case <-ctx.Done():
			return false
		}
	}
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
