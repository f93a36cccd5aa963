package preferences

import (
	"context"
	"strconv"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

type MemoryStore struct {
	mu       sync.RWMutex
	values   map[Key]string
	notifier *notifier
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[Key]string), notifier: newNotifier()}
}

func (m *MemoryStore) Get(ctx context.Context, key Key) (Value, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.values[key]
	return Value{Data: data, Set: ok}, nil
}

func (m *MemoryStore) Set(ctx context.Context, key Key, data string) error {
	m.mu.Lock()
	m.values[key] = data
	m.mu.Unlock()

	m.notifier.notify(key)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key Key) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()

	m.notifier.notify(key)
	return nil
}

func (m *MemoryStore) Toggle(ctx context.Context, key Key) (bool, error) {
	m.mu.Lock()
	next := !parseBool(Value{Data: m.values[key], Set: true})
	m.values[key] = strconv.FormatBool(next)
	m.mu.Unlock()

	m.notifier.notify(key)
	return next, nil
}

func (m *MemoryStore) Watch(ctx context.Context, key Key) <-chan Value {
	out := make(chan Value)
	signal, release := m.notifier.subscribe(key)

	go func() {
		defer close(out)
		defer release()

		for {
			v, _ := m.Get(ctx, key)
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}

			select {
			case <-signal:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (m *MemoryStore) Close() error {
	return nil
}
