package store

import (
	"sync"
	"sync/atomic"
	"time"
)

// Changes fans out "table X was written" signals. Signals are coalesced per subscriber:
// a subscriber that has not consumed the previous signal does not queue another one.
type Changes struct {
	mu         sync.Mutex
	subs       map[int]*subscription
	next       int
	generation atomic.Uint64
}

type subscription struct {
	tables map[Table]bool
	ch     chan struct{}
}

func NewChanges() *Changes {
	c := &Changes{subs: make(map[int]*subscription)}
	c.generation.Store(uint64(time.Now().UnixNano()))
	return c
}

// Subscribe returns a channel signalled after every write to one of tables (any table when
// none are given) and a function that releases the subscription.
func (c *Changes) Subscribe(tables ...Table) (<-chan struct{}, func()) {
	sub := &subscription{ch: make(chan struct{}, 1)}
	if len(tables) > 0 {
		sub.tables = make(map[Table]bool, len(tables))
		for _, t := range tables {
			sub.tables[t] = true
		}
	}

	c.mu.Lock()
	id := c.next
	c.next++
	c.subs[id] = sub
	c.mu.Unlock()

	return sub.ch, func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Changes) Publish(tables ...Table) {
	c.generation.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sub := range c.subs {
		if !sub.wants(tables) {
			continue
		}
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

// Generation increases on every write. It starts from the process start time so values from
// an earlier run are never reused.
func (c *Changes) Generation() uint64 {
	return c.generation.Load()
}

func (s *subscription) wants(tables []Table) bool {
	if s.tables == nil {
		return true
	}
	for _, t := range tables {
		if s.tables[t] {
			return true
		}
	}
	return false
}
