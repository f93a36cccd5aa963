package preferences

import "sync"

// notifier signals per-key watchers. A watcher that has not consumed its last signal is not
// sent another one.
type notifier struct {
	mu   sync.Mutex
	subs map[Key]map[int]chan struct{}
	next int
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[Key]map[int]chan struct{})}
}

func (n *notifier) subscribe(key Key) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	n.mu.Lock()
	id := n.next
	n.next++
	if n.subs[key] == nil {
		n.subs[key] = make(map[int]chan struct{})
	}
	n.subs[key][id] = ch
	n.mu.Unlock()

	return ch, func() {
		n.mu.Lock()
		delete(n.subs[key], id)
		n.mu.Unlock()
	}
}

func (n *notifier) notify(key Key) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs[key] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
