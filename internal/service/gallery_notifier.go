package service

import "sync"

// Change describes one persisted gallery update.
type Change struct {
	Category Category `json:"type"`
	Items    []Item   `json:"items"`
}

// ChangeListener receives gallery changes. Delivery is synchronous and
// best-effort; listeners must not block.
type ChangeListener func(Change)

// Notifier broadcasts gallery changes to in-process subscribers.
type Notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]ChangeListener
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[int]ChangeListener)}
}

// Subscribe registers a listener and returns a function that removes it.
// Unsubscribing twice is harmless.
func (n *Notifier) Subscribe(listener ChangeListener) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.listeners[id] = listener

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

// Publish delivers the change to every current subscriber. Each listener
// receives its own copy of the item list.
func (n *Notifier) Publish(change Change) {
	n.mu.Lock()
	listeners := make([]ChangeListener, 0, len(n.listeners))
	for _, listener := range n.listeners {
		listeners = append(listeners, listener)
	}
	n.mu.Unlock()

	for _, listener := range listeners {
		listener(Change{Category: change.Category, Items: cloneItems(change.Items)})
	}
}
