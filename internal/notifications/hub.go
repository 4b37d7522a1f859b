package notifications

import (
	"sync"

	"taskdesk-backend/internal/store"
)

// Hub is an in-memory pub/sub fan-out for notification delivery, keyed by
// recipient id. It replaces the ambient client-side subscription context with
// a process-wide service offering explicit subscribe/unsubscribe. Delivery is
// best-effort: a subscriber whose buffer is full misses events.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan store.Notification]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan store.Notification]struct{}),
	}
}

// Subscribe registers a listener for one recipient. Returns the event channel
// and an unsubscribe function. The channel is buffered so publishers never
// block.
func (h *Hub) Subscribe(userID string) (chan store.Notification, func()) {
	ch := make(chan store.Notification, 16)

	h.mu.Lock()
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan store.Notification]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if subs, ok := h.subscribers[userID]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.subscribers, userID)
			}
		}
		for len(ch) > 0 {
			<-ch
		}
	}
	return ch, unsubscribe
}

// Publish delivers a notification to every subscriber of its recipient.
func (h *Hub) Publish(n store.Notification) {
	h.mu.RLock()
	subs := h.subscribers[n.UserID]
	h.mu.RUnlock()

	for ch := range subs {
		select {
		case ch <- n:
		default:
			// Subscriber buffer full, drop.
		}
	}
}

// HasSubscribers reports whether anyone is listening for the recipient.
func (h *Hub) HasSubscribers(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID]) > 0
}
