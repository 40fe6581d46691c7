package sse

import (
	"sync"
	"sync/atomic"
)

// Event is one message fanned out to a recipient's open streams.
type Event struct {
	UserID string
	Event  string
	Data   interface{}
}

// Hub fans events out to the open streams of each recipient. Publishing never
// blocks: a stream whose buffer is full misses the event.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	bufferSize  int
	dropped     atomic.Int64
}

// NewHub creates a hub with per-stream buffers of 10 events.
func NewHub() *Hub {
	return NewHubWithBuffer(10)
}

func NewHubWithBuffer(size int) *Hub {
	if size < 1 {
		size = 1
	}
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		bufferSize:  size,
	}
}

// Subscribe opens a stream for userID. The returned cleanup closes the channel
// and must be called exactly once.
func (h *Hub) Subscribe(userID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.bufferSize)

	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan Event]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[userID], ch)
			close(ch)
			if len(h.subscribers[userID]) == 0 {
				delete(h.subscribers, userID)
			}
		})
	}

	return ch, cleanup
}

// Publish delivers event to every open stream of userID.
func (h *Hub) Publish(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[userID] {
		select {
		case ch <- event:
		default:
			h.dropped.Add(1)
		}
	}
}

// SubscriberCount returns the number of open streams of userID.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

// Dropped is the number of events lost to full buffers since start.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}
