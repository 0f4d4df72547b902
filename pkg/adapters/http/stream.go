package http

import (
	"log/slog"
	"sync"
)

// StreamManager fans design updates out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // DesignID -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for the design. The returned func
// unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(designID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[designID]; !ok {
		sm.subscribers[designID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[designID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[designID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, designID)
			}
		}
	}
}

// Subscribers returns the number of open subscriptions for the design.
func (sm *StreamManager) Subscribers(designID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[designID])
}

// Broadcast sends msg to every subscriber of the design without blocking.
func (sm *StreamManager) Broadcast(designID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[designID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "design_id", designID)
		}
	}
}
