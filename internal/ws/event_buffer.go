package ws

import (
	"sync"
	"time"
)

const (
	defaultBufferMaxLen = 1000
	defaultBufferMaxAge = 1 * time.Hour
)

// EventBuffer stores recent events for replay on reconnect.
type EventBuffer struct {
	mu     sync.RWMutex
	events []Event
	maxAge time.Duration
	maxLen int
	stop   chan struct{}
}

// NewEventBuffer creates an EventBuffer with the given limits and starts
// a background goroutine that drops expired events every 10 minutes.
func NewEventBuffer(maxLen int, maxAge time.Duration) *EventBuffer {
	eb := &EventBuffer{
		maxAge: maxAge,
		maxLen: maxLen,
		stop:   make(chan struct{}),
	}
	go eb.cleanupLoop()
	return eb
}

// Stop halts the background cleanup goroutine.
func (eb *EventBuffer) Stop() {
	close(eb.stop)
}

func (eb *EventBuffer) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-eb.stop:
			return
		case <-ticker.C:
			eb.mu.Lock()
			eb.evictExpired()
			eb.mu.Unlock()
		}
	}
}

// evictExpired drops events older than maxAge. Caller holds mu.
func (eb *EventBuffer) evictExpired() {
	cutoff := time.Now().Add(-eb.maxAge)
	start := 0
	for start < len(eb.events) && eb.events[start].Time.Before(cutoff) {
		start++
	}
	if start > 0 {
		eb.events = eb.events[start:]
	}
}

// Append stores an event for potential replay, evicting old entries.
func (eb *EventBuffer) Append(event *Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.evictExpired()

	eb.events = append(eb.events, *event)
	if len(eb.events) > eb.maxLen {
		eb.events = eb.events[len(eb.events)-eb.maxLen:]
	}
}

// Since returns all buffered events with ID > lastEventID, oldest first.
func (eb *EventBuffer) Since(lastEventID uint64) []Event {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	buf := eb.events

	// Binary search for the first event with ID > lastEventID.
	lo, hi := 0, len(buf)
	for lo < hi {
		mid := (lo + hi) / 2
		if buf[mid].ID <= lastEventID {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo >= len(buf) {
		return nil
	}

	result := make([]Event, len(buf)-lo)
	copy(result, buf[lo:])
	return result
}

// OldestID returns the oldest buffered event ID, or 0 if empty.
func (eb *EventBuffer) OldestID() uint64 {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if len(eb.events) == 0 {
		return 0
	}
	return eb.events[0].ID
}
