package logging

import (
	"slices"
	"sync"
	"time"
)

// LogEntry is one recorded log line as held in the ring buffer.
// Seq is assigned when the entry is recorded and increases monotonically,
// so a client that reads history and then subscribes can drop duplicates.
type LogEntry struct {
	Seq        uint64         `json:"seq"`
	Timestamp  time.Time      `json:"timestamp"`
	Level      string         `json:"level"`
	Module     string         `json:"module"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// RingBuffer keeps the most recent log entries in a fixed-capacity ring.
// Safe for concurrent use.
type RingBuffer struct {
	mu      sync.RWMutex
	cap     int
	entries []LogEntry
	next    int
}

// NewRingBuffer creates a buffer that retains up to capacity entries.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{
		cap:     capacity,
		entries: make([]LogEntry, 0, capacity),
	}
}

// Write records an entry, evicting the oldest once the ring is full.
func (rb *RingBuffer) Write(entry LogEntry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if len(rb.entries) < rb.cap {
		rb.entries = append(rb.entries, entry)
		return
	}
	rb.entries[rb.next] = entry
	rb.next = (rb.next + 1) % rb.cap
}

// ReadAll returns the retained entries oldest first.
func (rb *RingBuffer) ReadAll() []LogEntry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if len(rb.entries) == 0 {
		return nil
	}
	if len(rb.entries) < rb.cap {
		return slices.Clone(rb.entries)
	}

	// Once full, rb.next points at the oldest entry.
	out := make([]LogEntry, 0, rb.cap)
	out = append(out, rb.entries[rb.next:]...)
	out = append(out, rb.entries[:rb.next]...)
	return out
}

// Count returns how many entries the buffer currently holds.
func (rb *RingBuffer) Count() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return len(rb.entries)
}
