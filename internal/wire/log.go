// Package wire records the raw MIDI traffic exchanged with the device. The
// device cannot be queried, so this log is the only record of what actually
// crossed the cable.
package wire

import (
	"sync"
	"time"
)

// ControlChangeStatus is the status byte for a control-change message on
// channel 0, the only message kind this controller sends.
const ControlChangeStatus = 0xB0

// DefaultCapacity is the number of entries kept before the oldest is evicted.
const DefaultCapacity = 100

// Direction marks which way an entry crossed the wire.
type Direction string

const (
	Sent     Direction = "sent"
	Received Direction = "received"
)

// Entry is one observed wire message. Raw is the verbatim payload; for
// outbound traffic it is always a 3-byte control-change frame.
type Entry struct {
	Direction Direction
	Raw       []byte
	At        time.Time
}

// Log is a bounded FIFO of wire entries with a single observer slot. Appends
// from the send path and the asynchronous receive path may race, so appends
// are serialized internally; a Snapshot taken from inside the observer
// callback does not yet include the entry the observer was called with.
type Log struct {
	appendMu sync.Mutex // serializes appends and observer delivery

	mu       sync.Mutex // guards entries and observer slot
	entries  []Entry
	capacity int
	observer func(Entry)
}

// NewLog creates a log holding at most capacity entries. A non-positive
// capacity falls back to DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{entries: make([]Entry, 0, capacity), capacity: capacity}
}

// Append records an entry, evicting the oldest entry once at capacity. The
// observer, if registered, is invoked with the entry before it becomes
// visible to Snapshot.
func (l *Log) Append(e Entry) {
	l.appendMu.Lock()
	defer l.appendMu.Unlock()

	l.mu.Lock()
	obs := l.observer
	l.mu.Unlock()

	if obs != nil {
		obs(e)
	}

	l.mu.Lock()
	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:l.capacity-1]
	}
	l.entries = append(l.entries, e)
	l.mu.Unlock()
}

// Snapshot returns a copy of the current entries, oldest first. It never
// blocks an in-flight Append past the brief copy.
func (l *Log) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// SetObserver replaces the single observer slot. Pass nil to clear it.
func (l *Log) SetObserver(fn func(Entry)) {
	l.mu.Lock()
	l.observer = fn
	l.mu.Unlock()
}

// Len reports the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
