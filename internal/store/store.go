// Package store caches the last value written to every device parameter.
// The synthesizer's protocol is set-only, so this cache is the only source
// of truth for "current value": a parameter is unknown until the first
// successful write, and unknown is a real state, not zero.
package store

import (
	"sync"

	"github.com/wavekit/synthdeck/internal/param"
)

// Sender is the outbound half of a device link.
type Sender interface {
	SendParameterChange(addr param.Address, value uint8) error
	Close() error
}

// Value is the tri-state cached value of one parameter. When Known is false
// the parameter has never been successfully written and Raw is meaningless.
type Value struct {
	Raw   uint8
	Known bool
}

// Observer receives the cached value of the address it is registered on:
// once at registration, then after every successful write.
type Observer func(Value)

// Store holds the last-known value per parameter address and fans writes out
// to the device link, the traffic log (via the link) and per-address
// observers.
//
// Mutation and notification happen inside one critical section, so observer
// callbacks run with the store locked and must not call back into it.
type Store struct {
	mu        sync.Mutex
	link      Sender
	values    map[param.Address]uint8
	observers map[param.Address]Observer
}

// New creates a store writing through the given link.
func New(link Sender) *Store {
	return &Store{
		link:      link,
		values:    make(map[param.Address]uint8),
		observers: make(map[param.Address]Observer),
	}
}

// Write sends the value to the device and, only if the send succeeds,
// updates the cache and synchronously notifies the observer registered for
// the address. On failure the cache is untouched and no observer fires, so a
// failed write leaves no partial state behind.
func (s *Store) Write(addr param.Address, value uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.link.SendParameterChange(addr, value); err != nil {
		return err
	}

	s.values[addr] = value
	if obs := s.observers[addr]; obs != nil {
		obs(Value{Raw: value, Known: true})
	}
	return nil
}

// RegisterObserver installs the observer for an address, replacing any
// previous one (last registration wins; one widget per parameter). The
// observer is immediately invoked once with the current cached value, which
// may be unknown, so a freshly built widget can initialize without waiting
// for a future write.
func (s *Store) RegisterObserver(addr param.Address, obs Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers[addr] = obs
	if obs != nil {
		raw, ok := s.values[addr]
		obs(Value{Raw: raw, Known: ok})
	}
}

// CachedValue returns the tri-state cached value for an address.
func (s *Store) CachedValue(addr param.Address) Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.values[addr]
	return Value{Raw: raw, Known: ok}
}

// KnownValues returns a copy of every currently known address/value pair.
// Addresses never written are omitted; this is exactly the set a preset save
// operates over.
func (s *Store) KnownValues() map[param.Address]uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[param.Address]uint8, len(s.values))
	for a, v := range s.values {
		out[a] = v
	}
	return out
}

// Close closes the underlying link. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.link.Close()
}
