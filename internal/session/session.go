// Package session ties one device link, its traffic log and its parameter
// store together for the lifetime of a device connection. The session is an
// explicit value handed to whatever needs store or link access; there is no
// process-wide singleton. One session may be active at a time: callers must
// Close the previous session before opening a new one, since two sessions
// must never share a channel.
package session

import (
	"fmt"

	"github.com/google/uuid"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/wavekit/synthdeck/internal/config"
	"github.com/wavekit/synthdeck/internal/device"
	"github.com/wavekit/synthdeck/internal/store"
	"github.com/wavekit/synthdeck/internal/wire"
)

// Session is one open device connection.
type Session struct {
	ID    string
	Log   *wire.Log
	Link  *device.Link
	Store *store.Store
}

// Open discovers the device's ports per the config and builds the session.
// A missing input port is tolerated (the device still accepts writes); a
// missing output port is not.
func Open(mgr *device.Manager, cfg *config.Config) (*Session, error) {
	var out drivers.Out
	var err error
	if cfg.OutPort != "" {
		out, err = mgr.FindOutPort(cfg.OutPort)
	} else {
		out, err = mgr.FindOutPort(cfg.PortHint)
	}
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	var in drivers.In
	if cfg.InPort != "" {
		in, err = mgr.FindInPort(cfg.InPort)
	} else {
		in, err = mgr.FindInPort(cfg.PortHint)
	}
	if err != nil {
		// Output-only devices are common; traffic just won't be received.
		in = nil
	}

	log := wire.NewLog(cfg.LogCapacity)
	link, err := device.Open(out, in, log)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	return New(link, log), nil
}

// New builds a session around an already-open link.
func New(link *device.Link, log *wire.Log) *Session {
	return &Session{
		ID:    uuid.New().String(),
		Log:   log,
		Link:  link,
		Store: store.New(link),
	}
}

// Close releases the device link. Idempotent.
func (s *Session) Close() error {
	return s.Store.Close()
}
