package device

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/wavekit/synthdeck/internal/param"
	"github.com/wavekit/synthdeck/internal/wire"
)

var (
	// ErrLinkUnavailable means no outbound channel is open: the link was
	// never connected, or it has been closed.
	ErrLinkUnavailable = errors.New("device link unavailable")

	// ErrTransportWrite means the outbound channel rejected a write.
	ErrTransportWrite = errors.New("transport write failed")
)

// Link owns exactly one outbound and one inbound channel to the device and
// applies the wire encoding for parameter changes. The protocol is
// fire-and-forget: the device never acknowledges, so the only feedback a
// caller gets is whether the local write succeeded.
//
// Inbound traffic is logged verbatim and never interpreted; delivery happens
// on the driver's listener goroutine and never blocks or fails a sender.
type Link struct {
	mu     sync.Mutex
	send   func(midi.Message) error
	stop   func()
	log    *wire.Log
	closed bool
}

// Open connects a link over the given ports, recording traffic into log.
// The input port may be nil for devices wired output-only.
func Open(out drivers.Out, in drivers.In, log *wire.Log) (*Link, error) {
	if out == nil {
		return nil, fmt.Errorf("open link: %w", ErrLinkUnavailable)
	}

	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("failed to create sender: %w", err)
	}

	l := &Link{send: send, log: log}

	if in != nil {
		stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
			raw := make([]byte, len(msg.Bytes()))
			copy(raw, msg.Bytes())
			log.Append(wire.Entry{Direction: wire.Received, Raw: raw, At: time.Now()})
		})
		if err != nil {
			return nil, fmt.Errorf("failed to start listening: %w", err)
		}
		l.stop = stop
	}

	return l, nil
}

// NewLink builds a link around an existing sender. Inbound traffic handling
// is up to the caller.
func NewLink(send func(midi.Message) error, log *wire.Log) *Link {
	return &Link{send: send, log: log}
}

// SendParameterChange encodes and writes the 3-byte control-change frame
// [0xB0, address, value]. The sent entry is logged only after the write
// succeeds; on failure nothing is logged and the error surfaces to the
// caller.
func (l *Link) SendParameterChange(addr param.Address, value uint8) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || l.send == nil {
		return fmt.Errorf("send parameter %d: %w", addr, ErrLinkUnavailable)
	}

	if err := l.send(midi.ControlChange(0, uint8(addr), value)); err != nil {
		return fmt.Errorf("send parameter %d: %w: %v", addr, ErrTransportWrite, err)
	}

	l.log.Append(wire.Entry{
		Direction: wire.Sent,
		Raw:       []byte{wire.ControlChangeStatus, uint8(addr), value},
		At:        time.Now(),
	})
	return nil
}

// Close releases both channels. Safe to call multiple times.
func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	l.send = nil
	if l.stop != nil {
		l.stop()
		l.stop = nil
	}
	return nil
}
