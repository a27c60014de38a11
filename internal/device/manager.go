// Package device owns the MIDI side of a controller session: discovering
// ports and driving the one-way control link to the synthesizer.
package device

import (
	"fmt"
	"strings"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver
)

// Manager handles MIDI port discovery. Discovery is a best-effort scan of
// whatever the driver currently sees; ports can vanish between a scan and an
// open attempt.
type Manager struct {
	mu sync.RWMutex
}

// NewManager creates a new MIDI manager.
func NewManager() *Manager {
	return &Manager{}
}

// Close cleans up the MIDI driver.
func (m *Manager) Close() {
	midi.CloseDriver()
}

// ListInPorts returns the names of available MIDI input ports.
func (m *Manager) ListInPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ins := midi.GetInPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// ListOutPorts returns the names of available MIDI output ports.
func (m *Manager) ListOutPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outs := midi.GetOutPorts()
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names
}

// FindOutPort returns the first output port whose name contains the hint,
// case-insensitively.
func (m *Manager) FindOutPort(hint string) (drivers.Out, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outs := midi.GetOutPorts()
	if len(outs) == 0 {
		return nil, fmt.Errorf("no MIDI outputs available")
	}

	lower := strings.ToLower(hint)
	for _, out := range outs {
		if strings.Contains(strings.ToLower(out.String()), lower) {
			return out, nil
		}
	}
	return nil, fmt.Errorf("no MIDI output contains %q", hint)
}

// FindInPort returns the first input port whose name contains the hint,
// case-insensitively.
func (m *Manager) FindInPort(hint string) (drivers.In, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ins := midi.GetInPorts()
	if len(ins) == 0 {
		return nil, fmt.Errorf("no MIDI inputs available")
	}

	lower := strings.ToLower(hint)
	for _, in := range ins {
		if strings.Contains(strings.ToLower(in.String()), lower) {
			return in, nil
		}
	}
	return nil, fmt.Errorf("no MIDI input contains %q", hint)
}
