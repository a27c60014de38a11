package device

import (
	"bytes"
	"errors"
	"testing"

	"gitlab.com/gomidi/midi/v2"

	"github.com/wavekit/synthdeck/internal/wire"
)

func TestSendParameterChangeEncodesAndLogs(t *testing.T) {
	log := wire.NewLog(10)

	var sent []midi.Message
	l := NewLink(func(msg midi.Message) error {
		sent = append(sent, msg)
		return nil
	}, log)

	if err := l.SendParameterChange(74, 100); err != nil {
		t.Fatalf("SendParameterChange: %v", err)
	}

	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	want := []byte{wire.ControlChangeStatus, 74, 100}
	if !bytes.Equal(sent[0].Bytes(), want) {
		t.Errorf("wire bytes = %v, want %v", sent[0].Bytes(), want)
	}

	entries := log.Snapshot()
	if len(entries) != 1 {
		t.Fatalf("log has %d entries, want 1", len(entries))
	}
	if entries[0].Direction != wire.Sent || !bytes.Equal(entries[0].Raw, want) {
		t.Errorf("log entry = %+v, want sent %v", entries[0], want)
	}
	if entries[0].At.IsZero() {
		t.Error("log entry has zero timestamp")
	}
}

func TestSendFailureLogsNothing(t *testing.T) {
	log := wire.NewLog(10)
	boom := errors.New("port gone")
	l := NewLink(func(midi.Message) error { return boom }, log)

	err := l.SendParameterChange(74, 100)
	if !errors.Is(err, ErrTransportWrite) {
		t.Fatalf("expected ErrTransportWrite, got %v", err)
	}
	if log.Len() != 0 {
		t.Errorf("log has %d entries after failed send, want 0", log.Len())
	}
}

func TestSendAfterClose(t *testing.T) {
	log := wire.NewLog(10)
	l := NewLink(func(midi.Message) error { return nil }, log)

	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if err := l.SendParameterChange(74, 100); !errors.Is(err, ErrLinkUnavailable) {
		t.Errorf("expected ErrLinkUnavailable, got %v", err)
	}
}
