package store

import (
	"errors"
	"testing"

	"github.com/wavekit/synthdeck/internal/param"
)

// fakeLink records sends and can be told to fail.
type fakeLink struct {
	sent    []ffSend
	failErr error
	closed  int
}

type ffSend struct {
	addr  param.Address
	value uint8
}

func (f *fakeLink) SendParameterChange(addr param.Address, value uint8) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.sent = append(f.sent, ffSend{addr, value})
	return nil
}

func (f *fakeLink) Close() error {
	f.closed++
	return nil
}

func TestUnknownUntilSet(t *testing.T) {
	s := New(&fakeLink{})

	if v := s.CachedValue(74); v.Known {
		t.Errorf("CachedValue(74) = %+v, want unknown", v)
	}
	if known := s.KnownValues(); len(known) != 0 {
		t.Errorf("KnownValues = %v, want empty", known)
	}
}

func TestWriteThenRead(t *testing.T) {
	link := &fakeLink{}
	s := New(link)

	if err := s.Write(74, 100); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if v := s.CachedValue(74); !v.Known || v.Raw != 100 {
		t.Errorf("CachedValue(74) = %+v, want known 100", v)
	}
	if len(link.sent) != 1 || link.sent[0] != (ffSend{74, 100}) {
		t.Errorf("link saw %v, want one send of (74,100)", link.sent)
	}

	known := s.KnownValues()
	if len(known) != 1 || known[74] != 100 {
		t.Errorf("KnownValues = %v, want {74:100}", known)
	}
}

func TestFailedWriteDoesNotMutate(t *testing.T) {
	link := &fakeLink{}
	s := New(link)
	if err := s.Write(74, 100); err != nil {
		t.Fatalf("Write: %v", err)
	}

	fired := 0
	s.RegisterObserver(74, func(Value) { fired++ })
	fired = 0 // discard the registration replay

	boom := errors.New("cable unplugged")
	link.failErr = boom

	if err := s.Write(74, 50); !errors.Is(err, boom) {
		t.Fatalf("expected link error, got %v", err)
	}
	if v := s.CachedValue(74); v.Raw != 100 {
		t.Errorf("cached value changed to %d after failed write, want 100", v.Raw)
	}
	if fired != 0 {
		t.Errorf("observer fired %d times on failed write, want 0", fired)
	}
}

func TestRegisterObserverReplaysCachedValue(t *testing.T) {
	s := New(&fakeLink{})

	// Never-written address: replay must deliver unknown, exactly once.
	var got []Value
	s.RegisterObserver(74, func(v Value) { got = append(got, v) })
	if len(got) != 1 || got[0].Known {
		t.Fatalf("replay on unknown address: got %v, want one unknown value", got)
	}

	if err := s.Write(74, 42); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(got) != 2 || !got[1].Known || got[1].Raw != 42 {
		t.Fatalf("after write: got %v, want second known 42", got)
	}

	// Re-registering (tab recreated) replays the last written value.
	var replay []Value
	s.RegisterObserver(74, func(v Value) { replay = append(replay, v) })
	if len(replay) != 1 || !replay[0].Known || replay[0].Raw != 42 {
		t.Errorf("re-register replay: got %v, want one known 42", replay)
	}
}

func TestLastRegistrationWins(t *testing.T) {
	s := New(&fakeLink{})

	first, second := 0, 0
	s.RegisterObserver(10, func(Value) { first++ })
	s.RegisterObserver(10, func(Value) { second++ })
	first, second = 0, 0 // discard registration replays

	if err := s.Write(10, 1); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if first != 0 || second != 1 {
		t.Errorf("first = %d, second = %d; want 0 and 1", first, second)
	}
}

func TestObserverOnlyFiresForItsAddress(t *testing.T) {
	s := New(&fakeLink{})

	fired := 0
	s.RegisterObserver(10, func(Value) { fired++ })
	fired = 0

	if err := s.Write(11, 5); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if fired != 0 {
		t.Errorf("observer for 10 fired on write to 11")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	link := &fakeLink{}
	s := New(link)

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if link.closed != 2 {
		t.Errorf("link.Close called %d times, want 2 (link handles idempotency)", link.closed)
	}
}
