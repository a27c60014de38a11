package preset

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/wavekit/synthdeck/internal/param"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "presets.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSaveLoadRoundTrip(t *testing.T) {
	r := openTestRepo(t)

	want := map[param.Address]uint8{5: 10, 7: 20}
	if err := r.Save("x", want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := r.Load("x")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("Load(x) reported absent after save")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load(x) = %v, want %v", got, want)
	}
}

func TestLoadAbsentIsNotAnError(t *testing.T) {
	r := openTestRepo(t)

	values, ok, err := r.Load("nope")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok || values != nil {
		t.Errorf("Load(nope) = %v, %v; want nil, false", values, ok)
	}
}

func TestSaveOverwritesSameName(t *testing.T) {
	r := openTestRepo(t)

	if err := r.Save("x", map[param.Address]uint8{5: 10}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := r.Save("x", map[param.Address]uint8{5: 99, 6: 1}); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, ok, err := r.Load("x")
	if err != nil || !ok {
		t.Fatalf("Load: %v, %v", err, ok)
	}
	if got[5] != 99 || got[6] != 1 || len(got) != 2 {
		t.Errorf("Load(x) = %v, want overwritten snapshot", got)
	}

	names, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 {
		t.Errorf("List = %v, want single entry", names)
	}
}

func TestListIsLexicographic(t *testing.T) {
	r := openTestRepo(t)

	for _, name := range []string{"warm pad", "bass", "lead"} {
		if err := r.Save(name, map[param.Address]uint8{1: 1}); err != nil {
			t.Fatalf("Save(%q): %v", name, err)
		}
	}

	names, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"bass", "lead", "warm pad"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("List = %v, want %v", names, want)
	}
}

func TestDeleteRemovesAndIsIdempotent(t *testing.T) {
	r := openTestRepo(t)

	if err := r.Save("x", map[param.Address]uint8{5: 10}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := r.Delete("x"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok, err := r.Load("x"); err != nil || ok {
		t.Errorf("Load after delete = %v, %v; want absent", err, ok)
	}
	names, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List after delete = %v, want empty", names)
	}

	// Deleting again is a no-op, not a failure.
	if err := r.Delete("x"); err != nil {
		t.Errorf("Delete of absent preset: %v", err)
	}
}

// failingWriter fails for one address and records the rest.
type failingWriter struct {
	failAddr param.Address
	applied  map[param.Address]uint8
}

func (w *failingWriter) Write(addr param.Address, value uint8) error {
	if addr == w.failAddr {
		return errors.New("link down")
	}
	w.applied[addr] = value
	return nil
}

func TestApplyIsBestEffort(t *testing.T) {
	w := &failingWriter{failAddr: 6, applied: map[param.Address]uint8{}}

	failed := Apply(w, map[param.Address]uint8{5: 10, 6: 20, 7: 30})

	if len(failed) != 1 || failed[0].Address != 6 {
		t.Fatalf("failed = %v, want exactly address 6", failed)
	}
	want := map[param.Address]uint8{5: 10, 7: 30}
	if !reflect.DeepEqual(w.applied, want) {
		t.Errorf("applied = %v, want %v", w.applied, want)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bass.yaml")
	want := map[param.Address]uint8{74: 100, 71: 30}

	if err := ExportFile(path, "bass", want); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}

	name, got, err := ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if name != "bass" {
		t.Errorf("name = %q, want bass", name)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("values = %v, want %v", got, want)
	}
}
