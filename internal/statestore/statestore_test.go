package statestore

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return Open(filepath.Join(t.TempDir(), "state.yaml"))
}

func TestPendingSectionConsumedOnce(t *testing.T) {
	store := newTestStore(t)

	if _, ok := store.TakePendingSection(); ok {
		t.Fatal("TakePendingSection() on empty store should report nothing")
	}

	if err := store.SavePendingSection("settings-profiles"); err != nil {
		t.Fatalf("SavePendingSection() error = %v", err)
	}

	id, ok := store.TakePendingSection()
	if !ok || id != "settings-profiles" {
		t.Fatalf("TakePendingSection() = %q/%v, want settings-profiles/true", id, ok)
	}

	if _, ok := store.TakePendingSection(); ok {
		t.Error("pending section survived being taken")
	}
}

func TestPendingSectionSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.yaml")

	if err := Open(path).SavePendingSection("logs"); err != nil {
		t.Fatalf("SavePendingSection() error = %v", err)
	}

	id, ok := Open(path).TakePendingSection()
	if !ok || id != "logs" {
		t.Errorf("TakePendingSection() after reopen = %q/%v, want logs/true", id, ok)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := newTestStore(t)

	if _, ok := store.Snapshot(); ok {
		t.Fatal("Snapshot() on empty store should report nothing")
	}

	snap := &SettingsSnapshot{
		FetchedAt: time.Now().UTC().Truncate(time.Second),
		Toggles:   map[string]bool{"low_usage_mode": true, "requestarr_enabled": false},
		Values:    map[string]string{"theme": "dark"},
	}
	if err := store.SaveSnapshot(snap); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	got, ok := store.Snapshot()
	if !ok {
		t.Fatal("Snapshot() missing after save")
	}
	if !got.FetchedAt.Equal(snap.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, snap.FetchedAt)
	}
	if got.Values["theme"] != "dark" {
		t.Errorf("Values = %v", got.Values)
	}

	if v, ok := store.Toggle("low_usage_mode"); !ok || !v {
		t.Errorf("Toggle(low_usage_mode) = %v/%v, want true/true", v, ok)
	}
	if v, ok := store.Toggle("requestarr_enabled"); !ok || v {
		t.Errorf("Toggle(requestarr_enabled) = %v/%v, want false/true", v, ok)
	}
	if _, ok := store.Toggle("unknown"); ok {
		t.Error("Toggle(unknown) should report absence")
	}
}

func TestSnapshotAndPendingAreIndependent(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveSnapshot(&SettingsSnapshot{Toggles: map[string]bool{"x": true}}); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if err := store.SavePendingSection("home"); err != nil {
		t.Fatalf("SavePendingSection() error = %v", err)
	}

	if _, ok := store.TakePendingSection(); !ok {
		t.Fatal("pending section lost")
	}
	if _, ok := store.Snapshot(); !ok {
		t.Error("snapshot clobbered by pending-section write")
	}
}

func TestCorruptFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.yaml")
	if err := os.WriteFile(path, []byte(":\nnot yaml: ["), 0600); err != nil {
		t.Fatal(err)
	}

	store := Open(path)
	if err := store.SavePendingSection("home"); err == nil {
		t.Error("SavePendingSection() should surface a corrupt state file")
	}
}
