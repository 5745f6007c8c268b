package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory":  NewMemory(),
		"disk":    NewDisk(t.TempDir()),
		"layered": NewLayered(t.TempDir()),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			key := EnrichedKey("trident-nariman-point")

			if s.Exists(key) {
				t.Fatal("key should not exist yet")
			}
			if _, err := s.Get(key); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			if err := s.Put(key, []byte(`{"a":1}`)); err != nil {
				t.Fatalf("put: %v", err)
			}
			if !s.Exists(key) {
				t.Fatal("key should exist after put")
			}

			got, err := s.Get(key)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(got) != `{"a":1}` {
				t.Errorf("got %q", got)
			}

			// Put replaces wholesale.
			if err := s.Put(key, []byte(`{"a":2}`)); err != nil {
				t.Fatalf("put: %v", err)
			}
			got, _ = s.Get(key)
			if string(got) != `{"a":2}` {
				t.Errorf("got %q after replace", got)
			}

			if err := s.Delete(key); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if s.Exists(key) {
				t.Error("key should be gone after delete")
			}
			if err := s.Delete(key); err != nil {
				t.Errorf("deleting a missing key should not error, got %v", err)
			}
		})
	}
}

func TestDisk_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	s := NewDisk(dir)

	if err := s.Put("slug.charts", []byte("{}")); err != nil {
		t.Fatalf("put: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one record file, got %d", len(entries))
	}
}

func TestDisk_RecordPath(t *testing.T) {
	dir := t.TempDir()
	s := NewDisk(dir)
	if err := s.Put(ChartsKey("savoy"), []byte("{}")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "savoy.charts.json")); err != nil {
		t.Errorf("expected record file: %v", err)
	}
}

func TestLayered_PromotesFromDisk(t *testing.T) {
	dir := t.TempDir()

	// Seed the disk layer directly, as a previous process would have.
	if err := NewDisk(dir).Put("slug.enriched", []byte("persisted")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	layered := NewLayered(dir)
	got, err := layered.Get("slug.enriched")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "persisted" {
		t.Errorf("got %q", got)
	}

	// Promoted record survives removal of the disk file.
	if err := os.Remove(filepath.Join(dir, "slug.enriched.json")); err != nil {
		t.Fatal(err)
	}
	if _, err := layered.Get("slug.enriched"); err != nil {
		t.Errorf("expected memory hit after promotion, got %v", err)
	}
}

func TestKeys(t *testing.T) {
	if EnrichedKey("a") == ChartsKey("a") || ChartsKey("a") == MetaKey("a") {
		t.Error("stage keys must be distinct per slug")
	}
	if !strings.HasPrefix(EnrichedKey("slug"), "slug") {
		t.Error("keys should be slug-prefixed")
	}
}
