package store

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "nested", "superset.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	if _, ok, err := s.Get(ctx, "superset_user"); err != nil || ok {
		t.Fatalf("Expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "superset_user", "u1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "superset_user", "u2"); err != nil {
		t.Fatalf("Set (overwrite) failed: %v", err)
	}

	v, ok, err := s.Get(ctx, "superset_user")
	if err != nil || !ok || v != "u2" {
		t.Fatalf("Expected u2, got %q ok=%v err=%v", v, ok, err)
	}

	if err := s.Delete(ctx, "superset_user"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, "superset_user"); err != nil {
		t.Fatalf("Delete of missing key failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "superset_user"); ok {
		t.Error("Expected key to be deleted")
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "superset.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	if err := s.Set(ctx, "superset_onboarded", "true"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	_ = s.Close()

	s, err = NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	if v, ok, _ := s.Get(ctx, "superset_onboarded"); !ok || v != "true" {
		t.Errorf("Expected persisted value, got %q ok=%v", v, ok)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Set(ctx, "k", "v")
	if v, ok, _ := m.Get(ctx, "k"); !ok || v != "v" {
		t.Errorf("Expected v, got %q", v)
	}
	_ = m.Delete(ctx, "k")
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("Expected deletion")
	}
}
