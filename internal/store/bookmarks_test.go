package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestBookmarkStore(t *testing.T) (*BookmarkStore, func()) {
	t.Helper()

	db, cleanup := setupTestDB(t)
	s := NewBookmarkStore(db)

	// Deterministic, strictly increasing IDs.
	var tick int64
	s.now = func() time.Time {
		tick++
		return time.Unix(0, tick)
	}
	return s, cleanup
}

func TestBookmarkStore_AddAndList(t *testing.T) {
	s, cleanup := newTestBookmarkStore(t)
	defer cleanup()

	ctx := context.Background()

	first, err := s.Add(ctx, "db", "Q1", "SELECT 1")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if first.ID == "" {
		t.Error("expected a non-empty ID")
	}
	if first.ConnectionAlias != "db" {
		t.Errorf("expected alias db, got %s", first.ConnectionAlias)
	}

	if _, err := s.Add(ctx, "db", "Q2", "SELECT 2"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	bookmarks, err := s.List(ctx, "db")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(bookmarks) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(bookmarks))
	}
	// Insertion order preserved.
	if bookmarks[0].Name != "Q1" || bookmarks[1].Name != "Q2" {
		t.Errorf("expected Q1, Q2 order, got %s, %s", bookmarks[0].Name, bookmarks[1].Name)
	}
}

func TestBookmarkStore_DuplicateName(t *testing.T) {
	s, cleanup := newTestBookmarkStore(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := s.Add(ctx, "db", "Q1", "SELECT 1"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	_, err := s.Add(ctx, "db", "Q1", "SELECT 2")
	var dup *DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateNameError, got %v", err)
	}

	bookmarks, err := s.List(ctx, "db")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(bookmarks) != 1 {
		t.Errorf("expected exactly 1 bookmark after failed add, got %d", len(bookmarks))
	}
}

func TestBookmarkStore_NameValidation(t *testing.T) {
	s, cleanup := newTestBookmarkStore(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := s.Add(ctx, "db", "   ", "SELECT 1"); err == nil {
		t.Error("expected whitespace-only name to be rejected")
	}

	// Trimmed name is stored.
	b, err := s.Add(ctx, "db", "  Q1  ", "SELECT 1")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if b.Name != "Q1" {
		t.Errorf("expected trimmed name Q1, got %q", b.Name)
	}

	// Names are case-sensitive: q1 does not collide with Q1.
	if _, err := s.Add(ctx, "db", "q1", "SELECT 1"); err != nil {
		t.Errorf("case-different name should not collide: %v", err)
	}
}

func TestBookmarkStore_PartitionedByAlias(t *testing.T) {
	s, cleanup := newTestBookmarkStore(t)
	defer cleanup()

	ctx := context.Background()

	// Same name under different aliases is fine.
	if _, err := s.Add(ctx, "a", "Q1", "SELECT 1"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := s.Add(ctx, "b", "Q1", "SELECT 1"); err != nil {
		t.Fatalf("Add under other alias failed: %v", err)
	}

	forA, err := s.List(ctx, "a")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(forA) != 1 {
		t.Errorf("expected 1 bookmark for alias a, got %d", len(forA))
	}
}

func TestBookmarkStore_RenameByID(t *testing.T) {
	s, cleanup := newTestBookmarkStore(t)
	defer cleanup()

	ctx := context.Background()

	b, err := s.Add(ctx, "db", "Q1", "SELECT 1")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := s.Add(ctx, "db", "Q2", "SELECT 2"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := s.Rename(ctx, "db", b.ID, "Renamed"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	bookmarks, _ := s.List(ctx, "db")
	if bookmarks[0].Name != "Renamed" {
		t.Errorf("expected Renamed, got %s", bookmarks[0].Name)
	}

	// Renaming onto an existing name fails.
	err = s.Rename(ctx, "db", b.ID, "Q2")
	var dup *DuplicateNameError
	if !errors.As(err, &dup) {
		t.Errorf("expected DuplicateNameError, got %v", err)
	}

	// Missing ID is a silent no-op.
	if err := s.Rename(ctx, "db", "no-such-id", "Whatever"); err != nil {
		t.Errorf("rename of missing ID should be a no-op, got %v", err)
	}
}

func TestBookmarkStore_RemoveByID(t *testing.T) {
	s, cleanup := newTestBookmarkStore(t)
	defer cleanup()

	ctx := context.Background()

	b, err := s.Add(ctx, "db", "Q1", "SELECT 1")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := s.Remove(ctx, "db", b.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	// Missing ID is a silent no-op.
	if err := s.Remove(ctx, "db", b.ID); err != nil {
		t.Errorf("second Remove should be a no-op, got %v", err)
	}

	bookmarks, _ := s.List(ctx, "db")
	if len(bookmarks) != 0 {
		t.Errorf("expected no bookmarks, got %d", len(bookmarks))
	}
}

func TestBookmarkStore_RemoveAll(t *testing.T) {
	s, cleanup := newTestBookmarkStore(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := s.Add(ctx, "db", "Q1", "SELECT 1"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := s.Add(ctx, "other", "Q1", "SELECT 1"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := s.RemoveAll(ctx, "db"); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}

	forDB, _ := s.List(ctx, "db")
	if len(forDB) != 0 {
		t.Errorf("expected no bookmarks for db, got %d", len(forDB))
	}
	forOther, _ := s.List(ctx, "other")
	if len(forOther) != 1 {
		t.Errorf("expected other alias untouched, got %d bookmarks", len(forOther))
	}
}
