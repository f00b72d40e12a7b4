package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/willibrandon/looseleaf/internal/storage/sqlite"
)

// Bookmark is a named saved query scoped to one connection alias.
type Bookmark struct {
	ID              string `json:"id"`
	ConnectionAlias string `json:"connectionAlias"`
	Name            string `json:"name"`
	Query           string `json:"query"`
}

// BookmarkStore persists per-alias bookmark lists. Bookmark sets are
// partitioned strictly by alias; names are unique (case-sensitive) within
// one alias's set. Mutations are keyed by bookmark ID.
type BookmarkStore struct {
	db *sqlite.DB

	// now is swappable for tests; IDs are time-derived.
	now func() time.Time
}

// NewBookmarkStore creates a BookmarkStore on the given database.
func NewBookmarkStore(db *sqlite.DB) *BookmarkStore {
	return &BookmarkStore{db: db, now: time.Now}
}

func bookmarksKey(alias string) string {
	return "bookmarks." + alias
}

// List returns the bookmarks for an alias in insertion order.
func (s *BookmarkStore) List(ctx context.Context, alias string) ([]Bookmark, error) {
	raw, ok, err := s.db.Get(ctx, bookmarksKey(alias))
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var bookmarks []Bookmark
	if err := json.Unmarshal([]byte(raw), &bookmarks); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks: %w", err)
	}
	return bookmarks, nil
}

// Add saves a new bookmark. The name is trimmed; empty names are rejected
// and duplicates within the alias's set fail with DuplicateNameError.
func (s *BookmarkStore) Add(ctx context.Context, alias, name, query string) (Bookmark, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Bookmark{}, fmt.Errorf("bookmark name cannot be empty")
	}

	bookmarks, err := s.List(ctx, alias)
	if err != nil {
		return Bookmark{}, err
	}
	for _, b := range bookmarks {
		if b.Name == name {
			return Bookmark{}, &DuplicateNameError{Name: name}
		}
	}

	bookmark := Bookmark{
		ID:              strconv.FormatInt(s.now().UnixNano(), 10),
		ConnectionAlias: alias,
		Name:            name,
		Query:           query,
	}
	bookmarks = append(bookmarks, bookmark)
	if err := s.write(ctx, alias, bookmarks); err != nil {
		return Bookmark{}, err
	}
	return bookmark, nil
}

// Rename changes the name of the bookmark with the given ID. A missing ID
// is a silent no-op; a name collision fails with DuplicateNameError.
func (s *BookmarkStore) Rename(ctx context.Context, alias, id, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("bookmark name cannot be empty")
	}

	bookmarks, err := s.List(ctx, alias)
	if err != nil {
		return err
	}

	index := -1
	for i, b := range bookmarks {
		if b.ID == id {
			index = i
		} else if b.Name == newName {
			return &DuplicateNameError{Name: newName}
		}
	}
	if index == -1 {
		return nil
	}
	if bookmarks[index].Name == newName {
		return nil
	}

	bookmarks[index].Name = newName
	return s.write(ctx, alias, bookmarks)
}

// Remove deletes the bookmark with the given ID. A missing ID is a silent
// no-op.
func (s *BookmarkStore) Remove(ctx context.Context, alias, id string) error {
	bookmarks, err := s.List(ctx, alias)
	if err != nil {
		return err
	}

	kept := bookmarks[:0]
	for _, b := range bookmarks {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(bookmarks) {
		return nil
	}
	return s.write(ctx, alias, kept)
}

// RemoveAll deletes the entire bookmark set for an alias. Called when the
// owning profile is deleted so a recycled alias starts clean.
func (s *BookmarkStore) RemoveAll(ctx context.Context, alias string) error {
	return s.db.Delete(ctx, bookmarksKey(alias))
}

func (s *BookmarkStore) write(ctx context.Context, alias string, bookmarks []Bookmark) error {
	data, err := json.Marshal(bookmarks)
	if err != nil {
		return fmt.Errorf("failed to encode bookmarks: %w", err)
	}
	if err := s.db.Put(ctx, bookmarksKey(alias), string(data)); err != nil {
		return fmt.Errorf("failed to write bookmarks: %w", err)
	}
	return nil
}
