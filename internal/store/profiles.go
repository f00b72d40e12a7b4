// Package store persists connection profiles and bookmarks in the local
// string-keyed store.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/willibrandon/looseleaf/internal/provider"
	"github.com/willibrandon/looseleaf/internal/storage/sqlite"
)

// profilesKey is the fixed key holding the JSON array of all profiles.
const profilesKey = "connections"

// ProfileStore persists connection profiles. Aliases are unique at all
// times; writes that would violate that fail without a partial write.
type ProfileStore struct {
	db *sqlite.DB
}

// NewProfileStore creates a ProfileStore on the given database.
func NewProfileStore(db *sqlite.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// List returns all profiles in insertion order.
func (s *ProfileStore) List(ctx context.Context) ([]provider.Profile, error) {
	raw, ok, err := s.db.Get(ctx, profilesKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var profiles []provider.Profile
	if err := json.Unmarshal([]byte(raw), &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}

	// Entries persisted before the dbType field existed default to
	// PostgreSQL.
	for i := range profiles {
		if profiles[i].DBType == "" {
			profiles[i].DBType = provider.KindPostgres
		}
	}
	return profiles, nil
}

// Get returns the profile with the given alias.
func (s *ProfileStore) Get(ctx context.Context, alias string) (provider.Profile, error) {
	profiles, err := s.List(ctx)
	if err != nil {
		return provider.Profile{}, err
	}
	for _, p := range profiles {
		if p.Alias == alias {
			return p, nil
		}
	}
	return provider.Profile{}, &NotFoundError{Alias: alias}
}

// Add saves a new profile. An empty alias is replaced with the profile's
// default alias before the uniqueness check.
func (s *ProfileStore) Add(ctx context.Context, p provider.Profile) (provider.Profile, error) {
	if p.DBType == "" {
		p.DBType = provider.KindPostgres
	}
	if p.Alias == "" {
		p.Alias = p.DefaultAlias()
	}

	profiles, err := s.List(ctx)
	if err != nil {
		return provider.Profile{}, err
	}
	for _, existing := range profiles {
		if existing.Alias == p.Alias {
			return provider.Profile{}, &DuplicateAliasError{Alias: p.Alias}
		}
	}

	profiles = append(profiles, p)
	if err := s.write(ctx, profiles); err != nil {
		return provider.Profile{}, err
	}
	return p, nil
}

// Update replaces the profile identified by originalAlias. A missing target
// fails with NotFoundError before any collision check; a changed alias is
// then checked against every other profile, not itself.
func (s *ProfileStore) Update(ctx context.Context, originalAlias string, p provider.Profile) (provider.Profile, error) {
	if p.DBType == "" {
		p.DBType = provider.KindPostgres
	}
	if p.Alias == "" {
		p.Alias = p.DefaultAlias()
	}

	profiles, err := s.List(ctx)
	if err != nil {
		return provider.Profile{}, err
	}

	index := -1
	for i, existing := range profiles {
		if existing.Alias == originalAlias {
			index = i
			break
		}
	}
	if index == -1 {
		return provider.Profile{}, &NotFoundError{Alias: originalAlias}
	}
	for i, existing := range profiles {
		if i != index && existing.Alias == p.Alias {
			return provider.Profile{}, &DuplicateAliasError{Alias: p.Alias}
		}
	}

	profiles[index] = p
	if err := s.write(ctx, profiles); err != nil {
		return provider.Profile{}, err
	}
	return p, nil
}

// Remove deletes the profile with the given alias. Removing a missing alias
// is treated as already deleted. Session teardown is the caller's concern,
// coordinated at the orchestration layer.
func (s *ProfileStore) Remove(ctx context.Context, alias string) error {
	profiles, err := s.List(ctx)
	if err != nil {
		return err
	}

	kept := profiles[:0]
	for _, p := range profiles {
		if p.Alias != alias {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(profiles) {
		return nil
	}
	return s.write(ctx, kept)
}

func (s *ProfileStore) write(ctx context.Context, profiles []provider.Profile) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("failed to encode profiles: %w", err)
	}
	if err := s.db.Put(ctx, profilesKey, string(data)); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	return nil
}
