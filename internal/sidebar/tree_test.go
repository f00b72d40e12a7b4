package sidebar

import (
	"testing"

	"github.com/willibrandon/looseleaf/internal/provider"
	"github.com/willibrandon/looseleaf/internal/store"
)

func noBookmarks(string) []store.Bookmark { return nil }

func TestBuild_InactiveConnection(t *testing.T) {
	profiles := []provider.Profile{
		{Alias: "prod", DBType: provider.KindPostgres, Host: "h", Port: 5432},
	}

	nodes := Build(profiles, nil, noBookmarks)
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if nodes[0].Label != "prod (PostgreSQL)" {
		t.Errorf("unexpected label %q", nodes[0].Label)
	}
	if nodes[0].Active {
		t.Error("expected inactive node")
	}
	if len(nodes[0].Children) != 0 {
		t.Errorf("inactive node should have no children, got %d", len(nodes[0].Children))
	}
}

func TestBuild_ActiveRelationalConnection(t *testing.T) {
	profiles := []provider.Profile{
		{Alias: "prod", DBType: provider.KindPostgres, Host: "h", Port: 5432},
	}
	active := map[string]provider.Metadata{
		"prod": {Kind: provider.KindPostgres, Tables: []string{"users", "orders"}},
	}

	nodes := Build(profiles, active, noBookmarks)
	if !nodes[0].Active {
		t.Fatal("expected active node")
	}
	if len(nodes[0].Children) != 2 {
		t.Fatalf("expected Tables and Bookmarks folders, got %d children", len(nodes[0].Children))
	}

	tables := nodes[0].Children[0]
	if tables.Label != "Tables" {
		t.Errorf("expected Tables folder first, got %q", tables.Label)
	}
	if len(tables.Children) != 2 {
		t.Fatalf("expected 2 table nodes, got %d", len(tables.Children))
	}
	// Order preserved from metadata.
	if tables.Children[0].Label != "users" || tables.Children[1].Label != "orders" {
		t.Errorf("unexpected table order: %q, %q",
			tables.Children[0].Label, tables.Children[1].Label)
	}
}

func TestBuild_ActiveKeyValueConnection(t *testing.T) {
	profiles := []provider.Profile{
		{Alias: "cache", DBType: provider.KindRedis, Host: "h", Port: 6379},
	}
	active := map[string]provider.Metadata{
		"cache": {Kind: provider.KindRedis},
	}

	nodes := Build(profiles, active, noBookmarks)
	if nodes[0].Label != "cache (Redis)" {
		t.Errorf("unexpected label %q", nodes[0].Label)
	}

	tables := nodes[0].Children[0]
	if len(tables.Children) != 0 {
		t.Errorf("key-value Tables folder should be empty, got %d", len(tables.Children))
	}
}

func TestBuild_BookmarkChildren(t *testing.T) {
	profiles := []provider.Profile{
		{Alias: "prod", DBType: provider.KindPostgres, Host: "h", Port: 5432},
	}
	active := map[string]provider.Metadata{
		"prod": {Kind: provider.KindPostgres},
	}
	bookmarksFor := func(alias string) []store.Bookmark {
		if alias != "prod" {
			t.Errorf("bookmarksFor called with unexpected alias %q", alias)
		}
		return []store.Bookmark{
			{ID: "1", ConnectionAlias: "prod", Name: "Q1", Query: "SELECT 1"},
		}
	}

	nodes := Build(profiles, active, bookmarksFor)
	bookmarks := nodes[0].Children[1]
	if bookmarks.Label != "Bookmarks" {
		t.Fatalf("expected Bookmarks folder, got %q", bookmarks.Label)
	}
	if len(bookmarks.Children) != 1 {
		t.Fatalf("expected 1 bookmark node, got %d", len(bookmarks.Children))
	}
	leaf := bookmarks.Children[0]
	if leaf.BookmarkID != "1" || leaf.Alias != "prod" || leaf.Label != "Q1" {
		t.Errorf("bookmark leaf missing identity: %+v", leaf)
	}
}

func TestFlatten(t *testing.T) {
	profiles := []provider.Profile{
		{Alias: "a", DBType: provider.KindPostgres, Host: "h", Port: 5432},
		{Alias: "b", DBType: provider.KindPostgres, Host: "h", Port: 5432},
	}
	active := map[string]provider.Metadata{
		"a": {Kind: provider.KindPostgres, Tables: []string{"t1"}},
	}

	flat := Flatten(Build(profiles, active, noBookmarks))

	// a, Tables, t1, Bookmarks, b
	wantLabels := []string{"a (PostgreSQL)", "Tables", "t1", "Bookmarks", "b (PostgreSQL)"}
	if len(flat) != len(wantLabels) {
		t.Fatalf("expected %d flat nodes, got %d", len(wantLabels), len(flat))
	}
	for i, want := range wantLabels {
		if flat[i].Label != want {
			t.Errorf("flat[%d] = %q, want %q", i, flat[i].Label, want)
		}
	}
}
