package provider

import (
	"testing"
	"time"
)

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	pg := NewPostgresProvider(time.Second)
	rd := NewRedisProvider(time.Second)
	r.Register(pg)
	r.Register(rd)

	if got := r.Resolve(KindPostgres); got != Provider(pg) {
		t.Errorf("Resolve(postgres) = %T", got)
	}
	if got := r.Resolve(KindRedis); got != Provider(rd) {
		t.Errorf("Resolve(redis) = %T", got)
	}
}

func TestRegistry_ResolveUnknownFallsBackToPostgres(t *testing.T) {
	r := NewRegistry()
	pg := NewPostgresProvider(time.Second)
	r.Register(pg)
	r.Register(NewRedisProvider(time.Second))

	// Profiles saved before the dbType field existed have an empty kind.
	if got := r.Resolve(Kind("")); got != Provider(pg) {
		t.Errorf("Resolve(\"\") = %T, want PostgreSQL adapter", got)
	}
	if got := r.Resolve(Kind("mongodb")); got != Provider(pg) {
		t.Errorf("Resolve(mongodb) = %T, want PostgreSQL adapter", got)
	}
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	first := NewRedisProvider(time.Second)
	second := NewRedisProvider(2 * time.Second)
	r.Register(first)
	r.Register(second)

	if got := r.Resolve(KindRedis); got != Provider(second) {
		t.Error("expected later registration to win")
	}
}
