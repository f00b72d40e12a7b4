package provider

// Registry maps backend kind tags to their adapters. It is constructed once
// at startup and handed to the application; registrations are not expected
// after that.
type Registry struct {
	providers map[Kind]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[Kind]Provider),
	}
}

// Register associates a provider by its kind tag, overwriting any previous
// registration for that tag.
func (r *Registry) Register(p Provider) {
	r.providers[p.Kind()] = p
}

// Resolve returns the provider for the given kind. Unknown kinds fall back
// to the PostgreSQL adapter: profiles persisted before the dbType field
// existed carry no tag and were always PostgreSQL. Resolve never fails;
// a registry with no PostgreSQL adapter is a startup bug.
func (r *Registry) Resolve(kind Kind) Provider {
	if p, ok := r.providers[kind]; ok {
		return p
	}
	return r.providers[KindPostgres]
}
