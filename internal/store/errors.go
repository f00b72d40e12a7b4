package store

import "fmt"

// DuplicateAliasError reports an attempt to save a profile whose alias
// collides with an existing one. No partial write occurred.
type DuplicateAliasError struct {
	Alias string
}

func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("a connection named %q already exists", e.Alias)
}

// DuplicateNameError reports an attempt to save a bookmark whose name
// collides within the owning connection's bookmark set.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a bookmark named %q already exists for this connection", e.Name)
}

// NotFoundError reports a reference to a profile that no longer exists,
// typically a stale UI reference. User-recoverable, not a crash.
type NotFoundError struct {
	Alias string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("connection %q not found", e.Alias)
}
