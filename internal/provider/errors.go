package provider

import "fmt"

// ConnectionError reports a failed connect attempt: network, authentication,
// or timeout. The connection stays absent; nothing was leaked.
type ConnectionError struct {
	Kind Kind
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s connection failed: %v", e.Kind.DisplayName(), e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// IntrospectionError reports a failed metadata query against a live handle.
type IntrospectionError struct {
	Kind Kind
	Err  error
}

func (e *IntrospectionError) Error() string {
	return fmt.Sprintf("%s introspection failed: %v", e.Kind.DisplayName(), e.Err)
}

func (e *IntrospectionError) Unwrap() error { return e.Err }

// ExecutionError reports a failed query or command against a live handle.
// The session itself may still be healthy.
type ExecutionError struct {
	Kind Kind
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s execution failed: %v", e.Kind.DisplayName(), e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
