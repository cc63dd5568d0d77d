package engine

import "errors"

var (
	// ErrExecution wraps any error the backend surfaces while running a
	// compiled statement. Propagated unchanged beyond the wrap.
	ErrExecution = errors.New("query execution failed")
	// ErrConnection is returned when a pooled connection cannot be acquired.
	ErrConnection = errors.New("failed to acquire a connection")
)
