package datasource

import "errors"

// ErrConnection is returned when the underlying pool fails to open or
// acquire a connection.
var ErrConnection = errors.New("failed to acquire a connection")
