package compose

import "errors"

var (
	// ErrIncludeAfterProjection is returned when include() is attempted after
	// a map has already collapsed the projection, or in any layered group
	// beyond the first.
	ErrIncludeAfterProjection = errors.New("include is not permitted after a projection has collapsed the entity")
	// ErrEmptyProjection is returned when a group's projection has no fields.
	ErrEmptyProjection = errors.New("projection has no fields")
)
