package schema

import "errors"

var (
	// ErrTableNotRegistered is returned when an entity is used as a query
	// root without ever having registered a table descriptor.
	ErrTableNotRegistered = errors.New("entity has no registered table descriptor")
	// ErrRelationNotRegistered is returned when include() names an unknown relation.
	ErrRelationNotRegistered = errors.New("entity has no registered relation with that name")
	// ErrNotStructPointer is returned when a registration call is not given
	// a pointer to a struct.
	ErrNotStructPointer = errors.New("entity must be a pointer to a struct")
	// ErrInvalidOptions is returned when column or relation options fail validation.
	ErrInvalidOptions = errors.New("invalid schema options")
)
