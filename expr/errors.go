package expr

import "errors"

var (
	// ErrParse is returned when goja's parser rejects the callback source.
	ErrParse = errors.New("callback source is not valid JavaScript")
	// ErrInvalidCallback is returned when the callback is not a single-parameter
	// arrow function whose body is an expression or single-return block.
	ErrInvalidCallback = errors.New("callback must be a single-parameter arrow function")
	// ErrNotProjection is returned when a map() callback's body is not an object literal.
	ErrNotProjection = errors.New("projection callback body must be an object literal")
	// ErrUnresolvedPath is returned when an identifier path resolves neither
	// against the current projection nor against the scope bag.
	ErrUnresolvedPath = errors.New("unresolved identifier path")
	// ErrUnsupportedNode is returned for an AST node the translator does not handle.
	ErrUnsupportedNode = errors.New("unsupported expression node")
	// ErrUnsupportedOperator is returned for a binary/logical operator outside the mapping table.
	ErrUnsupportedOperator = errors.New("unsupported operator")
	// ErrUnsupportedCall is returned when a call expression is not a recognized method call.
	ErrUnsupportedCall = errors.New("unsupported call expression")
	// ErrUnsupportedMethod is returned for a method name outside the recognized method table.
	ErrUnsupportedMethod = errors.New("unsupported method call")
)
