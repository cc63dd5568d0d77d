package query

import (
	"context"
	"reflect"

	"github.com/jinzhu/copier"

	"github.com/irvanherz/entityorm/schema"
)

// State is the snapshot a Queryable chain produces for the engine: the
// entity root type, the accumulated operation list in insertion order, and
// the external scope bag.
type State struct {
	EntityType reflect.Type
	Operations []Operation
	Scope      Scope
}

// Engine dispatches a compiled query state against the backend and
// rehydrates its result rows. Queryable's terminal methods delegate here;
// the concrete implementation lives in package engine.
type Engine interface {
	// ToArray executes state and returns every resulting row.
	ToArray(ctx context.Context, state State) ([]map[string]any, error)
	// First executes state with an implicit take(1) and returns the first
	// row, or nil if the result set is empty.
	First(ctx context.Context, state State) (map[string]any, error)
	// Count executes state and returns the number of resulting rows.
	Count(ctx context.Context, state State) (int, error)
}

// Queryable[T] is the immutable chain-accumulator builder. Every non-terminal
// method returns a fresh Queryable; the receiver is never mutated. T fixes
// the entity root's registered schema type across the whole chain.
type Queryable[T any] struct {
	state  State
	engine Engine
}

// New creates a Queryable rooted at entity T, dispatching terminal calls to engine.
func New[T any](engine Engine) Queryable[T] {
	var zero T

	t, err := schema.TypeOf(&zero)
	if err != nil {
		panic(err)
	}

	return Queryable[T]{
		state:  State{EntityType: t, Operations: nil, Scope: Scope{}},
		engine: engine,
	}
}

func (q Queryable[T]) clone() Queryable[T] {
	ops := make([]Operation, len(q.state.Operations))
	copy(ops, q.state.Operations)

	scopeCopy := Scope{}
	_ = copier.Copy(&scopeCopy, &q.state.Scope)
	// copier.Copy copies the map's entries into scopeCopy; the explicit
	// merge below copies them again into a fresh map, so the clone never
	// shares a map with the receiver whatever copier did (see DESIGN.md).
	scopeCopy = scopeCopy.Merge(q.state.Scope)

	return Queryable[T]{
		state:  State{EntityType: q.state.EntityType, Operations: ops, Scope: scopeCopy},
		engine: q.engine,
	}
}

func (q Queryable[T]) appended(op Operation) Queryable[T] {
	next := q.clone()
	next.state.Operations = append(next.state.Operations, op)

	return next
}

// Filter appends a WHERE conjunct. predicate is the arrow-function source of
// a single-parameter boolean-returning callback, e.g. `u => u.id > 10`.
func (q Queryable[T]) Filter(predicate string) Queryable[T] {
	return q.appended(FilterOp{Predicate: Callback{Source: predicate}})
}

// Map replaces the current set of output fields. projection is the
// arrow-function source of an object-returning callback.
func (q Queryable[T]) Map(projection string) Queryable[T] {
	return q.appended(MapOp{Projection: Callback{Source: projection}})
}

// Skip sets OFFSET.
func (q Queryable[T]) Skip(count int) Queryable[T] {
	return q.appended(SkipOp{Count: count})
}

// Take sets LIMIT.
func (q Queryable[T]) Take(count int) Queryable[T] {
	return q.appended(TakeOp{Count: count})
}

// OrderBy appends an ascending ORDER BY entry for selector, which may be
// either an arrow-function source or a bare field name (wrapped into a
// synthetic `x => x["name"]` selector).
func (q Queryable[T]) OrderBy(selector string) Queryable[T] {
	return q.appended(OrderOp{Selector: fieldOrSelector(selector), Direction: Asc})
}

// OrderByDescending appends a descending ORDER BY entry.
func (q Queryable[T]) OrderByDescending(selector string) Queryable[T] {
	return q.appended(OrderOp{Selector: fieldOrSelector(selector), Direction: Desc})
}

func fieldOrSelector(selector string) Callback {
	if isBareFieldName(selector) {
		return Callback{Source: "x => x[\"" + selector + "\"]"}
	}

	return Callback{Source: selector}
}

// isBareFieldName reports whether selector looks like a plain identifier
// rather than an arrow-function expression.
func isBareFieldName(selector string) bool {
	if selector == "" {
		return false
	}

	for i, r := range selector {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '$':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}

// Distinct sets DISTINCT on the SELECT.
func (q Queryable[T]) Distinct() Queryable[T] {
	return q.appended(DistinctOp{})
}

// Include adds a JOIN to relation and widens the projection with
// dot-prefixed columns.
func (q Queryable[T]) Include(relation string) Queryable[T] {
	return q.appended(IncludeOp{Relation: relation})
}

// WithScope shallow-merges bag into the query's scope; later calls win on
// key conflict.
func (q Queryable[T]) WithScope(bag Scope) Queryable[T] {
	next := q.clone()
	next.state.Scope = next.state.Scope.Merge(bag)

	return next
}

// GetState returns the chain's current snapshot.
func (q Queryable[T]) GetState() State {
	return q.state
}

// ToArray invokes the engine with the current snapshot and returns every row.
func (q Queryable[T]) ToArray(ctx context.Context) ([]map[string]any, error) {
	return q.engine.ToArray(ctx, q.state)
}

// First is equivalent to Take(1).ToArray()[0]; it returns nil if the result
// set is empty.
func (q Queryable[T]) First(ctx context.Context) (map[string]any, error) {
	return q.engine.First(ctx, q.state)
}

// Count is a materializing fallback: it runs ToArray and returns the row
// count (see SPEC_FULL.md §9, open question 2).
func (q Queryable[T]) Count(ctx context.Context) (int, error) {
	return q.engine.Count(ctx, q.state)
}
