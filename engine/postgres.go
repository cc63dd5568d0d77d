// Package engine implements C6: it dispatches a composer-compiled query to
// the backend under scoped connection acquisition and reconstructs nested
// row objects from the composer's dot-path column aliases.
package engine

import (
	"context"
	"fmt"

	"github.com/irvanherz/entityorm/compose"
	"github.com/irvanherz/entityorm/log"
	"github.com/irvanherz/entityorm/query"
	"github.com/irvanherz/entityorm/schema"
)

// PostgresEngine implements query.Engine against a PostgreSQL-dialect
// backend reached through an Acquirer (a connection-pool handle satisfying
// the scoped-acquisition contract in SPEC_FULL.md §6).
type PostgresEngine struct {
	reg      *schema.Registry
	acquirer Acquirer
	logger   log.Logger
}

// NewPostgresEngine builds a PostgresEngine reading entity metadata from reg
// and reaching the backend through acquirer.
func NewPostgresEngine(reg *schema.Registry, acquirer Acquirer) *PostgresEngine {
	return &PostgresEngine{reg: reg, acquirer: acquirer, logger: log.Named("engine")}
}

// ToArray compiles state and returns every resulting row.
func (e *PostgresEngine) ToArray(ctx context.Context, state query.State) ([]map[string]any, error) {
	cq, err := compose.Compile(e.reg, state.EntityType, state.Operations, state.Scope)
	if err != nil {
		return nil, err
	}

	e.logger.Debugf("executing compiled query: %s", cq.Sql)

	conn, release, err := e.acquirer.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	defer release()

	rows, err := conn.QueryContext(ctx, cq.Sql)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecution, err)
	}
	defer rows.Close()

	var out []map[string]any

	for rows.Next() {
		values := make([]any, len(cq.Columns))
		ptrs := make([]any, len(values))

		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExecution, err)
		}

		out = append(out, rehydrateRow(cq.Columns, values))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecution, err)
	}

	return out, nil
}

// First is equivalent to appending a take(1) to state and returning the
// first row, or nil if the result set is empty.
func (e *PostgresEngine) First(ctx context.Context, state query.State) (map[string]any, error) {
	limited := state
	limited.Operations = append(append([]query.Operation{}, state.Operations...), query.TakeOp{Count: 1})

	rows, err := e.ToArray(ctx, limited)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rows[0], nil
}

// Count is the materializing fallback recorded in SPEC_FULL.md §9 item 2:
// it runs ToArray and returns the row count, rather than emitting
// SELECT COUNT(*) FROM (<inner>).
func (e *PostgresEngine) Count(ctx context.Context, state query.State) (int, error) {
	rows, err := e.ToArray(ctx, state)
	if err != nil {
		return 0, err
	}

	return len(rows), nil
}
