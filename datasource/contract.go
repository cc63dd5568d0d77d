// Package datasource is the abstract boundary over a connection pool and a
// dialect-specific engine (C7). It is named only by its contract in the
// distilled specification; this package adds the one concrete PostgreSQL
// implementation the purpose statement calls for.
package datasource

import (
	"context"

	"github.com/irvanherz/entityorm/engine"
	"github.com/irvanherz/entityorm/query"
)

// DataSource exposes a dialect-specific engine and a connection-pool handle
// supporting scoped acquisition with guaranteed release.
type DataSource interface {
	// Engine returns the query.Engine Queryable terminal calls dispatch to.
	Engine() query.Engine
	// Acquire hands out a pooled connection; the release func must run on
	// every exit path.
	Acquire(ctx context.Context) (engine.Conn, func(), error)
}
