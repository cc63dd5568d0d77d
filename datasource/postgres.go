package datasource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/irvanherz/entityorm/engine"
	"github.com/irvanherz/entityorm/query"
	"github.com/irvanherz/entityorm/schema"
)

var _ DataSource = (*Postgres)(nil)

// Postgres is the DataSource implementation targeting PostgreSQL, the only
// dialect this compiler emits SQL for. It wraps bun's connection pool so
// "scoped acquisition with guaranteed release" is a plain db.Conn/conn.Close
// pair under a defer at the call site.
type Postgres struct {
	db  *bun.DB
	eng *engine.PostgresEngine
}

// Open builds a Postgres data source from a connection URL, wiring a
// PostgresEngine against reg that reads the pool through this data source's
// own Acquire method.
func Open(connURL string, reg *schema.Registry) (*Postgres, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(connURL)))
	db := bun.NewDB(sqldb, pgdialect.New())

	ds := &Postgres{db: db}
	ds.eng = engine.NewPostgresEngine(reg, ds)

	return ds, nil
}

// Engine returns the engine Queryable terminal calls dispatch to.
func (p *Postgres) Engine() query.Engine {
	return p.eng
}

// Acquire checks out one pooled connection. The returned release func
// closes it, returning it to the pool; callers must defer it immediately.
func (p *Postgres) Acquire(ctx context.Context) (engine.Conn, func(), error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	return conn, func() { _ = conn.Close() }, nil
}

// Close shuts down the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}
