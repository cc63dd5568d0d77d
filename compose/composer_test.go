package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irvanherz/entityorm/compose"
	"github.com/irvanherz/entityorm/query"
	"github.com/irvanherz/entityorm/schema"
)

type composerUser struct {
	Id        string
	Username  string
	FullName  string
	Role      string
	DeletedAt string
}

type composerCourse struct {
	Id   string
	Name string
}

func newTestRegistry() *schema.Registry {
	r := schema.NewRegistry()
	r.RegisterTable(&composerUser{}, schema.TableOptions{Name: "users"})
	r.RegisterColumn(&composerUser{}, "id", schema.ColumnOptions{})
	r.RegisterColumn(&composerUser{}, "username", schema.ColumnOptions{})
	r.RegisterColumn(&composerUser{}, "fullName", schema.ColumnOptions{Name: "full_name"})
	r.RegisterColumn(&composerUser{}, "role", schema.ColumnOptions{})

	r.RegisterTable(&composerCourse{}, schema.TableOptions{Name: "courses"})
	r.RegisterColumn(&composerCourse{}, "id", schema.ColumnOptions{})
	r.RegisterColumn(&composerCourse{}, "name", schema.ColumnOptions{})

	r.RegisterRelation(&composerUser{}, "courses", func() any { return &composerCourse{} }, schema.RelationOptions{
		ForeignKey:   "id",
		PrincipalKey: "user_id",
	})

	return r
}

// Scenario 1 from the spec: a single filter over the seeded root projection.
func TestComposeScenario1FilterOverSeedProjection(t *testing.T) {
	r := newTestRegistry()
	typ, _ := schema.TypeOf(&composerUser{})

	ops := []query.Operation{
		query.FilterOp{Predicate: query.Callback{Source: `u => u.id > 10`}},
	}

	cq, err := compose.Compile(r, typ, ops, nil)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "___t0"."id" AS "id", "___t0"."username" AS "username", "___t0"."full_name" AS "fullName", "___t0"."role" AS "role" FROM "users" AS "___t0" WHERE ("___t0"."id" > 10)`,
		cq.Sql,
	)
	assert.Equal(t, []string{"id", "username", "fullName", "role"}, cq.Columns)
}

func TestComposeScenario4MapProjectsArithmetic(t *testing.T) {
	r := newTestRegistry()
	typ, _ := schema.TypeOf(&composerUser{})

	ops := []query.Operation{
		query.MapOp{Projection: query.Callback{Source: `u => ({ id: u.id, idx: u.id * 8 })`}},
	}

	cq, err := compose.Compile(r, typ, ops, nil)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "___t0"."id" AS "id", ("___t0"."id" * 8) AS "idx" FROM "users" AS "___t0"`,
		cq.Sql,
	)
}

func TestComposeScenario5ScopeValueInlinedIntoMap(t *testing.T) {
	r := newTestRegistry()
	typ, _ := schema.TypeOf(&composerUser{})

	ops := []query.Operation{
		query.MapOp{Projection: query.Callback{Source: `u => ({ id: u.id, z: u.id * foo })`}},
	}

	cq, err := compose.Compile(r, typ, ops, query.Scope{"foo": 1})
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "___t0"."id" AS "id", ("___t0"."id" * 1) AS "z" FROM "users" AS "___t0"`,
		cq.Sql,
	)
}

// Scenario 6: a map preceded by skip promotes the earlier group into a
// sub-SELECT; the outer group applies its own skip.
func TestComposeScenario6LayeredGroupAfterSkipThenMap(t *testing.T) {
	r := newTestRegistry()
	typ, _ := schema.TypeOf(&composerUser{})

	ops := []query.Operation{
		query.SkipOp{Count: 5},
		query.MapOp{Projection: query.Callback{Source: `u => ({ id: u.id * 8 })`}},
		query.SkipOp{Count: 5},
	}

	cq, err := compose.Compile(r, typ, ops, nil)
	require.NoError(t, err)

	inner := `SELECT "___t0"."id" AS "id", "___t0"."username" AS "username", "___t0"."full_name" AS "fullName", "___t0"."role" AS "role" FROM "users" AS "___t0" OFFSET 5`
	outer := `SELECT ("___t1"."id" * 8) AS "id" FROM (` + inner + `) AS "___t1" OFFSET 5`
	assert.Equal(t, outer, cq.Sql)
}

// Scenario 7: include + a nested map produces dot-prefixed aliases for the
// relation's fields, sourced from the joined table.
func TestComposeScenario7IncludeWithNestedMap(t *testing.T) {
	r := newTestRegistry()
	typ, _ := schema.TypeOf(&composerUser{})

	ops := []query.Operation{
		query.IncludeOp{Relation: "courses"},
		query.MapOp{Projection: query.Callback{
			Source: `u => ({ id: u.id, c: u.courses.map(c => ({ cid: c.id })) })`,
		}},
	}

	cq, err := compose.Compile(r, typ, ops, nil)
	require.NoError(t, err)
	assert.Contains(t, cq.Sql, `LEFT JOIN "courses" AS "___t1" ON "___t0"."id" = "___t1"."user_id"`)
	assert.Contains(t, cq.Sql, `AS "c.cid"`)
	assert.Equal(t, []string{"id", "c.cid"}, cq.Columns)
}

func TestComposeIncludeAfterProjectionIsCompositionError(t *testing.T) {
	r := newTestRegistry()
	typ, _ := schema.TypeOf(&composerUser{})

	ops := []query.Operation{
		query.MapOp{Projection: query.Callback{Source: `u => ({ id: u.id })`}},
		query.IncludeOp{Relation: "courses"},
	}

	_, err := compose.Compile(r, typ, ops, nil)
	require.ErrorIs(t, err, compose.ErrIncludeAfterProjection)
}

func TestComposeUnknownRelationIsSchemaError(t *testing.T) {
	r := newTestRegistry()
	typ, _ := schema.TypeOf(&composerUser{})

	ops := []query.Operation{query.IncludeOp{Relation: "ghost"}}

	_, err := compose.Compile(r, typ, ops, nil)
	require.ErrorIs(t, err, schema.ErrRelationNotRegistered)
}

func TestComposeAliasesAreStableAcrossEqualCompilations(t *testing.T) {
	r := newTestRegistry()
	typ, _ := schema.TypeOf(&composerUser{})

	ops := []query.Operation{
		query.FilterOp{Predicate: query.Callback{Source: `u => u.id > 10`}},
	}

	first, err := compose.Compile(r, typ, ops, nil)
	require.NoError(t, err)
	second, err := compose.Compile(r, typ, ops, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Sql, second.Sql)
}
