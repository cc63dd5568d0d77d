package fixtures_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irvanherz/entityorm/compose"
	"github.com/irvanherz/entityorm/internal/fixtures"
	"github.com/irvanherz/entityorm/query"
	"github.com/irvanherz/entityorm/schema"
)

func userType(t *testing.T) reflect.Type {
	t.Helper()

	typ, err := schema.TypeOf(&fixtures.User{})
	require.NoError(t, err)

	return typ
}

func TestEndToEndScenario1FilterOnRegisteredUser(t *testing.T) {
	ops := []query.Operation{
		query.FilterOp{Predicate: query.Callback{Source: `u => u.id > 10`}},
	}

	cq, err := compose.Compile(schema.Default, userType(t), ops, nil)
	require.NoError(t, err)
	assert.Contains(t, cq.Sql, `WHERE ("___t`)
	assert.Contains(t, cq.Sql, `FROM "users" AS "___t`)
	assert.Contains(t, cq.Columns, "id")
	assert.Contains(t, cq.Columns, "fullName")
}

func TestEndToEndScenario3NullComparisonOnDeclaredColumn(t *testing.T) {
	ops := []query.Operation{
		query.FilterOp{Predicate: query.Callback{Source: `u => u.deletedAt == null`}},
	}

	cq, err := compose.Compile(schema.Default, userType(t), ops, nil)
	require.NoError(t, err)
	assert.Contains(t, cq.Sql, `"deleted_at" IS NULL`)
}

func TestEndToEndScenario7IncludeCoursesWithNestedMap(t *testing.T) {
	ops := []query.Operation{
		query.IncludeOp{Relation: "courses"},
		query.MapOp{Projection: query.Callback{
			Source: `u => ({ id: u.id, c: u.courses.map(c => ({ cid: c.id })) })`,
		}},
	}

	cq, err := compose.Compile(schema.Default, userType(t), ops, nil)
	require.NoError(t, err)
	assert.Contains(t, cq.Sql, `JOIN "courses"`)
	assert.Equal(t, []string{"id", "c.cid"}, cq.Columns)
}

type recordingEngine struct {
	lastState query.State
}

func (r *recordingEngine) ToArray(_ context.Context, state query.State) ([]map[string]any, error) {
	r.lastState = state

	return nil, nil
}

func (r *recordingEngine) First(_ context.Context, state query.State) (map[string]any, error) {
	r.lastState = state

	return nil, nil
}

func (r *recordingEngine) Count(_ context.Context, state query.State) (int, error) {
	r.lastState = state

	return 0, nil
}

func TestEndToEndCountDelegatesFilteredStateToEngine(t *testing.T) {
	eng := &recordingEngine{}
	q := query.New[fixtures.User](eng).Filter(`u => u.id > 1`)

	_, err := q.Count(context.Background())
	require.NoError(t, err)
	assert.Len(t, eng.lastState.Operations, 1)
}
