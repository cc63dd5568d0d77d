package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irvanherz/entityorm/query"
	"github.com/irvanherz/entityorm/schema"
)

type user struct {
	Id string
}

func init() {
	schema.RegisterTable(&user{}, schema.TableOptions{Name: "users"})
}

type fakeEngine struct {
	lastState query.State
}

func (f *fakeEngine) ToArray(_ context.Context, state query.State) ([]map[string]any, error) {
	f.lastState = state

	return nil, nil
}

func (f *fakeEngine) First(_ context.Context, state query.State) (map[string]any, error) {
	f.lastState = state

	return nil, nil
}

func (f *fakeEngine) Count(_ context.Context, state query.State) (int, error) {
	f.lastState = state

	return 0, nil
}

func TestChainMethodsDoNotMutateReceiver(t *testing.T) {
	base := query.New[user](&fakeEngine{})
	before := base.GetState()

	chained := base.Filter("u => u.id > 10")

	assert.Equal(t, before, base.GetState(), "receiver must stay unchanged")
	assert.NotEqual(t, before.Operations, chained.GetState().Operations)
}

func TestChainAccumulatesOperationsInOrder(t *testing.T) {
	q := query.New[user](&fakeEngine{}).
		Filter("u => u.id > 10").
		Skip(5).
		Take(20).
		OrderBy("id").
		Distinct()

	ops := q.GetState().Operations
	require.Len(t, ops, 5)
	assert.IsType(t, query.FilterOp{}, ops[0])
	assert.IsType(t, query.SkipOp{}, ops[1])
	assert.IsType(t, query.TakeOp{}, ops[2])
	assert.IsType(t, query.OrderOp{}, ops[3])
	assert.IsType(t, query.DistinctOp{}, ops[4])
}

func TestOrderByFieldNameSynthesizesSelector(t *testing.T) {
	q := query.New[user](&fakeEngine{}).OrderBy("id")

	op := q.GetState().Operations[0].(query.OrderOp)
	assert.Equal(t, `x => x["id"]`, op.Selector.Source)
	assert.Equal(t, query.Asc, op.Direction)
}

func TestWithScopeLaterCallWinsOnConflict(t *testing.T) {
	q := query.New[user](&fakeEngine{}).
		WithScope(query.Scope{"foo": 1}).
		WithScope(query.Scope{"foo": 2})

	v, ok := q.GetState().Scope.Lookup("foo")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestWithScopeDoesNotMutateEarlierBuilder(t *testing.T) {
	base := query.New[user](&fakeEngine{}).WithScope(query.Scope{"foo": 1})
	derived := base.WithScope(query.Scope{"foo": 2})

	baseVal, _ := base.GetState().Scope.Lookup("foo")
	derivedVal, _ := derived.GetState().Scope.Lookup("foo")
	assert.Equal(t, 1, baseVal)
	assert.Equal(t, 2, derivedVal)
}

func TestFirstDelegatesToEngineWithImplicitState(t *testing.T) {
	engine := &fakeEngine{}
	q := query.New[user](engine).Filter("u => u.id > 1")

	_, err := q.First(context.Background())
	require.NoError(t, err)
	assert.Len(t, engine.lastState.Operations, 1)
}
