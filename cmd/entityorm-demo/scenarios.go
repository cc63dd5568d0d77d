package main

import (
	"reflect"

	"github.com/irvanherz/entityorm/internal/fixtures"
	"github.com/irvanherz/entityorm/query"
	"github.com/irvanherz/entityorm/schema"
)

// scenario names one end-to-end compilation from SPEC_FULL.md §8 the demo
// CLI can reproduce without a live database.
type scenario struct {
	name        string
	description string
	entityType  reflect.Type
	operations  []query.Operation
	scope       query.Scope
}

func userType() reflect.Type {
	t, err := schema.TypeOf(&fixtures.User{})
	if err != nil {
		panic(err)
	}

	return t
}

func scenarios() []scenario {
	return []scenario{
		{
			name:        "filter",
			description: "filter users by id",
			entityType:  userType(),
			operations: []query.Operation{
				query.FilterOp{Predicate: query.Callback{Source: `u => u.id > 10`}},
			},
		},
		{
			name:        "starts-with",
			description: "filter users whose username starts with A",
			entityType:  userType(),
			operations: []query.Operation{
				query.FilterOp{Predicate: query.Callback{Source: `u => u.username.startsWith('A')`}},
			},
		},
		{
			name:        "map-arithmetic",
			description: "project id and an arithmetic expression over it",
			entityType:  userType(),
			operations: []query.Operation{
				query.MapOp{Projection: query.Callback{Source: `u => ({ id: u.id, idx: u.id * 8 })`}},
			},
		},
		{
			name:        "scoped-map",
			description: "project an expression referencing a scope value",
			entityType:  userType(),
			scope:       query.Scope{"foo": 1},
			operations: []query.Operation{
				query.MapOp{Projection: query.Callback{Source: `u => ({ id: u.id, z: u.id * foo })`}},
			},
		},
		{
			name:        "layered-pagination",
			description: "a map following a skip promotes the earlier group into a sub-select",
			entityType:  userType(),
			operations: []query.Operation{
				query.SkipOp{Count: 5},
				query.MapOp{Projection: query.Callback{Source: `u => ({ id: u.id * 8 })`}},
				query.SkipOp{Count: 5},
			},
		},
		{
			name:        "include-nested-map",
			description: "include the courses relation and re-project it through a nested map",
			entityType:  userType(),
			operations: []query.Operation{
				query.IncludeOp{Relation: "courses"},
				query.MapOp{Projection: query.Callback{
					Source: `u => ({ id: u.id, c: u.courses.map(c => ({ cid: c.id })) })`,
				}},
			},
		},
	}
}
