package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRehydrateRowFlattensDotAliasesIntoNestedObjects(t *testing.T) {
	row := rehydrateRow([]string{"id", "c.cid", "c.name"}, []any{1, 2, "algebra"})

	assert.Equal(t, map[string]any{
		"id": 1,
		"c": map[string]any{
			"cid":  2,
			"name": "algebra",
		},
	}, row)
	assert.NotContains(t, row, "c.cid")
}

func TestRehydrateRowWithNoDotAliasesStaysFlat(t *testing.T) {
	row := rehydrateRow([]string{"id", "username"}, []any{1, "bob"})

	assert.Equal(t, map[string]any{"id": 1, "username": "bob"}, row)
}
