package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irvanherz/entityorm/expr"
	"github.com/irvanherz/entityorm/query"
)

func identityResolver(known map[string]string) expr.AliasResolver {
	return func(path string) (string, bool) {
		sql, ok := known[path]

		return sql, ok
	}
}

func TestTranslateSimpleComparison(t *testing.T) {
	resolve := identityResolver(map[string]string{"age": `"u"."age"`})

	sql, err := expr.Translate(`u => u.age > 18`, resolve, nil)
	require.NoError(t, err)
	assert.Equal(t, `"u"."age" > 18`, sql)
}

func TestTranslateLogicalAnd(t *testing.T) {
	resolve := identityResolver(map[string]string{
		"age":    `"u"."age"`,
		"active": `"u"."active"`,
	})

	sql, err := expr.Translate(`u => u.age > 18 && u.active == true`, resolve, nil)
	require.NoError(t, err)
	assert.Equal(t, `("u"."age" > 18 AND "u"."active" = TRUE)`, sql)
}

func TestTranslateNullComparisonRewritesToIsNull(t *testing.T) {
	resolve := identityResolver(map[string]string{"deletedAt": `"u"."deleted_at"`})

	sql, err := expr.Translate(`u => u.deletedAt == null`, resolve, nil)
	require.NoError(t, err)
	assert.Equal(t, `"u"."deleted_at" IS NULL`, sql)
}

func TestTranslateScopeValueInlinesLiteral(t *testing.T) {
	resolve := identityResolver(map[string]string{"name": `"u"."name"`})
	scope := query.Scope{"minName": "Alice"}

	sql, err := expr.Translate(`u => u.name == minName`, resolve, scope)
	require.NoError(t, err)
	assert.Equal(t, `"u"."name" = 'Alice'`, sql)
}

func TestTranslateUnresolvedPathErrors(t *testing.T) {
	resolve := identityResolver(map[string]string{})

	_, err := expr.Translate(`u => u.ghost == 1`, resolve, nil)
	require.ErrorIs(t, err, expr.ErrUnresolvedPath)
}

func TestTranslateStringMethods(t *testing.T) {
	resolve := identityResolver(map[string]string{"name": `"u"."name"`})

	sql, err := expr.Translate(`u => u.name.toLowerCase() == "bob"`, resolve, nil)
	require.NoError(t, err)
	assert.Equal(t, `LOWER("u"."name") = 'bob'`, sql)
}

func TestTranslateIncludesOnArray(t *testing.T) {
	resolve := identityResolver(map[string]string{"status": `"u"."status"`})

	sql, err := expr.Translate(`u => ["a","b"].includes(u.status)`, resolve, nil)
	require.NoError(t, err)
	assert.Equal(t, `"u"."status" = ANY(ARRAY['a', 'b'])`, sql)
}

func TestTranslateIncludesOnString(t *testing.T) {
	resolve := identityResolver(map[string]string{"name": `"u"."name"`})

	sql, err := expr.Translate(`u => u.name.includes("bob")`, resolve, nil)
	require.NoError(t, err)
	assert.Equal(t, `"u"."name" LIKE '%bob%'`, sql)
}

func TestTranslateStartsWithResolvesScopeValuePattern(t *testing.T) {
	resolve := identityResolver(map[string]string{"name": `"u"."name"`})
	scope := query.Scope{"prefix": "A"}

	sql, err := expr.Translate(`u => u.name.startsWith(prefix)`, resolve, scope)
	require.NoError(t, err)
	assert.Equal(t, `"u"."name" LIKE 'A%'`, sql)
}

func TestTranslateReplaceResolvesScopeValueArguments(t *testing.T) {
	resolve := identityResolver(map[string]string{"name": `"u"."name"`})
	scope := query.Scope{"from": "a", "to": "b"}

	sql, err := expr.Translate(`u => u.name.replace(from, to)`, resolve, scope)
	require.NoError(t, err)
	assert.Equal(t, `REPLACE("u"."name", 'a', 'b')`, sql)
}

func TestTranslateDatePartExtraction(t *testing.T) {
	resolve := identityResolver(map[string]string{"createdAt": `"u"."created_at"`})

	sql, err := expr.Translate(`u => u.createdAt.getFullYear() == 2024`, resolve, nil)
	require.NoError(t, err)
	assert.Equal(t, `EXTRACT(YEAR FROM "u"."created_at") = 2024`, sql)
}

func TestTranslatePlusArithmeticOnlyForLiteralLiteral(t *testing.T) {
	resolve := identityResolver(map[string]string{"score": `"u"."score"`})

	sql, err := expr.Translate(`u => u.score == 1 + 2`, resolve, nil)
	require.NoError(t, err)
	assert.Equal(t, `"u"."score" = (1) + (2)`, sql)
}

func TestTranslatePlusConcatenatesWhenNotBothLiterals(t *testing.T) {
	resolve := identityResolver(map[string]string{
		"firstName": `"u"."first_name"`,
		"lastName":  `"u"."last_name"`,
	})

	sql, err := expr.Translate(`u => u.firstName + u.lastName`, resolve, nil)
	require.NoError(t, err)
	assert.Equal(t, `("u"."first_name")::text || ("u"."last_name")::text`, sql)
}

func TestTranslateProjectionFlatObject(t *testing.T) {
	resolve := identityResolver(map[string]string{
		"id":   `"u"."id"`,
		"name": `"u"."name"`,
	})

	fields, err := expr.TranslateProjection(`u => ({ id: u.id, fullName: u.name })`, resolve, nil)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, expr.ProjectionField{Alias: "id", Sql: `"u"."id"`}, fields[0])
	assert.Equal(t, expr.ProjectionField{Alias: "fullName", Sql: `"u"."name"`}, fields[1])
}

// TestTranslateProjectionNestedMap covers the spec's scenario 7: a to-many
// relation re-projected through its own map() callback inside the outer
// projection produces dot-prefixed aliases for the inner fields.
func TestTranslateProjectionNestedMap(t *testing.T) {
	resolve := identityResolver(map[string]string{
		"id":           `"s"."id"`,
		"courses.cid":  `"c"."id"`,
		"courses.name": `"c"."name"`,
	})

	fields, err := expr.TranslateProjection(
		`s => ({ id: s.id, courses: s.courses.map(c => ({ cid: c.cid, name: c.name })) })`,
		resolve,
		nil,
	)
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, expr.ProjectionField{Alias: "id", Sql: `"s"."id"`}, fields[0])
	assert.Equal(t, expr.ProjectionField{Alias: "courses.cid", Sql: `"c"."id"`}, fields[1])
	assert.Equal(t, expr.ProjectionField{Alias: "courses.name", Sql: `"c"."name"`}, fields[2])
}

func TestTranslateProjectionRejectsNonObjectBody(t *testing.T) {
	resolve := identityResolver(map[string]string{"id": `"u"."id"`})

	_, err := expr.TranslateProjection(`u => u.id`, resolve, nil)
	require.ErrorIs(t, err, expr.ErrNotProjection)
}

func TestTranslateInvalidCallbackShape(t *testing.T) {
	resolve := identityResolver(map[string]string{})

	_, err := expr.Translate(`(a, b) => a == b`, resolve, nil)
	require.ErrorIs(t, err, expr.ErrInvalidCallback)
}
