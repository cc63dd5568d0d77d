// Package compose implements the query composer (C5): it consumes an
// entity type, an ordered operation list, and a scope bag, and emits a
// single CompiledQuery ready for execution. It reads C1 schema metadata and
// calls C4 per filter/projection/order callback, arranging the result into
// layered sub-SELECTs whenever a map follows pagination.
package compose

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/samber/lo"

	"github.com/irvanherz/entityorm/constants"
	"github.com/irvanherz/entityorm/expr"
	"github.com/irvanherz/entityorm/query"
	"github.com/irvanherz/entityorm/schema"
)

// CompiledQuery is the composer's output: SQL text ready for execution, its
// output column aliases in projection order, and a reserved parameter slot.
//
// Params is always empty: literal values from filters/scope are inlined
// directly into Sql rather than parameterized (a known SQL-injection
// hazard, see SPEC_FULL.md §9 item 1). A production composer would instead
// emit positional placeholders here and thread a matching param list
// through the translator.
type CompiledQuery struct {
	Sql     string
	Params  []any
	Columns []string
}

// field is one SELECT list entry: its output alias and the SQL expression
// that computes it.
type field struct {
	alias string
	sql   string
}

// Compile composes operations accumulated against entityType into a
// CompiledQuery, resolving schema metadata from reg.
func Compile(reg *schema.Registry, entityType reflect.Type, operations []query.Operation, scope query.Scope) (CompiledQuery, error) {
	groups := splitGroups(operations)

	c := &composer{reg: reg, scope: scope}

	var prev *groupResult

	for i, ops := range groups {
		rootType := entityType
		if i > 0 {
			rootType = nil
		}

		gr, err := c.buildGroup(rootType, prev, ops)
		if err != nil {
			return CompiledQuery{}, err
		}

		prev = gr
	}

	return CompiledQuery{Sql: prev.sql, Params: nil, Columns: prev.columns}, nil
}

type composer struct {
	reg          *schema.Registry
	scope        query.Scope
	aliasCounter int
	hasProjected bool
}

func (c *composer) nextAlias() string {
	alias := fmt.Sprintf("%s%d", constants.AliasPrefix, c.aliasCounter)
	c.aliasCounter++

	return alias
}

// groupResult is one layered group's compiled SELECT: its full SQL text and
// the ordered output aliases a subsequent group (or the rehydrator) can
// address it by.
type groupResult struct {
	sql     string
	columns []string
}

func (c *composer) buildGroup(rootType reflect.Type, prev *groupResult, ops []query.Operation) (*groupResult, error) {
	alias := c.nextAlias()

	var from string

	var projection []field

	if prev == nil {
		table, err := c.reg.GetTable(rootType)
		if err != nil {
			return nil, err
		}

		from = fmt.Sprintf(`"%s" AS "%s"`, table.TableName, alias)
		projection = seedProjectionFromColumns(c.reg.ListColumns(rootType), alias)
	} else {
		from = fmt.Sprintf(`(%s) AS "%s"`, prev.sql, alias)
		projection = seedProjectionFromPrevious(prev.columns, alias)
	}

	aliasIndex := make(map[string]string, len(projection))
	for _, f := range projection {
		aliasIndex[f.alias] = f.sql
	}

	resolver := expr.AliasResolver(func(path string) (string, bool) {
		sql, ok := aliasIndex[path]

		return sql, ok
	})

	var (
		joins      []string
		whereParts []string
		orderParts []string
		distinct   bool
		offset     *int
		limit      *int
	)

	for _, op := range ops {
		switch o := op.(type) {
		case query.FilterOp:
			sql, err := expr.Translate(o.Predicate.Source, resolver, c.scope)
			if err != nil {
				return nil, err
			}

			whereParts = append(whereParts, "("+sql+")")

		case query.OrderOp:
			sql, err := expr.Translate(o.Selector.Source, resolver, c.scope)
			if err != nil {
				return nil, err
			}

			orderParts = append(orderParts, sql+" "+orderDirectionSql(o.Direction))

		case query.DistinctOp:
			distinct = true

		case query.SkipOp:
			n := o.Count
			offset = &n

		case query.TakeOp:
			n := o.Count
			limit = &n

		case query.IncludeOp:
			if c.hasProjected || rootType == nil {
				return nil, fmt.Errorf("%w: relation %q", ErrIncludeAfterProjection, o.Relation)
			}

			joinSql, extra, err := c.buildInclude(rootType, alias, o.Relation)
			if err != nil {
				return nil, err
			}

			joins = append(joins, joinSql)
			projection = append(projection, extra...)

			for _, f := range extra {
				aliasIndex[f.alias] = f.sql
			}

		case query.MapOp:
			c.hasProjected = true

			fields, err := expr.TranslateProjection(o.Projection.Source, resolver, c.scope)
			if err != nil {
				return nil, err
			}

			projection = make([]field, 0, len(fields))
			for _, pf := range fields {
				projection = append(projection, field{alias: pf.Alias, sql: pf.Sql})
			}

			aliasIndex = make(map[string]string, len(projection))
			for _, f := range projection {
				aliasIndex[f.alias] = f.sql
			}

		default:
			return nil, fmt.Errorf("unsupported operation %T", op)
		}
	}

	if len(projection) == 0 {
		return nil, ErrEmptyProjection
	}

	return &groupResult{
		sql:     assembleSelect(distinct, projection, from, joins, whereParts, orderParts, offset, limit),
		columns: columnAliases(projection),
	}, nil
}

func (c *composer) buildInclude(rootType reflect.Type, rootAlias, relationName string) (string, []field, error) {
	relations := c.reg.GetRelations(rootType)

	rel, ok := relations[relationName]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", schema.ErrRelationNotRegistered, relationName)
	}

	targetType, err := schema.TypeOf(rel.Target())
	if err != nil {
		return "", nil, err
	}

	targetTable, err := c.reg.GetTable(targetType)
	if err != nil {
		return "", nil, err
	}

	joinAlias := c.nextAlias()

	joinSql := fmt.Sprintf(
		`%s JOIN "%s" AS "%s" ON "%s"."%s" = "%s"."%s"`,
		joinKindSql(rel.Options.JoinKind),
		targetTable.TableName,
		joinAlias,
		rootAlias,
		rel.Options.ForeignKey,
		joinAlias,
		rel.Options.PrincipalKey,
	)

	extra := lo.Map(c.reg.ListColumns(targetType), func(col *schema.ColumnDescriptor, _ int) field {
		return field{
			alias: relationName + constants.Dot + col.FieldName,
			sql:   fmt.Sprintf(`"%s"."%s"`, joinAlias, col.ColumnName),
		}
	})

	return joinSql, extra, nil
}

func seedProjectionFromColumns(columns []*schema.ColumnDescriptor, alias string) []field {
	return lo.Map(columns, func(col *schema.ColumnDescriptor, _ int) field {
		return field{
			alias: col.FieldName,
			sql:   fmt.Sprintf(`"%s"."%s"`, alias, col.ColumnName),
		}
	})
}

func seedProjectionFromPrevious(columns []string, alias string) []field {
	return lo.Map(columns, func(name string, _ int) field {
		return field{alias: name, sql: fmt.Sprintf(`"%s"."%s"`, alias, name)}
	})
}

func columnAliases(fields []field) []string {
	return lo.Map(fields, func(f field, _ int) string { return f.alias })
}

func orderDirectionSql(dir query.OrderDirection) string {
	if dir == query.Desc {
		return "DESC"
	}

	return "ASC"
}

func joinKindSql(kind schema.JoinKind) string {
	switch kind {
	case schema.JoinInner:
		return "INNER"
	case schema.JoinRight:
		return "RIGHT"
	default:
		return "LEFT"
	}
}

func assembleSelect(
	distinct bool,
	projection []field,
	from string,
	joins []string,
	whereParts []string,
	orderParts []string,
	offset, limit *int,
) string {
	var b strings.Builder

	b.WriteString("SELECT ")

	if distinct {
		b.WriteString("DISTINCT ")
	}

	for i, f := range projection {
		if i > 0 {
			b.WriteString(constants.CommaSpace)
		}

		fmt.Fprintf(&b, `%s AS "%s"`, f.sql, f.alias)
	}

	b.WriteString(" FROM ")
	b.WriteString(from)

	for _, j := range joins {
		b.WriteString(" ")
		b.WriteString(j)
	}

	if len(whereParts) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(whereParts, " AND "))
	}

	if len(orderParts) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(orderParts, constants.CommaSpace))
	}

	if offset != nil {
		fmt.Fprintf(&b, " OFFSET %d", *offset)
	}

	if limit != nil {
		fmt.Fprintf(&b, " LIMIT %d", *limit)
	}

	return b.String()
}
