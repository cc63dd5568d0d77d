// Package expr implements C4, the expression translator: it turns the
// source text of a filter/map/order-by arrow-function callback into SQL
// fragments without ever evaluating the callback as JavaScript. Callback
// source is parsed once by goja's parser into an AST, and the AST is walked
// by hand to produce SQL text, mirroring the way this module's callers treat
// JS source as static configuration rather than runtime code.
package expr

import (
	"fmt"

	"github.com/dop251/goja/ast"

	"github.com/irvanherz/entityorm/query"
)

// AliasResolver resolves a dot-path rooted at the callback's parameter (for
// example "address.city") to the SQL text that reads that column, reporting
// whether the path is known. The query composer supplies one per layered
// group, reading that group's current projection aliases.
type AliasResolver func(path string) (sql string, ok bool)

// ProjectionField is a single `alias -> sql` pair produced by a map()
// callback's object-literal body.
type ProjectionField struct {
	Alias string
	Sql   string
}

type ctx struct {
	paramName string
	resolve   AliasResolver
	scope     query.Scope
}

// Translate compiles a filter/order-by callback's source text into a single
// SQL boolean or scalar expression.
func Translate(source string, resolve AliasResolver, scope query.Scope) (string, error) {
	paramName, body, err := parseSingleParamCallback(source)
	if err != nil {
		return "", err
	}

	c := &ctx{paramName: paramName, resolve: resolve, scope: scope}

	return c.translate(body)
}

// TranslateProjection compiles a map() callback's source text into the flat
// list of alias/SQL pairs its object-literal body describes, including
// dot-prefixed aliases produced by nested `<path>.map(...)` sub-projections.
func TranslateProjection(source string, resolve AliasResolver, scope query.Scope) ([]ProjectionField, error) {
	paramName, body, err := parseSingleParamCallback(source)
	if err != nil {
		return nil, err
	}

	obj, ok := body.(*ast.ObjectLiteral)
	if !ok {
		return nil, ErrNotProjection
	}

	c := &ctx{paramName: paramName, resolve: resolve, scope: scope}

	return c.extractMapping(obj, "")
}

func (c *ctx) translate(node ast.Expression) (string, error) {
	if path, rooted, ok := flattenPath(node, c.paramName); ok {
		if rooted {
			if sql, ok := c.resolve(path); ok {
				return sql, nil
			}

			return "", fmt.Errorf("%w: %s", ErrUnresolvedPath, path)
		}

		if value, ok := c.scope.Lookup(path); ok {
			return literalText(value)
		}

		if sql, ok := c.resolve(path); ok {
			return sql, nil
		}

		return "", fmt.Errorf("%w: %s", ErrUnresolvedPath, path)
	}

	switch n := node.(type) {
	case *ast.StringLiteral:
		return quoteStringLiteral(string(n.Value)), nil
	case *ast.NumberLiteral:
		return numberLiteralText(n), nil
	case *ast.BooleanLiteral:
		return boolLiteralText(n.Value), nil
	case *ast.NullLiteral:
		return "NULL", nil
	case *ast.BinaryExpression:
		return c.translateBinary(n)
	case *ast.UnaryExpression:
		return c.translateUnary(n)
	case *ast.CallExpression:
		return c.translateCall(n)
	case *ast.TemplateLiteral:
		return c.translateTemplate(n)
	case *ast.ArrayLiteral:
		return c.translateArray(n)
	case *ast.ParenthesizedExpression:
		inner, err := c.translate(n.Expression)
		if err != nil {
			return "", err
		}

		return "(" + inner + ")", nil
	default:
		return "", fmtUnsupportedNode(node)
	}
}

func (c *ctx) translateUnary(n *ast.UnaryExpression) (string, error) {
	operand, err := c.translate(n.Operand)
	if err != nil {
		return "", err
	}

	switch n.Operator.String() {
	case "!":
		return fmt.Sprintf("NOT (%s)", operand), nil
	case "-":
		return fmt.Sprintf("-(%s)", operand), nil
	default:
		return "", fmt.Errorf("%w: unary %s", ErrUnsupportedOperator, n.Operator.String())
	}
}

func (c *ctx) translateTemplate(n *ast.TemplateLiteral) (string, error) {
	parts := make([]string, 0, len(n.Elements)+len(n.Expressions))

	exprIdx := 0

	for i, el := range n.Elements {
		if el.Parsed != "" {
			parts = append(parts, fmt.Sprintf("(%s)::text", quoteStringLiteral(el.Parsed)))
		}

		if i < len(n.Elements)-1 && exprIdx < len(n.Expressions) {
			sql, err := c.translate(n.Expressions[exprIdx])
			if err != nil {
				return "", err
			}

			parts = append(parts, fmt.Sprintf("(%s)::text", sql))
			exprIdx++
		}
	}

	if len(parts) == 0 {
		return "''", nil
	}

	joined := parts[0]
	for _, p := range parts[1:] {
		joined += " || " + p
	}

	return joined, nil
}

func (c *ctx) translateArray(n *ast.ArrayLiteral) (string, error) {
	elements := make([]string, 0, len(n.Value))

	for _, el := range n.Value {
		sql, err := c.translate(el)
		if err != nil {
			return "", err
		}

		elements = append(elements, sql)
	}

	joined := ""
	for i, e := range elements {
		if i > 0 {
			joined += ", "
		}

		joined += e
	}

	return "ARRAY[" + joined + "]", nil
}

// flattenPath walks a chain of member-access nodes (identifier, `.prop`, and
// `["prop"]`) down to its root identifier, returning the dot-joined path
// with the root segment dropped when it is the callback's own parameter, and
// reporting whether the root was the parameter (rooted=true) or some other
// free identifier resolved against scope (rooted=false).
func flattenPath(node ast.Expression, paramName string) (path string, rooted bool, ok bool) {
	segments, root, ok := collectPathSegments(node)
	if !ok {
		return "", false, false
	}

	joined := joinSegments(segments)

	if root == paramName {
		return joined, true, true
	}

	full := root
	if joined != "" {
		full = root + "." + joined
	}

	return full, false, true
}

func collectPathSegments(node ast.Expression) (segments []string, root string, ok bool) {
	switch n := node.(type) {
	case *ast.Identifier:
		return nil, string(n.Name), true
	case *ast.DotExpression:
		inner, root, ok := collectPathSegments(n.Left)
		if !ok {
			return nil, "", false
		}

		return append(inner, string(n.Identifier.Name)), root, true
	case *ast.BracketExpression:
		key, ok := n.Member.(*ast.StringLiteral)
		if !ok {
			return nil, "", false
		}

		inner, root, ok := collectPathSegments(n.Left)
		if !ok {
			return nil, "", false
		}

		return append(inner, string(key.Value)), root, true
	default:
		return nil, "", false
	}
}

func joinSegments(segments []string) string {
	joined := ""
	for i, s := range segments {
		if i > 0 {
			joined += "."
		}

		joined += s
	}

	return joined
}

// extractMapping walks a map() callback's object-literal body, producing one
// ProjectionField per property. A property whose value is itself a
// `<path>.map(inner => ({...}))` call (scenario: projecting a to-many
// relation into a nested array of objects) recurses via extractNestedMap and
// contributes one field per inner property, prefixed with the outer key.
func (c *ctx) extractMapping(obj *ast.ObjectLiteral, prefix string) ([]ProjectionField, error) {
	fields := make([]ProjectionField, 0, len(obj.Value))

	for _, prop := range obj.Value {
		keyed, ok := prop.(*ast.PropertyKeyed)
		if !ok {
			return nil, fmt.Errorf("%w: unsupported object property", ErrNotProjection)
		}

		key, err := propertyKeyName(keyed.Key)
		if err != nil {
			return nil, err
		}

		alias := key
		if prefix != "" {
			alias = prefix + "." + key
		}

		if call, ok := keyed.Value.(*ast.CallExpression); ok {
			nested, handled, err := c.extractNestedMap(call, alias)
			if err != nil {
				return nil, err
			}

			if handled {
				fields = append(fields, nested...)

				continue
			}
		}

		sql, err := c.translate(keyed.Value)
		if err != nil {
			return nil, err
		}

		fields = append(fields, ProjectionField{Alias: alias, Sql: sql})
	}

	return fields, nil
}

// extractNestedMap recognizes `<path>.map(inner => ({...}))`: a relation
// path projected through its own map callback. The inner callback is
// translated with a resolver that prefixes every inner path with the outer
// relation path before delegating to the outer resolver, so inner field
// "cid" on relation "courses" resolves against the same alias set as the
// top-level "courses.cid" would.
func (c *ctx) extractNestedMap(call *ast.CallExpression, alias string) ([]ProjectionField, bool, error) {
	member, ok := call.Callee.(*ast.DotExpression)
	if !ok || string(member.Identifier.Name) != "map" {
		return nil, false, nil
	}

	relationPath, rooted, ok := flattenPath(member.Left, c.paramName)
	if !ok || !rooted {
		return nil, false, nil
	}

	if len(call.ArgumentList) != 1 {
		return nil, false, fmt.Errorf("%w: map takes exactly one callback", ErrNotProjection)
	}

	inner, ok := call.ArgumentList[0].(*ast.ArrowFunctionLiteral)
	if !ok {
		return nil, false, nil
	}

	innerParam, innerBody, err := arrowFunctionParts(inner)
	if err != nil {
		return nil, false, err
	}

	innerObj, ok := innerBody.(*ast.ObjectLiteral)
	if !ok {
		return nil, false, fmt.Errorf("%w: nested map body must be an object literal", ErrNotProjection)
	}

	innerCtx := &ctx{
		paramName: innerParam,
		scope:     c.scope,
		resolve: func(path string) (string, bool) {
			return c.resolve(relationPath + "." + path)
		},
	}

	fields, err := innerCtx.extractMapping(innerObj, alias)
	if err != nil {
		return nil, false, err
	}

	return fields, true, nil
}

func propertyKeyName(key ast.Expression) (string, error) {
	switch k := key.(type) {
	case *ast.Identifier:
		return string(k.Name), nil
	case *ast.StringLiteral:
		return string(k.Value), nil
	default:
		return "", fmt.Errorf("%w: unsupported property key", ErrNotProjection)
	}
}

// resolvePatternArg extracts the raw text of a pattern/replacement argument
// to a string method (startsWith/endsWith/includes/replace). A free
// identifier path resolves through the scope bag first, same as any other
// non-rooted identifier in the grammar; only once that fails does it fall
// back to treating the node as a literal.
func (c *ctx) resolvePatternArg(node ast.Expression) (string, error) {
	if path, rooted, ok := flattenPath(node, c.paramName); ok && !rooted {
		if value, ok := c.scope.Lookup(path); ok {
			return scopeValueText(value)
		}
	}

	return literalArgText(node)
}

func scopeValueText(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", v), nil
	default:
		return "", fmt.Errorf("%w: unsupported scope value type %T", ErrUnsupportedNode, value)
	}
}

func literalText(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return quoteStringLiteral(v), nil
	case bool:
		return boolLiteralText(v), nil
	case nil:
		return "NULL", nil
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", v), nil
	default:
		return "", fmt.Errorf("%w: unsupported scope value type %T", ErrUnsupportedNode, value)
	}
}

func fmtUnsupportedNode(node ast.Expression) error {
	return fmt.Errorf("%w: %T", ErrUnsupportedNode, node)
}
