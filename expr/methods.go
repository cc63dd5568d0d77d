package expr

import (
	"fmt"

	"github.com/dop251/goja/ast"
)

// datePartByMethod maps JS Date getters to the SQL EXTRACT field they read.
// getMonth is zero-based in JS, so its caller subtracts one from the
// extracted value.
var datePartByMethod = map[string]string{
	"getFullYear": "YEAR",
	"getMonth":    "MONTH",
	"getDate":     "DAY",
	"getHours":    "HOUR",
	"getMinutes":  "MINUTE",
	"getSeconds":  "SECOND",
}

func (c *ctx) translateCall(n *ast.CallExpression) (string, error) {
	member, ok := n.Callee.(*ast.DotExpression)
	if !ok {
		return "", fmt.Errorf("%w: callee must be a member expression", ErrUnsupportedCall)
	}

	receiver, err := c.translate(member.Left)
	if err != nil {
		return "", err
	}

	method := string(member.Identifier.Name)

	if part, ok := datePartByMethod[method]; ok {
		if len(n.ArgumentList) != 0 {
			return "", fmt.Errorf("%w: %s takes no arguments", ErrUnsupportedCall, method)
		}

		extract := fmt.Sprintf("EXTRACT(%s FROM %s)", part, receiver)
		if method == "getMonth" {
			return fmt.Sprintf("(%s - 1)", extract), nil
		}

		return extract, nil
	}

	switch method {
	case "toLowerCase":
		return fmt.Sprintf("LOWER(%s)", receiver), nil
	case "toUpperCase":
		return fmt.Sprintf("UPPER(%s)", receiver), nil
	case "trim":
		return fmt.Sprintf("TRIM(%s)", receiver), nil
	case "toString":
		return fmt.Sprintf("CAST(%s AS TEXT)", receiver), nil
	case "toFixed":
		return c.translateToFixed(receiver, n.ArgumentList)
	case "substring":
		return c.translateSubstring(receiver, n.ArgumentList)
	case "startsWith":
		return c.translatePatternMatch(receiver, n.ArgumentList, patternPrefix)
	case "endsWith":
		return c.translatePatternMatch(receiver, n.ArgumentList, patternSuffix)
	case "includes":
		return c.translateIncludes(receiver, member.Left, n.ArgumentList)
	case "replace":
		return c.translateReplace(receiver, n.ArgumentList)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
}

func (c *ctx) translateToFixed(receiver string, args []ast.Expression) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: toFixed takes exactly one argument", ErrUnsupportedCall)
	}

	digits, err := c.translate(args[0])
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("ROUND(%s, %s)", receiver, digits), nil
}

func (c *ctx) translateSubstring(receiver string, args []ast.Expression) (string, error) {
	if len(args) < 1 || len(args) > 2 {
		return "", fmt.Errorf("%w: substring takes one or two arguments", ErrUnsupportedCall)
	}

	start, err := c.translate(args[0])
	if err != nil {
		return "", err
	}

	if len(args) == 1 {
		return fmt.Sprintf("SUBSTRING(%s FROM %s + 1)", receiver, start), nil
	}

	length, err := c.translate(args[1])
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("SUBSTRING(%s FROM %s + 1 FOR %s)", receiver, start, length), nil
}

type patternKind int

const (
	patternPrefix patternKind = iota
	patternSuffix
)

func (c *ctx) translatePatternMatch(receiver string, args []ast.Expression, kind patternKind) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: expects exactly one argument", ErrUnsupportedCall)
	}

	text, err := c.resolvePatternArg(args[0])
	if err != nil {
		return "", err
	}

	var pattern string

	switch kind {
	case patternPrefix:
		pattern = text + "%"
	case patternSuffix:
		pattern = "%" + text
	}

	return fmt.Sprintf("%s LIKE %s", receiver, quoteStringLiteral(pattern)), nil
}

// translateIncludes implements the spec's dual dispatch on the receiver's
// node shape: a literal array receiver compiles to `<needle> = ANY(ARRAY[...])`
// membership, anything else is treated as a string receiver and compiles to
// a `%needle%` LIKE pattern.
func (c *ctx) translateIncludes(receiver string, receiverNode ast.Expression, args []ast.Expression) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: includes takes exactly one argument", ErrUnsupportedCall)
	}

	if _, ok := receiverNode.(*ast.ArrayLiteral); ok {
		needle, err := c.translate(args[0])
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%s = ANY(%s)", needle, receiver), nil
	}

	text, err := c.resolvePatternArg(args[0])
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s LIKE %s", receiver, quoteStringLiteral("%"+text+"%")), nil
}

func (c *ctx) translateReplace(receiver string, args []ast.Expression) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: replace takes exactly two arguments", ErrUnsupportedCall)
	}

	from, err := c.resolvePatternArg(args[0])
	if err != nil {
		return "", err
	}

	to, err := c.resolvePatternArg(args[1])
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("REPLACE(%s, %s, %s)", receiver, quoteStringLiteral(from), quoteStringLiteral(to)), nil
}
