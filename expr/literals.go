package expr

import (
	"strconv"
	"strings"

	"github.com/dop251/goja/ast"
)

// quoteStringLiteral single-quotes s for SQL, doubling embedded quotes.
func quoteStringLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func numberLiteralText(n *ast.NumberLiteral) string {
	if n.Literal != "" {
		return n.Literal
	}

	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func boolLiteralText(v bool) string {
	if v {
		return "TRUE"
	}

	return "FALSE"
}

func isNumericLiteral(node ast.Expression) bool {
	_, ok := node.(*ast.NumberLiteral)

	return ok
}

// literalArgText extracts the raw (unquoted) textual value of a literal
// argument node, for building LIKE patterns and REPLACE() arguments.
func literalArgText(node ast.Expression) (string, error) {
	switch v := node.(type) {
	case *ast.StringLiteral:
		return string(v.Value), nil
	case *ast.NumberLiteral:
		return numberLiteralText(v), nil
	default:
		return "", fmtUnsupportedNode(node)
	}
}
