package expr

import (
	"fmt"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/token"
)

func (c *ctx) translateBinary(n *ast.BinaryExpression) (string, error) {
	switch n.Operator {
	case token.LogicalAnd, token.LogicalOr:
		left, err := c.translate(n.Left)
		if err != nil {
			return "", err
		}

		right, err := c.translate(n.Right)
		if err != nil {
			return "", err
		}

		op := "AND"
		if n.Operator == token.LogicalOr {
			op = "OR"
		}

		return fmt.Sprintf("(%s %s %s)", left, op, right), nil

	case token.Equal, token.StrictEqual:
		return c.translateEquality(n, "=", "IS NULL")

	case token.NotEqual, token.StrictNotEqual:
		return c.translateEquality(n, "<>", "IS NOT NULL")

	case token.Less, token.LessOrEqual, token.Greater, token.GreaterOrEqual:
		left, err := c.translate(n.Left)
		if err != nil {
			return "", err
		}

		right, err := c.translate(n.Right)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%s %s %s", left, comparisonOperatorText(n.Operator), right), nil

	case token.Minus, token.Multiply, token.Slash, token.Modulus:
		left, err := c.translate(n.Left)
		if err != nil {
			return "", err
		}

		right, err := c.translate(n.Right)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("(%s %s %s)", left, arithmeticOperatorText(n.Operator), right), nil

	case token.Plus:
		return c.translatePlus(n)

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOperator, n.Operator.String())
	}
}

// translatePlus implements the spec's literal-literal-only numeric
// recognition: only when both operands are numeric literals does `+` emit
// arithmetic; any other operand shape falls back to string concatenation.
func (c *ctx) translatePlus(n *ast.BinaryExpression) (string, error) {
	left, err := c.translate(n.Left)
	if err != nil {
		return "", err
	}

	right, err := c.translate(n.Right)
	if err != nil {
		return "", err
	}

	if isNumericLiteral(n.Left) && isNumericLiteral(n.Right) {
		return fmt.Sprintf("(%s) + (%s)", left, right), nil
	}

	return fmt.Sprintf("(%s)::text || (%s)::text", left, right), nil
}

func (c *ctx) translateEquality(n *ast.BinaryExpression, op, nullOp string) (string, error) {
	if _, ok := n.Right.(*ast.NullLiteral); ok {
		left, err := c.translate(n.Left)
		if err != nil {
			return "", err
		}

		return left + " " + nullOp, nil
	}

	if _, ok := n.Left.(*ast.NullLiteral); ok {
		right, err := c.translate(n.Right)
		if err != nil {
			return "", err
		}

		return right + " " + nullOp, nil
	}

	left, err := c.translate(n.Left)
	if err != nil {
		return "", err
	}

	right, err := c.translate(n.Right)
	if err != nil {
		return "", err
	}

	return left + " " + op + " " + right, nil
}

func comparisonOperatorText(t token.Token) string {
	switch t {
	case token.Less:
		return "<"
	case token.LessOrEqual:
		return "<="
	case token.Greater:
		return ">"
	case token.GreaterOrEqual:
		return ">="
	default:
		return t.String()
	}
}

func arithmeticOperatorText(t token.Token) string {
	switch t {
	case token.Minus:
		return "-"
	case token.Multiply:
		return "*"
	case token.Slash:
		return "/"
	case token.Modulus:
		return "%"
	default:
		return t.String()
	}
}
