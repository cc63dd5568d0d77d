package expr

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
)

// parseSingleParamCallback parses source as a single-statement program
// holding exactly one arrow-function expression taking one positional
// parameter, and returns that parameter's name and the function's body
// expression (the single return argument for a block body, or the
// expression itself for a concise body).
//
// Parsing is delegated to goja's own parser/ast packages rather than a
// hand-rolled one: a filter/map/order callback's source text is ordinary
// JavaScript, so this reuses a real JS front end the same way the rest of
// this module's ecosystem does when it needs to read JS source statically.
func parseSingleParamCallback(source string) (string, ast.Expression, error) {
	program, err := goja.Parse("callback.js", source, parser.WithDisableSourceMaps)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if len(program.Body) != 1 {
		return "", nil, fmt.Errorf("%w: expected exactly one expression", ErrInvalidCallback)
	}

	stmt, ok := program.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return "", nil, fmt.Errorf("%w: expected an arrow function expression", ErrInvalidCallback)
	}

	arrow, ok := stmt.Expression.(*ast.ArrowFunctionLiteral)
	if !ok {
		return "", nil, fmt.Errorf("%w: expected an arrow function", ErrInvalidCallback)
	}

	return arrowFunctionParts(arrow)
}

func arrowFunctionParts(fn *ast.ArrowFunctionLiteral) (string, ast.Expression, error) {
	if fn.ParameterList == nil || len(fn.ParameterList.List) != 1 {
		return "", nil, fmt.Errorf("%w: callback must take exactly one parameter", ErrInvalidCallback)
	}

	ident, ok := fn.ParameterList.List[0].Target.(*ast.Identifier)
	if !ok {
		return "", nil, fmt.Errorf("%w: callback parameter must be a plain identifier", ErrInvalidCallback)
	}

	paramName := string(ident.Name)

	switch body := fn.Body.(type) {
	case *ast.BlockStatement:
		if len(body.List) != 1 {
			return "", nil, fmt.Errorf("%w: block body must contain a single return statement", ErrInvalidCallback)
		}

		ret, ok := body.List[0].(*ast.ReturnStatement)
		if !ok {
			return "", nil, fmt.Errorf("%w: block body must contain a single return statement", ErrInvalidCallback)
		}

		return paramName, ret.Argument, nil
	case ast.Expression:
		return paramName, body, nil
	default:
		return "", nil, fmt.Errorf("%w: unsupported callback body", ErrInvalidCallback)
	}
}
