package filtering

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"go.alis.build/alog"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"go.alis.build/pgrest"
)

// mirrored maps a comparison to its equivalent with swapped operands.
var mirrored = map[string]string{
	"_==_": "_==_",
	"_!=_": "_!=_",
	"_<_":  "_>_",
	"_<=_": "_>=_",
	"_>_":  "_<_",
	"_>=_": "_<=_",
}

// parseExpr recursively translates a CEL expression AST into parameters of e.
//
// Parameters:
//   - e: The scope receiving the parameters
//   - expression: The CEL expression AST node to translate
//   - negate: True when the expression sits under an odd number of ! operators
//
// Conjunctions are flattened into the current scope, disjunctions become an
// or group, and negated conjunctions and disjunctions become not.and and
// not.or groups. Every other expression must be a predicate on a column.
func (f *Parser) parseExpr(e *pgrest.Expression, expression *expr.Expr, negate bool) error {
	call := expression.GetCallExpr()
	if call == nil {
		return f.parsePredicate(e, expression, negate)
	}

	switch call.GetFunction() {
	case "!_":
		return f.parseExpr(e, call.GetArgs()[0], !negate)
	case "_&&_":
		if negate {
			var err error
			e.Not().And(func(scope *pgrest.Expression) *pgrest.Expression {
				err = f.parseExpr(scope, expression, false)
				return scope
			})
			return err
		}

		if err := f.parseExpr(e, call.GetArgs()[0], false); err != nil {
			return err
		}
		return f.parseExpr(e, call.GetArgs()[1], false)
	case "_||_":
		var err error
		group := func(scope *pgrest.Expression) *pgrest.Expression {
			err = f.parseDisjunction(scope, expression)
			return scope
		}
		if negate {
			e.Not().Or(group)
		} else {
			e.Or(group)
		}
		return err
	default:
		return f.parsePredicate(e, expression, negate)
	}
}

// parseDisjunction adds each operand of a chain of || to an or scope.
// Conjunctions inside the chain are wrapped in a nested and group, since the
// or scope would otherwise treat their operands as alternatives.
func (f *Parser) parseDisjunction(scope *pgrest.Expression, expression *expr.Expr) error {
	for _, operand := range flatten(expression, "_||_") {
		if operand.GetCallExpr().GetFunction() != "_&&_" {
			if err := f.parseExpr(scope, operand, false); err != nil {
				return err
			}
			continue
		}

		var err error
		scope.And(func(inner *pgrest.Expression) *pgrest.Expression {
			err = f.parseExpr(inner, operand, false)
			return inner
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// flatten returns the operands of a left- or right-nested chain of fn calls.
func flatten(expression *expr.Expr, fn string) []*expr.Expr {
	call := expression.GetCallExpr()
	if call == nil || call.GetFunction() != fn {
		return []*expr.Expr{expression}
	}

	var operands []*expr.Expr
	for _, arg := range call.GetArgs() {
		operands = append(operands, flatten(arg, fn)...)
	}
	return operands
}

// parsePredicate translates a single condition on a column.
//
// Supported forms:
//   - column <op> literal and literal <op> column, for ==, !=, <, <=, >, >=
//   - column in [literal, ...]
//   - like, ilike, match, imatch, prefix and suffix functions
//   - startsWith, endsWith, contains and matches member functions
//   - a bare column, compared with true
func (f *Parser) parsePredicate(e *pgrest.Expression, expression *expr.Expr, negate bool) error {
	if column, ok := f.parseColumn(expression); ok {
		f.property(e, column, negate).Is(true)
		return nil
	}

	call := expression.GetCallExpr()
	if call == nil {
		return fmt.Errorf("unsupported expression: %v", expression.GetExprKind())
	}

	switch fn := call.GetFunction(); fn {
	case "_==_", "_!=_", "_<_", "_<=_", "_>_", "_>=_":
		return f.parseComparison(e, fn, call.GetArgs(), negate)
	case "@in":
		column, ok := f.parseColumn(call.GetArgs()[0])
		if !ok {
			return fmt.Errorf("left side of IN must be a field")
		}

		list := call.GetArgs()[1].GetListExpr()
		if list == nil {
			return fmt.Errorf("right side of IN must be a list")
		}

		values := make([]any, 0, len(list.GetElements()))
		for _, elem := range list.GetElements() {
			value, err := f.parseLiteral(elem)
			if err != nil {
				return err
			}
			values = append(values, value)
		}
		f.property(e, column, negate).In(values...)
		return nil
	case "like", "LIKE", "ilike", "ILIKE", "match", "MATCH", "imatch", "IMATCH", "prefix", "PREFIX", "suffix", "SUFFIX":
		if call.GetTarget() != nil || len(call.GetArgs()) != 2 {
			return fmt.Errorf("%s function requires exactly 2 arguments", fn)
		}
		return f.parsePattern(e, strings.ToLower(fn), call.GetArgs()[0], call.GetArgs()[1], negate)
	case "startsWith", "endsWith", "contains", "matches":
		if call.GetTarget() == nil || len(call.GetArgs()) != 1 {
			return fmt.Errorf("%s must be called on a field with exactly 1 argument", fn)
		}
		return f.parsePattern(e, fn, call.GetTarget(), call.GetArgs()[0], negate)
	default:
		alog.Warnf(context.Background(), "unsupported function %s in filter", fn)
		return fmt.Errorf("unsupported function: %s", fn)
	}
}

// parseComparison translates a binary comparison. A literal on the left is
// moved to the right with the operator mirrored.
func (f *Parser) parseComparison(e *pgrest.Expression, fn string, args []*expr.Expr, negate bool) error {
	left, right := args[0], args[1]

	column, ok := f.parseColumn(left)
	if !ok {
		if column, ok = f.parseColumn(right); !ok {
			return fmt.Errorf("comparison %s requires a field operand", fn)
		}
		left, right, fn = right, left, mirrored[fn]
	}

	value, err := f.parseLiteral(right)
	if err != nil {
		return err
	}

	property := f.property(e, column, negate)
	switch fn {
	case "_==_":
		if isKeyword(value) {
			property.Is(value)
		} else {
			property.Equals(value)
		}
	case "_!=_":
		if isKeyword(value) {
			property.Not().Is(value)
		} else {
			property.Not().Equals(value)
		}
	case "_<_":
		property.LessThan(value)
	case "_<=_":
		property.LessThanOrEqual(value)
	case "_>_":
		property.GreaterThan(value)
	case "_>=_":
		property.GreaterThanOrEqual(value)
	}
	return nil
}

// parsePattern translates the pattern functions into like, ilike, match and imatch.
func (f *Parser) parsePattern(e *pgrest.Expression, fn string, field, pattern *expr.Expr, negate bool) error {
	column, ok := f.parseColumn(field)
	if !ok {
		return fmt.Errorf("%s requires a field as its subject", fn)
	}

	value, err := f.parseLiteral(pattern)
	if err != nil {
		return err
	}
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("%s requires a string pattern", fn)
	}

	property := f.property(e, column, negate)
	switch fn {
	case "like":
		property.Like(str)
	case "ilike":
		property.Insensitive().Like(str)
	case "match", "matches":
		property.Match(str)
	case "imatch":
		property.Insensitive().Match(str)
	case "prefix", "startsWith":
		property.Like(str + "*")
	case "suffix", "endsWith":
		property.Like("*" + str)
	case "contains":
		property.Like("*" + str + "*")
	}
	return nil
}

// property returns the operators of column, negated if requested.
func (f *Parser) property(e *pgrest.Expression, column string, negate bool) *pgrest.Property {
	property := e.Property(column)
	if negate {
		return property.Not()
	}
	return property
}

// parseColumn resolves an identifier or field selection (e.g. `author.name`)
// into a column name, applying the configured column options.
// It reports false if expression is not a field reference.
func (f *Parser) parseColumn(expression *expr.Expr) (string, bool) {
	path, ok := fieldPath(expression)
	if !ok {
		return "", false
	}

	if mapped, ok := f.options.ColumnMapping[path]; ok {
		return mapped, true
	}

	if f.options.SnakeCase {
		segments := strings.Split(path, ".")
		for i, s := range segments {
			segments[i] = strcase.ToSnake(s)
		}
		path = strings.Join(segments, ".")
	}

	if f.options.Reserved[path] {
		path = strconv.Quote(path)
	}

	return path, true
}

// fieldPath builds the dotted path of an identifier or nested field selection.
func fieldPath(expression *expr.Expr) (string, bool) {
	switch kind := expression.GetExprKind().(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.GetName(), true
	case *expr.Expr_SelectExpr:
		// has(a.b)
		if kind.SelectExpr.GetTestOnly() {
			return "", false
		}
		operand, ok := fieldPath(kind.SelectExpr.GetOperand())
		if !ok {
			return "", false
		}
		return operand + "." + kind.SelectExpr.GetField(), true
	default:
		return "", false
	}
}

// parseLiteral extracts the value of a constant or of a conversion function.
//
// Supported constant types:
//   - StringValue, BoolValue, Int64Value, Uint64Value: Returned as is
//   - DoubleValue: Returns the shortest decimal string, never in exponent form
//   - BytesValue: Returns base64-encoded string
//   - NullValue: Returns nil
//
// Supported functions:
//   - timestamp('2021-01-01T00:00:00Z'): RFC 3339 string, validated
//   - duration('1h'): ISO 8601 duration in seconds (PT3600S)
//   - date('2021-01-01'): ISO 8601 date string, validated
func (f *Parser) parseLiteral(expression *expr.Expr) (any, error) {
	switch kind := expression.GetExprKind().(type) {
	case *expr.Expr_ConstExpr:
		return parseConstant(kind.ConstExpr)
	case *expr.Expr_CallExpr:
		call := kind.CallExpr
		if len(call.GetArgs()) != 1 {
			return nil, fmt.Errorf("unsupported value: %s", call.GetFunction())
		}
		arg := call.GetArgs()[0].GetConstExpr().GetStringValue()

		switch call.GetFunction() {
		case "timestamp", "TIMESTAMP":
			if _, err := time.Parse(time.RFC3339Nano, arg); err != nil {
				return nil, err
			}
			return arg, nil
		case "duration", "DURATION":
			duration, err := time.ParseDuration(arg)
			if err != nil {
				return nil, err
			}
			return "PT" + strconv.FormatFloat(duration.Seconds(), 'f', -1, 64) + "S", nil
		case "date", "DATE":
			if _, err := time.Parse(time.DateOnly, arg); err != nil {
				return nil, err
			}
			return arg, nil
		default:
			alog.Warnf(context.Background(), "unsupported value function %s in filter", call.GetFunction())
			return nil, fmt.Errorf("unsupported value: %s", call.GetFunction())
		}
	default:
		return nil, fmt.Errorf("expected a literal value, got %T", expression.GetExprKind())
	}
}

// parseConstant extracts the Go value from a CEL constant expression.
func parseConstant(constExpr *expr.Constant) (any, error) {
	switch constExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return constExpr.GetStringValue(), nil
	case *expr.Constant_BoolValue:
		return constExpr.GetBoolValue(), nil
	case *expr.Constant_Int64Value:
		return constExpr.GetInt64Value(), nil
	case *expr.Constant_Uint64Value:
		return constExpr.GetUint64Value(), nil
	case *expr.Constant_DoubleValue:
		return strconv.FormatFloat(constExpr.GetDoubleValue(), 'f', -1, 64), nil
	case *expr.Constant_BytesValue:
		return base64.StdEncoding.EncodeToString(constExpr.GetBytesValue()), nil
	case *expr.Constant_NullValue:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported constant: %v", constExpr)
	}
}

// isKeyword reports whether value must be compared with is rather than eq.
func isKeyword(value any) bool {
	switch value.(type) {
	case nil, bool:
		return true
	default:
		return false
	}
}
