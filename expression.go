package pgrest

import (
	"strconv"
	"strings"

	"go.alis.build/pgrest/ordering"
)

// Param is a single key/value pair of a query string.
type Param struct {
	Key   string
	Value string
}

// Scope receives a fresh, empty Expression for a logical combinator and returns
// the Expression whose parameters form the group. Returning the argument after
// chaining is the usual pattern; a nil return uses the argument.
type Scope func(e *Expression) *Expression

// Expression accumulates query parameters for one resource, or for one nested
// logical scope when its name is empty.
//
// Parameters keep their insertion order and are never merged, so calling the
// same operator twice emits two parameters. An Expression is not safe for
// concurrent mutation.
type Expression struct {
	name   string
	params []Param
}

// Endpoint returns an empty Expression bound to the given resource name.
//
// Example:
//
//	pgrest.Endpoint("people").Property("age").GreaterThan(18).QueryString()
//	// "people?age=gt.18"
func Endpoint(name string) *Expression {
	return &Expression{
		name:   name,
		params: []Param{},
	}
}

// Name returns the resource name the Expression is bound to.
func (e *Expression) Name() string {
	return e.name
}

// Params returns a copy of the accumulated parameters in insertion order.
func (e *Expression) Params() []Param {
	return append([]Param(nil), e.params...)
}

// AddParam appends a raw parameter. It is the escape hatch for operators the
// builder does not model, such as full-text search or array containment.
func (e *Expression) AddParam(key, value string) *Expression {
	e.params = append(e.params, Param{Key: key, Value: value})
	return e
}

// Property returns the operators available for the named column.
func (e *Expression) Property(name string) *Property {
	return &Property{expr: e, name: name}
}

// Select appends the select parameter listing the given columns.
func (e *Expression) Select(props ...string) *Expression {
	return e.AddParam("select", strings.Join(props, ","))
}

// Limit appends the limit parameter.
func (e *Expression) Limit(n int) *Expression {
	return e.AddParam("limit", strconv.Itoa(n))
}

// Offset appends the offset parameter.
func (e *Expression) Offset(n int) *Expression {
	return e.AddParam("offset", strconv.Itoa(n))
}

// Order passes a fresh [ordering.Order] to fn and appends the serialized
// result as the order parameter.
//
// Example:
//
//	pgrest.Endpoint("t").Order(func(o *ordering.Order) *ordering.Order {
//	    return o.Property("a").Ascending().Property("a").NullsLast().Property("b").Descending()
//	})
//	// "t?order=a.asc.nullslast,b.desc"
func (e *Expression) Order(fn func(o *ordering.Order) *ordering.Order) *Expression {
	o := ordering.New()
	if result := fn(o); result != nil {
		o = result
	}
	return e.AddParam("order", o.String())
}

// And groups the parameters built by fn under the and key.
//
// Example:
//
//	pgrest.Endpoint("people").And(func(e *pgrest.Expression) *pgrest.Expression {
//	    return e.Property("age").GreaterThan(18).Property("age").LessThan(30)
//	})
//	// "people?and=(age.gt.18,age.lt.30)"
func (e *Expression) And(fn Scope) *Expression {
	return e.logical("and", fn)
}

// Or groups the parameters built by fn under the or key.
func (e *Expression) Or(fn Scope) *Expression {
	return e.logical("or", fn)
}

// Not returns the negated logical combinators of the Expression.
func (e *Expression) Not() *Negation {
	return &Negation{expr: e}
}

// logical builds a nested scope with fn and appends its fragment under key.
func (e *Expression) logical(key string, fn Scope) *Expression {
	scope := Endpoint("")
	if result := fn(scope); result != nil {
		scope = result
	}
	return e.AddParam(key, scope.Fragment())
}

// Negation exposes the not.and and not.or combinators of an [Expression].
type Negation struct {
	expr *Expression
}

// And groups the parameters built by fn under the not.and key.
func (n *Negation) And(fn Scope) *Expression {
	return n.expr.logical("not.and", fn)
}

// Or groups the parameters built by fn under the not.or key.
//
// Example:
//
//	pgrest.Endpoint("people").Not().Or(func(e *pgrest.Expression) *pgrest.Expression {
//	    return e.Property("id").In(1, 2)
//	})
//	// "people?not.or=(id.in.(1,2))"
func (n *Negation) Or(fn Scope) *Expression {
	return n.expr.logical("not.or", fn)
}

// QueryString serializes the Expression as "<name>?k1=v1&k2=v2".
// Without parameters the result is "<name>?".
func (e *Expression) QueryString() string {
	var sb strings.Builder
	sb.WriteString(e.name)
	sb.WriteByte('?')
	for i, p := range e.params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p.Key)
		sb.WriteByte('=')
		sb.WriteString(p.Value)
	}
	return sb.String()
}

// String returns [Expression.QueryString].
func (e *Expression) String() string {
	return e.QueryString()
}

// Fragment serializes the Expression as the value of a logical parameter:
// "(k1.v1,k2.v2)".
//
// The key and value of each parameter are dot-joined, except when the value
// itself opens a parenthesized group. There the ".(" boundary collapses to
// "(", so a nested and parameter renders as "and(...)" rather than
// "and.(...)". The collapse happens only at that boundary: ".(" inside a value
// is kept as written, so "in.(1,2)" and Equals("f.(x)") render unchanged. The
// resource name is ignored.
func (e *Expression) Fragment() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range e.params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.Key)
		if !strings.HasPrefix(p.Value, "(") {
			sb.WriteByte('.')
		}
		sb.WriteString(p.Value)
	}
	sb.WriteByte(')')
	return sb.String()
}
