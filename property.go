package pgrest

import (
	"fmt"
	"strings"
	"time"
)

// Opcodes of the comparison operators.
const (
	OpEqual              = "eq"
	OpGreaterThan        = "gt"
	OpGreaterThanOrEqual = "gte"
	OpLessThan           = "lt"
	OpLessThanOrEqual    = "lte"
	OpLike               = "like"
	OpMatch              = "match"
	OpILike              = "ilike"
	OpIMatch             = "imatch"
	OpIs                 = "is"
	OpIn                 = "in"
)

// negationPrefix is prepended to the opcode of negated operators.
const negationPrefix = "not."

// Property is a single-use handle exposing the operators of one column.
//
// Every operator appends one parameter to the owning [Expression] and
// returns it, so calls chain:
//
//	pgrest.Endpoint("people").
//	    Property("age").GreaterThanOrEqual(18).
//	    Property("name").Not().Like("A*")
//	// "people?age=gte.18&name=not.like.A*"
type Property struct {
	expr   *Expression
	name   string
	negate bool
}

// Not returns a handle whose operators are negated with the not. prefix.
// Calling Not on a negated handle removes the negation.
func (p *Property) Not() *Property {
	return &Property{expr: p.expr, name: p.name, negate: !p.negate}
}

// Insensitive returns the case-insensitive pattern operators of the column.
func (p *Property) Insensitive() *Insensitive {
	return &Insensitive{property: p}
}

// Equals appends name=eq.value.
func (p *Property) Equals(value any) *Expression {
	return p.apply(OpEqual, stringify(value))
}

// GreaterThan appends name=gt.value.
func (p *Property) GreaterThan(value any) *Expression {
	return p.apply(OpGreaterThan, stringify(value))
}

// GreaterThanOrEqual appends name=gte.value.
func (p *Property) GreaterThanOrEqual(value any) *Expression {
	return p.apply(OpGreaterThanOrEqual, stringify(value))
}

// LessThan appends name=lt.value.
func (p *Property) LessThan(value any) *Expression {
	return p.apply(OpLessThan, stringify(value))
}

// LessThanOrEqual appends name=lte.value.
func (p *Property) LessThanOrEqual(value any) *Expression {
	return p.apply(OpLessThanOrEqual, stringify(value))
}

// Like appends name=like.pattern. PostgREST accepts * as the wildcard.
func (p *Property) Like(pattern any) *Expression {
	return p.apply(OpLike, stringify(pattern))
}

// Match appends name=match.regex.
func (p *Property) Match(regex any) *Expression {
	return p.apply(OpMatch, stringify(regex))
}

// Is appends name=is.value, typically with null, true, false or unknown.
func (p *Property) Is(value any) *Expression {
	return p.apply(OpIs, stringify(value))
}

// In appends name=in.(v1,v2,...).
//
// Example:
//
//	pgrest.Endpoint("people").Property("id").In(1, 2, 3)
//	// "people?id=in.(1,2,3)"
func (p *Property) In(values ...any) *Expression {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = stringify(v)
	}
	return p.apply(OpIn, "("+strings.Join(parts, ",")+")")
}

// apply appends name=<op>.<value>, prefixing the opcode when negated.
func (p *Property) apply(op, value string) *Expression {
	if p.negate {
		op = negationPrefix + op
	}
	return p.expr.AddParam(p.name, op+"."+value)
}

// Insensitive exposes the case-insensitive pattern operators of a [Property].
type Insensitive struct {
	property *Property
}

// Like appends name=ilike.pattern.
func (i *Insensitive) Like(pattern any) *Expression {
	return i.property.apply(OpILike, stringify(pattern))
}

// Match appends name=imatch.regex.
func (i *Insensitive) Match(regex any) *Expression {
	return i.property.apply(OpIMatch, stringify(regex))
}

// stringify renders an operator value. Values are not escaped.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case *time.Time:
		if v == nil {
			return "null"
		}
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}
