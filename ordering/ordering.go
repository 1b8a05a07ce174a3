package ordering

import (
	"strings"
)

// Direction is the sort direction of a property.
type Direction int

const (
	// DirectionUnspecified leaves the direction to the backend.
	DirectionUnspecified Direction = iota
	// DirectionAsc sorts values in ascending order.
	DirectionAsc
	// DirectionDesc sorts values in descending order.
	DirectionDesc
)

var directionSuffixes = [...]string{"", "asc", "desc"}

// String returns the suffix used in the order clause ("asc", "desc") or an
// empty string for [DirectionUnspecified] and unknown values.
func (d Direction) String() string {
	if !d.valid() {
		return ""
	}
	return directionSuffixes[d]
}

func (d Direction) valid() bool {
	return d >= 0 && int(d) < len(directionSuffixes)
}

// Nulls is the placement of null values for a property.
type Nulls int

const (
	// NullsUnspecified leaves the null placement to the backend.
	NullsUnspecified Nulls = iota
	// NullsFirst places null values before non-null values.
	NullsFirst
	// NullsLast places null values after non-null values.
	NullsLast
)

var nullsSuffixes = [...]string{"", "nullsfirst", "nullslast"}

// String returns the suffix used in the order clause ("nullsfirst", "nullslast")
// or an empty string for [NullsUnspecified] and unknown values.
func (n Nulls) String() string {
	if !n.valid() {
		return ""
	}
	return nullsSuffixes[n]
}

func (n Nulls) valid() bool {
	return n >= 0 && int(n) < len(nullsSuffixes)
}

// directive holds the sort flags of a single property.
// Storing the flags as two enums keeps asc/desc and nullsfirst/nullslast
// mutually exclusive.
type directive struct {
	direction Direction
	nulls     Nulls
}

func (d *directive) empty() bool {
	return d.direction == DirectionUnspecified && d.nulls == NullsUnspecified
}

// Order accumulates sort directives and serializes them into an order clause.
//
// Create an Order using [New] or [FromOrderBy]. An Order is not safe for
// concurrent mutation.
type Order struct {
	keys       []string              // Property names in first-mention order
	directives map[string]*directive // Sort flags keyed by property name
}

// New returns an empty Order.
func New() *Order {
	return &Order{
		keys:       []string{},
		directives: make(map[string]*directive),
	}
}

// Property returns a handle for toggling the sort flags of the given property.
//
// The first call for a property fixes its position in the serialized clause.
// Mentioning a property without toggling any flag does not emit it.
func (o *Order) Property(name string) *Property {
	d, ok := o.directives[name]
	if !ok {
		d = &directive{}
		o.directives[name] = d
		o.keys = append(o.keys, name)
	}

	return &Property{order: o, directive: d}
}

// Len returns the number of properties that will be emitted by [Order.String].
func (o *Order) Len() int {
	n := 0
	for _, key := range o.keys {
		if !o.directives[key].empty() {
			n++
		}
	}
	return n
}

// String serializes the order clause.
//
// Each property with at least one flag set is rendered as
// name[.asc|.desc][.nullslast|.nullsfirst]; properties are comma-joined in
// first-mention order.
//
// Example:
//
//	ordering.New().Property("a").Ascending().Property("b").Descending().Property("a").NullsLast().String()
//	// "a.asc.nullslast,b.desc"
func (o *Order) String() string {
	parts := make([]string, 0, len(o.keys))
	for _, key := range o.keys {
		d := o.directives[key]
		if d.empty() {
			continue
		}

		var sb strings.Builder
		sb.WriteString(key)
		if d.direction != DirectionUnspecified {
			sb.WriteByte('.')
			sb.WriteString(d.direction.String())
		}
		if d.nulls != NullsUnspecified {
			sb.WriteByte('.')
			sb.WriteString(d.nulls.String())
		}
		parts = append(parts, sb.String())
	}

	return strings.Join(parts, ",")
}

// Property toggles the sort flags of one property of an [Order].
//
// Every toggle returns the owning Order so further properties can be chained.
type Property struct {
	order     *Order
	directive *directive
}

// Ascending sorts the property in ascending order, clearing descending.
func (p *Property) Ascending() *Order {
	p.directive.direction = DirectionAsc
	return p.order
}

// Descending sorts the property in descending order, clearing ascending.
func (p *Property) Descending() *Order {
	p.directive.direction = DirectionDesc
	return p.order
}

// NullsFirst places null values first, clearing nulls last.
func (p *Property) NullsFirst() *Order {
	p.directive.nulls = NullsFirst
	return p.order
}

// NullsLast places null values last, clearing nulls first.
func (p *Property) NullsLast() *Order {
	p.directive.nulls = NullsLast
	return p.order
}

// Direct sets both flags at once. Unspecified and unknown values clear the flag.
func (p *Property) Direct(direction Direction, nulls Nulls) *Order {
	if !direction.valid() {
		direction = DirectionUnspecified
	}
	if !nulls.valid() {
		nulls = NullsUnspecified
	}
	p.directive.direction = direction
	p.directive.nulls = nulls
	return p.order
}
