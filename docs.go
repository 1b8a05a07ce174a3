/*
Package pgrest builds PostgREST-style query strings with a fluent API.

The builder accumulates filters, logical groups, selection, ordering and
pagination as an ordered list of parameters and serializes them into the
dot-delimited operator grammar used by PostgREST and compatible REST APIs:

	people?age=gt.18&id=not.in.(1,2)&order=name.asc.nullslast&limit=10

It performs no I/O, no escaping and no schema validation. Column names and
values are opaque strings supplied by the caller.

# Basic Usage

	q := pgrest.Endpoint("people").
	    Select("id", "name").
	    Property("age").GreaterThan(18).
	    Property("status").In("active", "pending").
	    Order(func(o *ordering.Order) *ordering.Order {
	        return o.Property("name").Ascending().Property("name").NullsLast()
	    }).
	    Limit(10)

	q.QueryString()
	// "people?select=id,name&age=gt.18&status=in.(active,pending)&order=name.asc.nullslast&limit=10"

# Operators

	Equals              eq
	GreaterThan         gt
	GreaterThanOrEqual  gte
	LessThan            lt
	LessThanOrEqual     lte
	Like                like
	Match               match
	Insensitive().Like  ilike
	Insensitive().Match imatch
	Is                  is
	In                  in.(v1,v2,...)

Every operator has a negated form through [Property.Not]:

	pgrest.Endpoint("people").Property("id").Not().In(1, 2)
	// "people?id=not.in.(1,2)"

# Logical Groups

[Expression.And], [Expression.Or] and their negations through [Expression.Not]
build a nested scope and append it as a single parameter:

	pgrest.Endpoint("people").Or(func(e *pgrest.Expression) *pgrest.Expression {
	    return e.Property("age").LessThan(18).
	        And(func(e *pgrest.Expression) *pgrest.Expression {
	            return e.Property("age").GreaterThan(65).Property("retired").Is(true)
	        })
	})
	// "people?or=(age.lt.18,and(age.gt.65,retired.is.true))"

# Sub-packages

The [ordering] package builds order clauses and translates AIP-132 order_by
strings. The [filtering] package translates AIP-160 filter strings into
Expression parameters.

[ordering]: https://pkg.go.dev/go.alis.build/pgrest/ordering
[filtering]: https://pkg.go.dev/go.alis.build/pgrest/filtering
*/
package pgrest // import "go.alis.build/pgrest"
