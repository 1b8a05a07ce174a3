/*
Package filtering translates AIP-160 filter expressions into PostgREST query parameters.

Filters use CEL (Common Expression Language) syntax, following the [AIP-160]
filtering specification, with the SQL-style keywords AND, OR, NOT, IN, NULL
and = also accepted.

# Basic Usage

Create a parser and apply a filter to an endpoint:

	parser, err := filtering.NewParser()
	if err != nil {
	    return err
	}

	q, err := parser.Apply(pgrest.Endpoint("people"), "name = 'Alice' AND age > 18")
	if err != nil {
	    return err
	}
	// q.QueryString(): "people?name=eq.Alice&age=gt.18"

# Translation

Logical operators:

	a AND b            a and b appended to the current scope
	a OR b OR c        or=(a,b,c)
	a OR (b AND c)     or=(a,and(b,c))
	NOT (a AND b)      not.and=(a,b)
	NOT (a OR b)       not.or=(a,b)
	NOT a = 1          a=not.eq.1

NOT applies to the whole restriction that follows it. Keywords inside quoted
strings are taken literally, so name = 'SALT AND PEPPER' compares against the
full string.

Comparison operators:

	==    eq (is for null, true and false)
	!=    not.eq (not.is for null, true and false)
	>     gt
	>=    gte
	<     lt
	<=    lte
	in    in.(v1,v2,...)

A literal on the left of a comparison is moved to the right with the
operator mirrored, so 18 < age becomes age=gt.18. A bare field such as
active becomes active=is.true.

String functions:

	like(field, 'A*')         like
	ilike(field, 'a*')        ilike
	match(field, '^A')        match
	imatch(field, '^a')       imatch
	prefix(field, 'A')        like.A*
	suffix(field, 'z')        like.*z
	field.startsWith('A')     like.A*
	field.endsWith('z')       like.*z
	field.contains('x')       like.*x*
	field.matches('^A')       match

Value functions:

	timestamp('2021-01-01T00:00:00Z')   validated and passed through
	duration('1h')                      PT3600S
	date('2021-01-01')                  validated and passed through

# Columns

Field paths are used as column names. Dotted paths (author.name) address
embedded resources. Use options to adapt them:

	parser, err := filtering.NewParser(
	    filtering.WithSnakeCaseColumns(),                         // createTime -> create_time
	    filtering.WithColumnMapping(map[string]string{"id": "uid"}),
	    filtering.WithReserved("order"),                          // order -> "order"
	)

# Error Handling

The package returns typed errors that can be checked:

	q, err := parser.Apply(pgrest.Endpoint("people"), filter)
	if err != nil {
	    var invalidFilter filtering.ErrInvalidFilter
	    if errors.As(err, &invalidFilter) {
	        // Handle invalid filter syntax
	    }
	}

[ErrInvalidFilter] implements the gRPC status interface, returning
codes.InvalidArgument.

# Thread Safety

The [Parser] is safe for concurrent use after creation. Multiple goroutines
can call [Parser.Apply] simultaneously on different expressions.

[AIP-160]: https://google.aip.dev/160
*/
package filtering // import "go.alis.build/pgrest/filtering"
