/*
Package ordering builds the order clause of a PostgREST-style query string.

# Basic Usage

Toggle sort flags per property and serialize the clause:

	order := ordering.New().
	    Property("age").Descending().
	    Property("name").Ascending().NullsLast()

	order.String()
	// "age.desc,name.asc.nullslast"

Each property holds at most one direction (asc or desc) and at most one null
placement (nullsfirst or nullslast). Setting one clears its sibling:

	ordering.New().Property("a").Ascending().Property("a").Descending().String()
	// "a.desc"

Properties are emitted in the order they were first mentioned. A property that
was mentioned but never toggled is omitted.

# AIP-132

[FromOrderBy] translates an [AIP-132] order_by string into an Order:

	order, err := ordering.FromOrderBy("age desc, name", ordering.WithDefaultNulls(ordering.NullsLast))
	if err != nil {
	    return err
	}
	order.String()
	// "age.desc.nullslast,name.asc.nullslast"

# Error Handling

Invalid order_by expressions return [ErrInvalidOrder], which implements
the gRPC status interface with codes.InvalidArgument:

	order, err := ordering.FromOrderBy(input)
	if err != nil {
	    var invalidOrder ordering.ErrInvalidOrder
	    if errors.As(err, &invalidOrder) {
	        // Handle invalid order syntax
	    }
	}

The builder methods themselves never fail.

[AIP-132]: https://google.aip.dev/132#ordering
*/
package ordering // import "go.alis.build/pgrest/ordering"
