package ordering

import (
	"fmt"

	aipordering "go.einride.tech/aip/ordering"
)

// Options configures the behavior of [FromOrderBy].
type Options struct {
	// DefaultNulls is the null placement applied to every field.
	// Defaults to [NullsUnspecified].
	DefaultNulls Nulls
	// AllowedPaths restricts the fields that may be ordered by.
	// An empty list allows every field.
	AllowedPaths []string
	// ColumnMapping renames order_by paths to column names.
	// Paths not in the map are used unchanged.
	ColumnMapping map[string]string
}

// Option is a functional option for the FromOrderBy method.
type Option func(*Options)

// WithDefaultNulls sets the null placement applied to every parsed field.
//
// AIP-132 has no syntax for null placement, so this is the only way to
// request one when translating an order_by string.
func WithDefaultNulls(nulls Nulls) Option {
	return func(opts *Options) {
		opts.DefaultNulls = nulls
	}
}

// WithAllowedPaths restricts the fields that may appear in the order_by string.
//
// Example:
//
//	order, err := ordering.FromOrderBy("age desc", ordering.WithAllowedPaths("age", "name"))
func WithAllowedPaths(paths ...string) Option {
	return func(opts *Options) {
		opts.AllowedPaths = append(opts.AllowedPaths, paths...)
	}
}

// WithColumnMapping renames order_by paths to backend column names.
func WithColumnMapping(mapping map[string]string) Option {
	return func(opts *Options) {
		if opts.ColumnMapping == nil {
			opts.ColumnMapping = make(map[string]string, len(mapping))
		}
		for k, v := range mapping {
			opts.ColumnMapping[k] = v
		}
	}
}

// FromOrderBy creates an Order from an [AIP-132] order_by string.
//
// The order_by syntax is:
//
//	field [asc|desc], field [asc|desc], ...
//
// Fields without a direction sort ascending. An empty string returns an empty Order.
//
// Examples:
//
//	ordering.FromOrderBy("age desc, name")           // "age.desc,name.asc"
//	ordering.FromOrderBy("create_time desc",
//	    ordering.WithDefaultNulls(ordering.NullsLast)) // "create_time.desc.nullslast"
//
// Returns [ErrInvalidOrder] if the order_by string is malformed or names a
// field outside [WithAllowedPaths].
//
// [AIP-132]: https://google.aip.dev/132#ordering
func FromOrderBy(orderBy string, opts ...Option) (*Order, error) {
	options := &Options{
		DefaultNulls: NullsUnspecified,
	}
	for _, opt := range opts {
		opt(options)
	}

	var parsed aipordering.OrderBy
	if err := parsed.UnmarshalString(orderBy); err != nil {
		return nil, ErrInvalidOrder{
			order: orderBy,
			err:   err,
		}
	}

	if len(options.AllowedPaths) > 0 {
		if err := parsed.ValidateForPaths(options.AllowedPaths...); err != nil {
			return nil, ErrInvalidOrder{
				order: orderBy,
				err:   fmt.Errorf("expected paths %v: %w", options.AllowedPaths, err),
			}
		}
	}

	order := New()
	for _, field := range parsed.Fields {
		column := field.Path
		if mapped, ok := options.ColumnMapping[column]; ok {
			column = mapped
		}

		direction := DirectionAsc
		if field.Desc {
			direction = DirectionDesc
		}
		order.Property(column).Direct(direction, options.DefaultNulls)
	}

	return order, nil
}
