package filtering

// Options configures the behavior of [NewParser].
type Options struct {
	// ColumnMapping maps filter field paths to column names.
	// Takes precedence over SnakeCase and Reserved.
	ColumnMapping map[string]string
	// SnakeCase converts every segment of a field path to snake_case,
	// e.g. createTime -> create_time.
	SnakeCase bool
	// Reserved lists column names that must be double-quoted.
	Reserved map[string]bool
}

// Option is a functional option for the NewParser method.
type Option func(*Options)

// WithColumnMapping maps filter field paths to backend column names.
//
// Example:
//
//	parser, _ := filtering.NewParser(filtering.WithColumnMapping(map[string]string{
//	    "author.name": "author_name",
//	}))
func WithColumnMapping(mapping map[string]string) Option {
	return func(opts *Options) {
		for k, v := range mapping {
			opts.ColumnMapping[k] = v
		}
	}
}

// WithSnakeCaseColumns converts field paths written in protobuf JSON style
// (camelCase) to snake_case column names.
func WithSnakeCaseColumns() Option {
	return func(opts *Options) {
		opts.SnakeCase = true
	}
}

// WithReserved declares column names that clash with PostgREST keywords
// (select, order, limit, ...). They are rendered double-quoted.
func WithReserved(names ...string) Option {
	return func(opts *Options) {
		for _, name := range names {
			opts.Reserved[name] = true
		}
	}
}
