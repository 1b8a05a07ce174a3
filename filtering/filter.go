package filtering

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/cel-go/common"
	"github.com/google/cel-go/common/ast"
	"github.com/google/cel-go/parser"
	"go.alis.build/alog"

	"go.alis.build/pgrest"
)

/*
Parser translates AIP-160 filter expressions into query parameters of a
[pgrest.Expression].

A Parser is immutable after creation and safe for concurrent use.
*/
type Parser struct {
	options  *Options
	keywords []keyword
	not      *regexp.Regexp
}

/*
NewParser creates a new Parser with the given options.

Options declare how filter identifiers map to backend columns, for example
[WithColumnMapping] or [WithSnakeCaseColumns].
*/
func NewParser(opts ...Option) (*Parser, error) {
	options := &Options{
		ColumnMapping: map[string]string{},
		Reserved:      map[string]bool{},
	}
	for _, opt := range opts {
		opt(options)
	}

	keywords := make([]keyword, 0, len(keywordSpellings))
	for _, k := range keywordSpellings {
		pattern, err := regexp.Compile(k.pattern)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, keyword{pattern: pattern, cel: k.cel})
	}

	not, err := regexp.Compile(`^NOT\s+`)
	if err != nil {
		return nil, err
	}

	return &Parser{
		options:  options,
		keywords: keywords,
		not:      not,
	}, nil
}

/*
Parse translates a filter expression into a new, unnamed [pgrest.Expression].

The result is typically used as a nested scope or inspected with
[pgrest.Expression.Params]. Use [Parser.Apply] to add the parameters to an
existing endpoint.

May return an ErrInvalidFilter error if the filter is invalid.
*/
func (f *Parser) Parse(filter string) (*pgrest.Expression, error) {
	return f.Apply(pgrest.Endpoint(""), filter)
}

/*
Apply translates a filter expression and appends the resulting parameters to e.

Examples:

	parser.Apply(pgrest.Endpoint("people"), "age > 18 AND name = 'Alice'")
	// "people?age=gt.18&name=eq.Alice"
	parser.Apply(pgrest.Endpoint("people"), "status IN ['a', 'b'] OR deleted_at != null")
	// "people?or=(status.in.(a,b),deleted_at.not.is.null)"
	parser.Apply(pgrest.Endpoint("people"), "name.startsWith('Al')")
	// "people?name=like.Al*"

An empty filter leaves e unchanged. On error e is left unchanged and an
ErrInvalidFilter is returned.
*/
func (f *Parser) Apply(e *pgrest.Expression, filter string) (*pgrest.Expression, error) {
	if filter == "" {
		return e, nil
	}

	sanitized := f.sanitize(filter)

	source := common.NewTextSource(sanitized)
	p, err := parser.NewParser()
	if err != nil {
		return e, ErrInvalidFilter{
			filter: filter,
			err:    err,
		}
	}

	parsed, errors := p.Parse(source)
	if errors != nil && len(errors.GetErrors()) > 0 {
		return e, ErrInvalidFilter{
			filter: filter,
			err:    fmt.Errorf("%s", errors.ToDisplayString()),
		}
	}

	parsedExpr, err := ast.ToProto(parsed)
	if err != nil {
		return e, ErrInvalidFilter{
			filter: filter,
			err:    err,
		}
	}

	// Translate into a scratch scope so a failure leaves e untouched.
	scratch := pgrest.Endpoint("")
	if err := f.parseExpr(scratch, parsedExpr.GetExpr(), false); err != nil {
		return e, ErrInvalidFilter{
			filter: filter,
			err:    err,
		}
	}

	params := scratch.Params()
	for _, param := range params {
		e.AddParam(param.Key, param.Value)
	}
	alog.Debugf(context.Background(), "translated filter %q into %d parameter(s)", filter, len(params))

	return e, nil
}
