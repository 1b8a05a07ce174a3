package filtering

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrInvalidFilter reports a filter that [Parser.Apply] could not turn into
// query parameters, either because CEL rejected it or because it uses a
// construct with no PostgREST operator (for example size(name) > 3 or 1 == 2).
// It maps to codes.InvalidArgument, so handlers can return it as is:
//
//	q, err := parser.Apply(pgrest.Endpoint("people"), req.GetFilter())
//	if err != nil {
//	    return nil, err
//	}
type ErrInvalidFilter struct {
	filter string
	err    error
}

func (e ErrInvalidFilter) Error() string {
	return fmt.Sprintf("invalid filter(%s): %v", e.filter, e.err)
}

// Is matches any ErrInvalidFilter as well as the wrapped cause.
func (e ErrInvalidFilter) Is(target error) bool {
	var errInvalidFilter ErrInvalidFilter
	return errors.As(target, &errInvalidFilter) || errors.Is(e.err, target)
}

func (e ErrInvalidFilter) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}
