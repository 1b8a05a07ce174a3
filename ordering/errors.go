package ordering

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrInvalidOrder reports an order_by value that [FromOrderBy] could not
// translate: a malformed field or direction, or a field outside
// [WithAllowedPaths]. It maps to codes.InvalidArgument.
type ErrInvalidOrder struct {
	order string
	err   error
}

func (e ErrInvalidOrder) Error() string {
	return fmt.Sprintf("invalid order(%s): %v", e.order, e.err)
}

// Is matches any ErrInvalidOrder as well as the wrapped cause.
func (e ErrInvalidOrder) Is(target error) bool {
	var errInvalidOrder ErrInvalidOrder
	return errors.As(target, &errInvalidOrder) || errors.Is(e.err, target)
}

func (e ErrInvalidOrder) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}
