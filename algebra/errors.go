package algebra

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every recoverable failure of the algebra
// core: broken key invariants, integer range overflow and unmet symbolic
// preconditions. Callers branch on it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgument builds an error wrapping ErrInvalidArgument.
func InvalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
