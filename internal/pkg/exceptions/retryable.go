package exceptions

import (
	"errors"
	"fmt"
)

// ErrRetryable marks failures that may succeed when attempted again, such as
// transport errors or a 5xx from a downstream service.
var ErrRetryable = errors.New("retryable failure")

// MarkRetryable wraps err so that IsRetryable reports true for it.
func MarkRetryable(err error) error {
	if err == nil {
		return ErrRetryable
	}
	return fmt.Errorf("%w: %w", ErrRetryable, err)
}

func IsRetryable(err error) bool {
	return errors.Is(err, ErrRetryable)
}
