// Package internalerr defines the engine's sentinel and structured errors.
package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrStaleCache    = errors.New("cache checksum mismatch")
	ErrClosed        = errors.New("handle is closed")
)

// ComparisonLimitError is returned when a combinatorial match mode would
// exceed its comparison ceiling. Callers are expected to re-scope the
// request rather than retry.
type ComparisonLimitError struct {
	Actual int64
	Max    int64
}

func (e *ComparisonLimitError) Error() string {
	return fmt.Sprintf("comparison count %d exceeds limit %d: narrow the unit range", e.Actual, e.Max)
}

// IsComparisonLimit reports whether err is a ComparisonLimitError and
// returns it when so.
func IsComparisonLimit(err error) (*ComparisonLimitError, bool) {
	var cle *ComparisonLimitError
	if errors.As(err, &cle) {
		return cle, true
	}
	return nil, false
}
