package loadstate

import (
	"errors"
	"fmt"
)

// ErrMissingKey is the sentinel behind MissingKeyError, for errors.Is checks.
var ErrMissingKey = errors.New("dynamic key not registered")

// MissingKeyError reports a dynamic key that was referenced at load start but
// never registered. Asset identity is load-bearing, so callers should treat
// this as fatal rather than continue with a partial phase.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("dynamic key %q not registered", e.Key)
}

func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingKey
}
