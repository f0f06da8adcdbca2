package encoders

import (
	"github.com/pkg/errors"
)

var (
	// ErrMissingEncoder is returned when no strategy is registered for a value's type or any type it derives from.
	ErrMissingEncoder = errors.New("missing encoder")
	// ErrProtocolViolation is returned when a strategy writes through a context that is no longer the innermost one.
	ErrProtocolViolation = errors.New("protocol violation")
	// ErrUnsupportedValue is returned for values that have no JSON representation, e.g. NaN.
	ErrUnsupportedValue = errors.New("unsupported value")
	// ErrCyclicValue is returned when a value graph refers back to itself or exceeds the depth limit.
	ErrCyclicValue = errors.New("cyclic value")
)
