package period

import "errors"

// Set of error variables for the period API. The source chain never emits
// events that should trip these, but a faulty endpoint or a manual
// injection can.
var (
	ErrNotFound        = errors.New("period not found")
	ErrDuplicatePeriod = errors.New("period already opened")
	ErrNoActivePeriod  = errors.New("no active period")
	ErrInvalidAmount   = errors.New("invalid amount")
)
