package engine

import "errors"

// Sentinel errors for the synchronous request path. The server maps
// everything except ErrExecutionFailed to a 400; execution exhaustion
// and anything unrecognized become a 500.
var (
	ErrValidation        = errors.New("invalid trade intent")
	ErrBelowMinimumSize  = errors.New("order amount below minimum size")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoBalance         = errors.New("no balance available")
	ErrExecutionFailed   = errors.New("order execution failed")
)

// IsRejection reports whether err is a client-correctable rejection
// raised before any order was placed.
func IsRejection(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrBelowMinimumSize) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrNoBalance)
}
