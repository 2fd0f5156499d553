package discovery

import "errors"

var (
	// ErrInvalidConstraint indicates a candidate carries a version constraint the
	// Oracle cannot parse. It is a catalog bug and aborts discovery.
	ErrInvalidConstraint = errors.New("invalid version constraint")
)
