package wlog

import "errors"

var (
	// ErrTooManyDistinguished indicates more distinguished sets than the
	// signature encoding supports.
	ErrTooManyDistinguished = errors.New("wlog: more than 64 distinguished sets")
	// ErrOutsideGroundSet indicates a distinguished or candidate set references
	// elements outside the ground set.
	ErrOutsideGroundSet = errors.New("wlog: set not contained in ground set")
	// ErrHistoryShape indicates a proof history whose deviations exceed the
	// committee size they must eventually fit into.
	ErrHistoryShape = errors.New("wlog: past deviations exceed committee size")
)
