package audit

import "errors"

// ErrInvalidEdge is returned when an edge string is not of the form
// "from:to" with both names non-empty.
var ErrInvalidEdge = errors.New("invalid edge: must be from:to")
