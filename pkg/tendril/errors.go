package tendril

import "errors"

// ErrTypeMismatch is returned when a declaration or write disagrees with a
// tendril's declared type.
var ErrTypeMismatch = errors.New("type mismatch")

// ErrNotSet is returned by Get when a tendril holds no value and no default.
var ErrNotSet = errors.New("value not set")

// ErrUnknownPort is returned when looking up a name that was never declared.
var ErrUnknownPort = errors.New("unknown port")
