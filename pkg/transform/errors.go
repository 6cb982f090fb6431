package transform

import "errors"

// ErrInvalidArgument marks a value rejected by a Builder setter or parser.
// Every validation failure in this package wraps it, so
// errors.Is(err, ErrInvalidArgument) matches them all. Validation happens at
// set-time only; Build never fails.
var ErrInvalidArgument = errors.New("invalid argument")
