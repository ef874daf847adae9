package usage

import "errors"

// ErrInsufficientLookups is returned when a session has no lookups remaining for the current month.
var ErrInsufficientLookups = errors.New("insufficient lookups")

// DefaultLookups is the number of place lookups granted per month.
const DefaultLookups = 500
