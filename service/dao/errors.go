package dao

import "errors"

// ErrNotFound is returned when the requested entity does not exist in the
// underlying storage. A sentinel variable lets callers detect the condition
// via errors.Is instead of brittle string comparisons.
var ErrNotFound = errors.New("dao: not found")
