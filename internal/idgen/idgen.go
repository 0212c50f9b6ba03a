package idgen

import "github.com/google/uuid"

// New returns a new globally unique identifier as string (used for worker
// handles and queued messages). It is a thin wrapper so tests can stub it.

var NewFunc = func() string { return uuid.New().String() }

func New() string { return NewFunc() }
