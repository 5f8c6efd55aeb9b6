package testutil

import "errors"

// ErrSimulated is injected by failing test doubles.
var ErrSimulated = errors.New("simulated store failure")
