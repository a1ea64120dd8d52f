package errs

import (
	"errors"
)

// ErrNotFound is returned when a client, product or order is absent.
var ErrNotFound = errors.New("not found")

// ErrIntegrity flags a state the invariants forbid, such as two unpaid
// orders for the same client. Read paths log it and carry on with the first
// row rather than failing.
var ErrIntegrity = errors.New("integrity violation")
