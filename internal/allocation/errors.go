package allocation

import (
	"errors"
	"fmt"
)

// ErrConfig is the root of every configuration error. A run failing
// with an error matching ErrConfig has not written anything.
var ErrConfig = errors.New("allocation config error")

// ErrInvalidRoom is returned when a room layout has a missing id,
// negative dimensions or a duplicate room number.
var ErrInvalidRoom = fmt.Errorf("%w: invalid room layout", ErrConfig)

// ErrInvalidStudent is returned when a student record cannot be mapped
// onto a cohort (missing id or department, missing year for the regular
// strategy) or appears twice.
var ErrInvalidStudent = fmt.Errorf("%w: invalid student record", ErrConfig)

// ErrUnknownStrategy is returned by ParseStrategy and Run for names that
// do not map to a strategy.
var ErrUnknownStrategy = errors.New("unknown allocation strategy")

// ErrRunInProgress is returned when another run holds the allocation
// lease.
var ErrRunInProgress = errors.New("allocation run already in progress")
