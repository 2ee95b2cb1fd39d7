package economy

import "errors"

// Expected purchase outcomes. These are user-facing results, not faults;
// handlers map them to messages rather than 500s.
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrAlreadyOwned      = errors.New("item already owned")
	ErrInsufficientFunds = errors.New("not enough focus points")
	ErrItemLocked        = errors.New("item not yet unlocked")
)
