package focus

import "errors"

// Expected orchestration outcomes. Handlers map these to 4xx responses.
var (
	ErrInvalidDuration     = errors.New("duration must be one of 25, 30, or 45 minutes")
	ErrTaskNotFound        = errors.New("task not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrNoPendingReflection = errors.New("no reflection pending")
	ErrInvalidReflection   = errors.New("reflection must be yes or no")
)
