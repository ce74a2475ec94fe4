package interaction

import "errors"

var (
	// ErrValidation marks malformed or out-of-range input from a user.
	ErrValidation = errors.New("invalid input")
	// ErrDuplicateRoute is returned when two modules claim the same command or component name.
	ErrDuplicateRoute = errors.New("route registered twice")
)

// FailureMessage is shown privately when a handler fails unexpectedly.
const FailureMessage = "Something went wrong while handling that. Please try again later."
