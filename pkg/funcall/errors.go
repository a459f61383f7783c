package funcall

import "errors"

// Error taxonomy shared by the request builder and the dispatcher.
// Every violation is fatal to the current call; nothing is retried or
// downgraded to a default. Match with errors.Is.
var (
	// ErrInvalidArgument is returned for a malformed function name, an
	// unsupported model, an out-of-shape arguments payload, or an enum
	// member that does not exist.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingArgument is returned for an empty prompt sequence or an
	// absent required parameter binding.
	ErrMissingArgument = errors.New("missing argument")

	// ErrInvalidOperation is returned for an unresolvable type or member,
	// or when an asynchronously dispatched function does not return a
	// pending computation.
	ErrInvalidOperation = errors.New("invalid operation")
)
