package menu

import "errors"

// Sentinel errors for menu mutations. Returned errors wrap these; match them with errors.Is.
var (
	// ErrInvalidArgument is returned when a required argument, such as a caption, is missing.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIllegalState is returned when an operation would break the tree shape,
	// e.g. adding children to a checkable item or to a separator.
	ErrIllegalState = errors.New("illegal state")

	// ErrUnknownCommand is returned when a definition references a command
	// that is not in the registry.
	ErrUnknownCommand = errors.New("unknown command")
)
