package types

import "errors"

// Everything the engine reports boils down to one of these.
// Wrap them with context and test with errors.Is.
var (
	// ErrNotFound: template file, destination file or binary tag missing.
	ErrNotFound = errors.New("not found")
	// ErrMalformed: constant strings or count/size fields not where the layout says.
	ErrMalformed = errors.New("malformed container")
	// ErrDuplicateElement: the array already holds the element. Nothing changed, safe to retry.
	ErrDuplicateElement = errors.New("duplicate element")
	// ErrOutOfRange: numeric value does not fit a signed 32-bit field.
	ErrOutOfRange = errors.New("value out of range")
	// ErrInvalidIdentifier: identifier empty or not all digits.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrWrite: the file system refused the write.
	ErrWrite = errors.New("write failed")
)
