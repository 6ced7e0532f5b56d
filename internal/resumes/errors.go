package resumes

import "errors"

var (
	// ErrNotFound is returned when a resume (or section) does not exist or is
	// not visible to the caller.
	ErrNotFound = errors.New("resume not found")
	// ErrUnauthenticated is returned when a write is attempted without an identity.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrUnknownSection is returned for section kinds outside the closed set.
	ErrUnknownSection = errors.New("unknown section kind")
	// ErrInvalidInput marks caller mistakes surfaced as 400s.
	ErrInvalidInput = errors.New("invalid input")
)
