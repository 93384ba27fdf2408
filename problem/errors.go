package problem

import "errors"

// Sentinel errors for parsing and validation.
var (
	// ErrBadFormat indicates a malformed problem file.
	ErrBadFormat = errors.New("problem: malformed problem file")
	// ErrCountMismatch indicates a declared count disagreeing with the
	// parsed content.
	ErrCountMismatch = errors.New("problem: declared count disagrees with content")
	// ErrInvalid indicates a parsed problem that fails validation.
	ErrInvalid = errors.New("problem: invalid problem")
)
