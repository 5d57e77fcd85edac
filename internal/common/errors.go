package common

import "errors"

// Business logic errors
var (
	// Comment errors
	ErrCommentNotFound = errors.New("comment not found")
	ErrChainNotFound   = errors.New("comment chain not found")

	// Invalid-state errors: the target row can no longer be mutated.
	ErrCommentDeleted    = errors.New("comment already deleted")
	ErrCommentSuperseded = errors.New("comment already superseded by a newer version")

	// Authorization errors
	ErrWrongPassword = errors.New("wrong comment password")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
