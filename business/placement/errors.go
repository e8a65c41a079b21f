package placement

import "errors"

var (
	// ErrInvalidInput is the only hard failure of the engine.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientSubjects is raised by callers that require a full set of graded subjects.
	ErrInsufficientSubjects = errors.New("insufficient subjects")
)
