package filter

import (
	"fmt"
)

type (
	// CompilationError indicates a filter expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Err        error
	}

	// EvaluationError indicates a compiled filter failed on a movie
	EvaluationError struct {
		Expression string
		MovieTitle string
		Err        error
	}
)

func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid filter '%s': %s: %v", e.Expression, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid filter '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("filter '%s' failed on movie '%s': %v", e.Expression, e.MovieTitle, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
