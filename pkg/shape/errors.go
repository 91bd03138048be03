package shape

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyContour is returned when no foreground region was found.
	ErrEmptyContour = errors.New("no contour found")
	// ErrDegenerateShape is returned for zero-area bounds or zero-length outlines.
	ErrDegenerateShape = errors.New("degenerate shape")
	// ErrInsufficientPoints is returned when a polygon cannot keep 3 points.
	ErrInsufficientPoints = errors.New("insufficient points")
)

// StageError reports which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
