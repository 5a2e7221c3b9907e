package fmla

import (
	"errors"
	"fmt"
)

var (
	ErrInputValidation     = errors.New("no file uploaded")
	ErrMalformedExtraction = errors.New("AI returned invalid JSON")
)

// MalformedExtractionError keeps the model's reply for server-side diagnosis.
// Raw must never reach the client.
type MalformedExtractionError struct {
	Raw string
	Err error
}

func (e *MalformedExtractionError) Error() string {
	return fmt.Sprintf("%s: %v", ErrMalformedExtraction.Error(), e.Err)
}

func (e *MalformedExtractionError) Unwrap() []error {
	return []error{ErrMalformedExtraction, e.Err}
}

// StageError records the pipeline stage at which a request failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

func failAt(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
