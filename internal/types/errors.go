package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedFileType    = errors.New("unsupported file type")
	ErrAllStrategiesExhausted = errors.New("all extraction strategies exhausted")
	ErrEmptyTranscript        = errors.New("no text could be extracted from file")
	ErrAnalyzerFailure        = errors.New("analysis failed")
	ErrNotFound               = errors.New("not found")
)

// ExtractionError is a single strategy's failure.
type ExtractionError struct {
	Strategy string
	Reason   string
	Err      error
}

func (e *ExtractionError) Error() string {
	msg := e.Strategy + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// NewExtractionError builds an ExtractionError, err may be nil.
func NewExtractionError(strategy, reason string, err error) *ExtractionError {
	return &ExtractionError{Strategy: strategy, Reason: reason, Err: err}
}

// ExhaustedError is returned when every strategy in a chain failed.
type ExhaustedError struct {
	Category Category
	Attempts []error
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("%s: no extraction strategy available for %s content", ErrAllStrategiesExhausted, e.Category)
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Error())
	}
	return fmt.Sprintf("%s for %s content: %s", ErrAllStrategiesExhausted, e.Category, strings.Join(parts, "; "))
}

func (e *ExhaustedError) Is(target error) bool { return target == ErrAllStrategiesExhausted }

func (e *ExhaustedError) Unwrap() []error { return e.Attempts }

// AnalyzerError wraps any failure of the analysis collaborator.
type AnalyzerError struct {
	Err error
}

func (e *AnalyzerError) Error() string { return fmt.Sprintf("%s: %v", ErrAnalyzerFailure, e.Err) }

func (e *AnalyzerError) Is(target error) bool { return target == ErrAnalyzerFailure }

func (e *AnalyzerError) Unwrap() error { return e.Err }
