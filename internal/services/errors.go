package services

import (
	"errors"
	"fmt"
)

// Error kinds, used as history and metric labels.
const (
	KindInput             = "input"
	KindExtraction        = "extraction"
	KindInference         = "inference"
	KindMalformedResponse = "malformed_response"
	KindInternal          = "internal"
)

// InputError means no usable document was supplied.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func (e *InputError) ErrorKind() string { return KindInput }

// ExtractionError means the document could not be converted to text.
type ExtractionError struct {
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("text extraction failed: %v", e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

func (e *ExtractionError) ErrorKind() string { return KindExtraction }

// InferenceError means the model call failed, timed out or was blocked.
type InferenceError struct {
	Cause error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", e.Cause)
}

func (e *InferenceError) Unwrap() error { return e.Cause }

func (e *InferenceError) ErrorKind() string { return KindInference }

// MalformedResponseError means the model output could not be parsed into an
// AnalysisReport. Raw holds the untouched model output.
type MalformedResponseError struct {
	Raw   string
	Cause error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %v", e.Cause)
}

func (e *MalformedResponseError) Unwrap() error { return e.Cause }

func (e *MalformedResponseError) ErrorKind() string { return KindMalformedResponse }

// ErrorKind reports the pipeline error kind of err, or KindInternal.
func ErrorKind(err error) string {
	var kinded interface{ ErrorKind() string }
	if errors.As(err, &kinded) {
		return kinded.ErrorKind()
	}
	return KindInternal
}
