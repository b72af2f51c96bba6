package api

import "fmt"

// InvalidInputError reports bad audio or bad configuration. It is fatal: the
// run aborts before any output is produced.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

// NewInvalidInputError builds an InvalidInputError with a formatted message.
func NewInvalidInputError(format string, args ...interface{}) *InvalidInputError {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// UnsupportedFormatError reports an audio encoding the service cannot accept.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported audio format: %s", e.Format)
}

// TranscriptionServiceError reports a remote call that failed after retries.
// Fatal for chunk 0 (references and all later chunks depend on it), isolated
// for residual chunks.
type TranscriptionServiceError struct {
	Code      string
	Message   string
	Retryable bool
	Cause     error
}

func (e *TranscriptionServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transcription service error (%s): %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("transcription service error (%s): %s", e.Code, e.Message)
}

func (e *TranscriptionServiceError) Unwrap() error {
	return e.Cause
}
