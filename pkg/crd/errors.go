package crd

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// ErrorType categorises the failures raised by the activities of
// this package
type ErrorType string

const (
	// ErrorTypeInvalidInput is raised when the caller supplied a
	// malformed or incomplete request. No network call is made.
	ErrorTypeInvalidInput ErrorType = "InvalidInput"

	// ErrorTypeAPIOperationFailed is raised when the API server
	// responds with a non-2xx status or cannot be reached
	ErrorTypeAPIOperationFailed ErrorType = "ApiOperationFailed"
)

// InvalidInputError reports a contract violation detected before
// any request was sent to the cluster
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

// Type returns the error category
func (e *InvalidInputError) Type() ErrorType {
	return ErrorTypeInvalidInput
}

func invalidInputf(format string, args ...interface{}) error {
	return errors.WithStack(&InvalidInputError{Message: fmt.Sprintf(format, args...)})
}

// APIOperationFailedError carries the server's answer for a failed
// operation so that operators can diagnose the rejection, e.g. an
// invalid schema, an RBAC denial or a missing CRD
type APIOperationFailedError struct {
	// Operation is the verb of the activity e.g. create, patch
	Operation string

	// StatusCode is zero when no response was received
	StatusCode int

	// Reason is the HTTP reason phrase or the transport failure
	Reason string

	// Body is the raw response body as sent by the API server
	Body []byte

	cause error
}

func (e *APIOperationFailedError) Error() string {
	return fmt.Sprintf(
		"failed to %s custom resource object: '%s' %s",
		e.Operation,
		e.Reason,
		string(e.Body),
	)
}

// Type returns the error category
func (e *APIOperationFailedError) Type() ErrorType {
	return ErrorTypeAPIOperationFailed
}

// Unwrap exposes the client error, e.g. *apierrors.StatusError
func (e *APIOperationFailedError) Unwrap() error {
	return e.cause
}

func newAPIOperationFailedError(operation string, statusCode int, body []byte, cause error) error {
	reason := http.StatusText(statusCode)
	if reason == "" && cause != nil {
		reason = cause.Error()
	}
	return errors.WithStack(&APIOperationFailedError{
		Operation:  operation,
		StatusCode: statusCode,
		Reason:     reason,
		Body:       body,
		cause:      cause,
	})
}

// IsInvalidInput returns true if the provided error or any error it
// wraps is an InvalidInputError
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// IsAPIOperationFailed returns true if the provided error or any
// error it wraps is an APIOperationFailedError
func IsAPIOperationFailed(err error) bool {
	var target *APIOperationFailedError
	return errors.As(err, &target)
}

// AsAPIOperationFailed extracts the APIOperationFailedError if any
func AsAPIOperationFailed(err error) (*APIOperationFailedError, bool) {
	var target *APIOperationFailedError
	ok := errors.As(err, &target)
	return target, ok
}
