/*
Package errs defines the application error taxonomy: a CustomError type
carrying a business code, a user-facing message, and the HTTP status used
to deliver it. Every domain error is recoverable at the boundary; none of
them terminates the process.
*/
package errs

import (
	"fmt"
	"net/http"
	"strings"

	"drinkup/internal/pkg/logx"
)

// CustomError is the error type surfaced to clients.
type CustomError struct {
	// Code is the business error code (see codes.go).
	Code int

	// Message is the user-friendly error description.
	Message string

	// Status is the HTTP status code the error is delivered with.
	Status int
}

// Error implements the error interface.
func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewError builds a *CustomError for a predefined code. Optional details
// are applied printf-style when the message template has placeholders.
// An unknown code falls back to ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	templateErr, ok := errorMap[code]

	if !ok {
		logx.Error(
			fmt.Errorf("unknown error code %d requested", code),
			"errs.NewError called with a code missing from errorMap",
		)

		unknownErr := errorMap[ErrUnknown]
		return &unknownErr
	}

	customErr := templateErr

	if customErr.Status == 0 {
		customErr.Status = http.StatusOK
	}

	if code == ErrUnknown && len(details) > 0 {
		if originalErr, ok := details[0].(error); ok {
			logx.Error(originalErr, "Handling ErrUnknown with underlying error")
		}
	} else if len(details) > 0 {
		if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		} else {
			logx.Warn("Details provided for error without placeholders in its message. Details ignored.")
		}
	}

	return &customErr
}
