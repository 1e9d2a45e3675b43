// Package routine implements the routine calling subsystem that lets skills
// expose invocable procedures with schema validated arguments, consistent
// error handling and rich metadata for discovery.
package routine

import (
	"fmt"

	"github.com/hupe1980/skillmesh/internal/util"
)

// ValidationError represents argument validation errors with detailed information.
type ValidationError = util.ValidationError

// Error represents an application-level failure raised by a routine body.
type Error struct {
	Designation string `json:"designation"`       // Designation of the routine that failed
	Message     string `json:"message"`           // Error message
	Code        string `json:"code"`              // Error code for categorization
	Details     any    `json:"details,omitempty"` // Additional error details

	cause error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("routine error [%s] in %s: %s", e.Code, e.Designation, e.Message)
	}
	return fmt.Sprintf("routine error in %s: %s", e.Designation, e.Message)
}

// Unwrap exposes the originating error so sentinel matching with errors.Is
// keeps working through the wrapping.
func (e *Error) Unwrap() error { return e.cause }

// NewError creates a new routine Error with the specified details.
func NewError(designation, message, code string) *Error {
	return &Error{
		Designation: designation,
		Message:     message,
		Code:        code,
	}
}
