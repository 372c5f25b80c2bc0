package models

import (
	"errors"
	"fmt"
)

// ErrRejectedInput is the sentinel every RejectedInput unwraps to.
var ErrRejectedInput = errors.New("rejected input")

// RejectedInput aborts a single document save or calculation with a
// user-facing message. It is distinct from a skipped no-op, which is not an
// error at all.
type RejectedInput struct {
	// Title is a short heading for the rejection, shown with the message.
	Title string
	// Reason is a package-level sentinel callers can match with errors.Is.
	Reason error
	// Message is the user-facing explanation.
	Message string
}

// Reject builds a RejectedInput with a formatted message.
func Reject(reason error, title, format string, args ...any) *RejectedInput {
	return &RejectedInput{
		Title:   title,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *RejectedInput) Error() string {
	if e.Message == "" {
		return e.reason().Error()
	}
	return fmt.Sprintf("%s: %s", e.reason().Error(), e.Message)
}

// Unwrap exposes both the specific reason and ErrRejectedInput.
func (e *RejectedInput) Unwrap() []error {
	if e.Reason == nil || e.Reason == ErrRejectedInput {
		return []error{ErrRejectedInput}
	}
	return []error{e.Reason, ErrRejectedInput}
}

func (e *RejectedInput) reason() error {
	if e.Reason == nil {
		return ErrRejectedInput
	}
	return e.Reason
}

// IsRejected reports whether err carries a RejectedInput.
func IsRejected(err error) bool {
	return errors.Is(err, ErrRejectedInput)
}
