package response

import (
	"errors"
)

type Error struct {
	Code int
	Slug string
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

// NewCodedError attaches a machine-readable slug such as "RULE_NOT_FOUND".
func NewCodedError(code int, slug string, err string) error {
	return &Error{Code: code, Slug: slug, Err: errors.New(err)}
}

// BlockedError is returned when a scheduling rule refuses a booking.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return "booking blocked: " + e.Reason
}

func NewBlockedError(reason string) error {
	return &BlockedError{Reason: reason}
}
