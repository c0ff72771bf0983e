// Package apperror classifies failures into the four kinds the API surfaces.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind onto its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a message ID for the user-facing text and, optionally, the
// underlying cause. The cause is for logs only.
type Error struct {
	Kind      Kind
	MessageID string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.MessageID, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.MessageID)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(messageID string) *Error {
	return &Error{Kind: KindValidation, MessageID: messageID}
}

func Conflict(messageID string) *Error {
	return &Error{Kind: KindConflict, MessageID: messageID}
}

func NotFound(messageID string) *Error {
	return &Error{Kind: KindNotFound, MessageID: messageID}
}

func Internal(messageID string, err error) *Error {
	return &Error{Kind: KindInternal, MessageID: messageID, Err: err}
}

// KindOf reports the kind of err. Anything unclassified is internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Wrap classifies err for an operation. Already classified errors keep their
// kind and message; store errors are run through FromPostgres; whatever is
// left becomes internal with fallbackID as its user-facing message.
func Wrap(err error, fallbackID string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if classified := FromPostgres(err); classified != nil {
		return classified
	}
	return Internal(fallbackID, err)
}

func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
