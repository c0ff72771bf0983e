package apperror

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres SQLSTATE codes the store can raise on bad input.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
	codeNumericOutOfRange   = "22003"
	codeStringTooLong       = "22001"
)

// FromPostgres translates constraint and data errors raised by the store.
// It returns nil when err is not a recognised *pq.Error.
func FromPostgres(err error) *Error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch string(pqErr.Code) {
	case codeUniqueViolation:
		e := Conflict("category_name_taken")
		e.Err = err
		return e
	case codeForeignKeyViolation:
		e := Validation("category_reference_invalid")
		e.Err = err
		return e
	case codeNotNullViolation:
		e := Validation("field_required")
		e.Err = err
		return e
	case codeCheckViolation, codeInvalidText, codeNumericOutOfRange, codeStringTooLong:
		e := Validation("invalid_value")
		e.Err = err
		return e
	}
	return nil
}
