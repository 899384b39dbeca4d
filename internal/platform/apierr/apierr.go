package apierr

import (
	"errors"
	"fmt"
	"net/http"

	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From maps service errors onto an HTTP status. Sentinels from pkg/errors are
// recognized anywhere in the wrap chain; everything else is a 500.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, pkgerr.ErrValidation):
		return New(http.StatusBadRequest, "validation_failed", err)
	case errors.Is(err, pkgerr.ErrConflict):
		return New(http.StatusConflict, "conflict", err)
	case errors.Is(err, pkgerr.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerr.ErrUnauthorized):
		return New(http.StatusUnauthorized, "unauthorized", err)
	default:
		return New(http.StatusInternalServerError, "internal_error", err)
	}
}
