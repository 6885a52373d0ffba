package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/session"
	"github.com/jonathan/interview-prep/internal/transfer"
)

// ErrNotFound indicates the addressed company or question does not exist
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ErrBadRequest indicates a request body that could not be decoded
type ErrBadRequest struct {
	Err error
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("invalid request body: %v", e.Err)
}

func (e *ErrBadRequest) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		dup        *bank.DuplicateNameError
		last       *bank.LastItemError
		invalid    *bank.ValidationError
		importErr  *transfer.ImportError
		flagErr    *session.UnknownFlagError
		fieldErrs  validator.ValidationErrors
		badRequest *ErrBadRequest
		notFound   *ErrNotFound
	)

	switch {
	case errors.As(err, &dup), errors.As(err, &last), errors.Is(err, session.ErrCaptureInProgress):
		return http.StatusConflict
	case errors.As(err, &invalid), errors.As(err, &importErr), errors.As(err, &flagErr),
		errors.As(err, &fieldErrs), errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.Is(err, session.ErrNoCapture),
		errors.Is(err, session.ErrNoRecording), errors.Is(err, transfer.ErrNoRecordings):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNoTranscript):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
