package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. Handlers return these (possibly
// wrapped) and RespondError maps them to status codes.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicate          = errors.New("duplicate entry")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// RespondError maps domain errors to HTTP responses. Unrecognized errors
// surface as a generic 500; the detail stays server-side.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Fail(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, ErrDuplicate):
		Fail(w, http.StatusConflict, "User with this email or username already exists")
	case errors.Is(err, ErrInvalidCredentials):
		Fail(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrUnauthorized):
		Fail(w, http.StatusUnauthorized, "Authentication required. Please provide a valid token.")
	case errors.Is(err, ErrValidation):
		Fail(w, http.StatusBadRequest, "Validation failed")
	default:
		Fail(w, http.StatusInternalServerError, "Internal server error")
	}
}
