// Package httpx provides JSON response envelopes shared by HTTP handlers.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response body shape used by every endpoint.
type Envelope struct {
	Message string       `json:"message"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSON sends an arbitrary JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Success sends a success envelope.
func Success(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Message: message, Data: data})
}

// Fail sends a failure envelope carrying only a message.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Message: message})
}

// ValidationFailed sends a 400 envelope listing per-field problems.
func ValidationFailed(w http.ResponseWriter, errs []FieldError) {
	JSON(w, http.StatusBadRequest, Envelope{Message: "Validation failed", Errors: errs})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
