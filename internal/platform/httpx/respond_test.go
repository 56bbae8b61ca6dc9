package httpx_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cryptohub/cryptohub/internal/platform/httpx"
)

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{httpx.ErrNotFound, http.StatusNotFound},
		{httpx.ErrDuplicate, http.StatusConflict},
		{httpx.ErrInvalidCredentials, http.StatusUnauthorized},
		{httpx.ErrUnauthorized, http.StatusUnauthorized},
		{httpx.ErrValidation, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", httpx.ErrDuplicate), http.StatusConflict},
		{fmt.Errorf("some storage fault"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		res := httptest.NewRecorder()
		httpx.RespondError(res, tc.err)
		assert.Equal(t, tc.status, res.Code, "error %v", tc.err)
	}
}

func TestFaultHidesDetail(t *testing.T) {
	res := httptest.NewRecorder()
	httpx.RespondError(res, fmt.Errorf("pq: connection refused at 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.NotContains(t, res.Body.String(), "10.0.0.5")
	assert.Contains(t, res.Body.String(), "Internal server error")
}

func TestSuccessEnvelope(t *testing.T) {
	res := httptest.NewRecorder()
	httpx.Success(res, http.StatusCreated, "created", map[string]any{"id": 1})

	assert.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "application/json", res.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"created","data":{"id":1}}`, res.Body.String())
}

func TestValidationFailedEnvelope(t *testing.T) {
	res := httptest.NewRecorder()
	httpx.ValidationFailed(res, []httpx.FieldError{{Field: "email", Message: "Please provide a valid email"}})

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.JSONEq(t, `{"message":"Validation failed","errors":[{"field":"email","message":"Please provide a valid email"}]}`, res.Body.String())
}
