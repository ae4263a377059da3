package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpersCarryStatus(t *testing.T) {
	cases := []struct {
		err  *HTTPError
		code int
	}{
		{ErrBadRequest("x"), http.StatusBadRequest},
		{ErrUnauthorized("x"), http.StatusUnauthorized},
		{ErrForbidden("x"), http.StatusForbidden},
		{ErrNotFound("x"), http.StatusNotFound},
		{ErrConflict("x"), http.StatusConflict},
		{ErrUnsupportedMediaType("x"), http.StatusUnsupportedMediaType},
		{ErrServiceUnavailable("x"), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, "x", tc.err.Error())
	}
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusCode(ErrNotFound("car not found")))
	assert.Equal(t, http.StatusConflict, StatusCode(fmt.Errorf("create: %w", ErrConflict("spot taken"))))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(fmt.Errorf("boom")))
}
