package payments

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodePermissionDenied, http.StatusForbidden},
		{CodeFailedPrecondition, http.StatusPreconditionFailed},
		{CodeInternal, http.StatusInternalServerError},
		{Code("something-unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapError(CodeInternal, "failed to confirm booking", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to confirm booking")
	assert.Contains(t, err.Error(), "connection reset")

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, CodeInternal, perr.Code)
}

func TestErrorf(t *testing.T) {
	err := Errorf(CodeNotFound, "booking %s not found", "abc")

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, CodeNotFound, perr.Code)
	assert.Equal(t, "booking abc not found", perr.Message)
}
