package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeAndKind(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
		kind   string
	}{
		{NotFound("patient", nil), http.StatusNotFound, "NotFound"},
		{BadRequest("bad", nil), http.StatusBadRequest, "InvalidInput"},
		{InvalidRole("Nurse"), http.StatusBadRequest, "InvalidRole"},
		{NoFieldsProvided(), http.StatusBadRequest, "NoFieldsProvided"},
		{Unauthorized(nil), http.StatusUnauthorized, "Unauthorized"},
		{DuplicateCode("D101", nil), http.StatusConflict, "DuplicateCode"},
		{CompletionFailed(nil), http.StatusInternalServerError, "CompletionFailed"},
		{Internal(nil), http.StatusInternalServerError, "Internal"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode())
			assert.Equal(t, tt.kind, tt.err.Kind())
		})
	}
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	cause := NotFound("appointment", nil)
	err := CompletionFailed(fmt.Errorf("failed to delete appointment 99: %w", cause))

	assert.True(t, stderrors.Is(err, CompletionFailedError))
	assert.True(t, stderrors.Is(err, NotFoundError))
	assert.False(t, stderrors.Is(err, DuplicateCodeError))
}

func TestFrom(t *testing.T) {
	wrapped := fmt.Errorf("failed to register: %w", DuplicateCode("D101", nil))
	assert.Equal(t, ErrDuplicateCode, From(wrapped).Code)

	plain := stderrors.New("connection reset")
	got := From(plain)
	assert.Equal(t, ErrInternal, got.Code)
	assert.Equal(t, "internal server error", got.Message)
	assert.ErrorIs(t, got, plain)
}
