package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func serveError(t *testing.T, err error, errType gin.ErrorType) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	buf := captureLog(t)

	r := gin.New()
	r.Use(ErrorHandler(DefaultValidationConfig()))
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(err).SetType(errType)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return w, entry
}

func TestErrorHandler_LogLevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		errType gin.ErrorType
		status  int
		level   string
	}{
		{"no fields", apperrors.NoFieldsProvided(), gin.ErrorTypePrivate, http.StatusBadRequest, "warn"},
		{"not found", apperrors.NotFound("staff member", nil), gin.ErrorTypePrivate, http.StatusNotFound, "warn"},
		{"binding", errors.New("bad json"), gin.ErrorTypeBind, http.StatusBadRequest, "warn"},
		{"internal", errors.New("boom"), gin.ErrorTypePrivate, http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, entry := serveError(t, tt.err, tt.errType)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, float64(tt.status), entry["status"])
		})
	}
}

func TestErrorHandler_Body(t *testing.T) {
	w, _ := serveError(t, apperrors.NoFieldsProvided(), gin.ErrorTypePrivate)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NoFieldsProvided", body.Code)
	assert.NotEmpty(t, body.Error)
}
