package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Binding errors become InvalidInput; anything that is not an AppError is
// reported as an internal error without its details.
func ErrorHandler(validation ValidationConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		traceID := c.GetString(ContextRequestID)
		lastErr := c.Errors.Last()
		var appErr *apperrors.AppError
		if lastErr.IsType(gin.ErrorTypeBind) {
			appErr = apperrors.BadRequest(validation.Message(lastErr.Err), lastErr.Err)
		} else {
			appErr = apperrors.From(lastErr.Err)
		}

		// Responses below 500 log at warn.
		level := zerolog.ErrorLevel
		if appErr.StatusCode() < http.StatusInternalServerError {
			level = zerolog.WarnLevel
		}
		for _, e := range c.Errors {
			log.WithLevel(level).
				Err(e.Err).
				Str("trace_id", traceID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Int("status", appErr.StatusCode()).
				Msg("Request error")
		}

		if c.Writer.Written() {
			return
		}

		c.JSON(appErr.StatusCode(), ErrorResponse{
			Error:   appErr.Message,
			Code:    appErr.Kind(),
			TraceID: traceID,
		})
	}
}
