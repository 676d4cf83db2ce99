// Package httputil provides HTTP utility functions for request and response
// handling. It is the only place where envelopes meet the transport layer:
// handlers build results, httputil renders them onto the gin context.
package httputil

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/svckit/svckit/internal/response"
)

// Render writes an envelope and status code to the gin context.
// PureJSON keeps HTML and non-ASCII characters literal, matching the
// envelope wire format.
func Render(c *gin.Context, env response.Envelope, code int) {
	c.PureJSON(code, env)
}

// RenderResult maps an operation result onto the right envelope and writes it.
func RenderResult(c *gin.Context, result any, resource string) {
	env, code := response.FromResult(result, resource)
	c.PureJSON(code, env)
}

// HandleError maps a domain error to its envelope and status code and writes
// a JSON response. The full error chain is logged; the client only sees the
// catalog message for the matched sentinel.
func HandleError(c *gin.Context, err error, resource string, logger *slog.Logger) {
	if err == nil {
		return
	}

	env, code := response.FromError(err, resource)

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", code),
			slog.Any("error", err),
		)
	}

	c.PureJSON(code, env)
}

// HandleBadRequest writes a 400 envelope for malformed JSON or parameters.
func HandleBadRequest(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	env, code := response.BadRequest(err.Error(), nil)
	c.PureJSON(code, env)
}

// HandleValidationError writes a 400 envelope for validation failures,
// attaching the validation message as error details.
func HandleValidationError(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	env, code := response.BadRequest(err.Error(), nil)
	c.PureJSON(code, env)
}
