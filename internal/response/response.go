// Package response builds the standardized JSON envelopes returned by every API
// handler. All constructors are pure: they perform no I/O and touch no shared
// state, so they are safe to call from any number of request goroutines.
//
// The success and error shapes intentionally use different field-name casing on
// the wire ("success"/"message" vs "Success"/"Message"). The asymmetry is part
// of the existing client contract and is preserved here for compatibility.
package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/svckit/svckit/internal/errors"
	"github.com/svckit/svckit/internal/messages"
)

// Envelope is the standardized response wrapper returned by every handler.
// The concrete type is either SuccessEnvelope or ErrorEnvelope.
type Envelope interface {
	isEnvelope()
}

// SuccessEnvelope is the wire shape for the 200/201 success family.
type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (SuccessEnvelope) isEnvelope() {}

// ErrorEnvelope is the wire shape for the 4xx/5xx error family.
// Field casing differs from SuccessEnvelope on purpose (see package doc).
type ErrorEnvelope struct {
	Success      bool   `json:"Success"`
	Message      string `json:"Message"`
	ErrorDetails any    `json:"ErrorDetails,omitempty"`
}

func (ErrorEnvelope) isEnvelope() {}

// Result is the generic outcome of a domain operation: a value plus an optional
// HTTP status code selecting the envelope shape. A zero Code means "bare value",
// which always renders as a plain success.
type Result struct {
	Value any
	Code  int
}

// Success builds a success envelope.
// An empty message defaults to the catalog success text; a zero code defaults
// to 200.
func Success(data any, message string, code int) (Envelope, int) {
	if message == "" {
		message = messages.General(messages.Success)
	}
	if code == 0 {
		code = 200
	}
	return SuccessEnvelope{
		Success: true,
		Message: message,
		Data:    data,
	}, code
}

// Error builds an error envelope.
// An empty message defaults to the catalog error text; a zero code defaults
// to 400. details is attached as ErrorDetails when non-nil.
func Error(message string, code int, details any) (Envelope, int) {
	if message == "" {
		message = messages.General(messages.Error)
	}
	if code == 0 {
		code = 400
	}
	return ErrorEnvelope{
		Success:      false,
		Message:      message,
		ErrorDetails: details,
	}, code
}

// Created builds a 201 success envelope for newly created resources.
func Created(data any, message string) (Envelope, int) {
	return Success(data, message, 201)
}

// NotFound builds a 404 error envelope with a "<resource> not found" message.
// An empty resource defaults to "Resource".
func NotFound(resource string) (Envelope, int) {
	if resource == "" {
		resource = "Resource"
	}
	return Error(fmt.Sprintf("%s not found", resource), 404, nil)
}

// Forbidden builds a 403 error envelope.
func Forbidden(message string) (Envelope, int) {
	if message == "" {
		message = messages.General(messages.Forbidden)
	}
	return Error(message, 403, nil)
}

// Unauthorized builds a 401 error envelope.
func Unauthorized(message string) (Envelope, int) {
	if message == "" {
		message = messages.General(messages.Unauthorized)
	}
	return Error(message, 401, nil)
}

// BadRequest builds a 400 error envelope.
func BadRequest(message string, details any) (Envelope, int) {
	if message == "" {
		message = messages.General(messages.BadRequest)
	}
	return Error(message, 400, details)
}

// Conflict builds a 409 error envelope for duplicate resources.
func Conflict(message string, details any) (Envelope, int) {
	if message == "" {
		message = messages.General(messages.Conflict)
	}
	return Error(message, 409, details)
}

// ServerError builds a 500 error envelope.
func ServerError(message string, details any) (Envelope, int) {
	if message == "" {
		message = messages.General(messages.InternalServerError)
	}
	return Error(message, 500, details)
}

// FromResult maps a generic operation result onto the right envelope and status
// code. A Result with a non-zero Code dispatches on that code; anything else is
// treated as plain data and wrapped in a default success envelope.
//
// When the carried value is a string it becomes the error message for the
// 400/401/403/409/500 branches. The 404 branch always uses the canned
// "<resource> not found" message and discards the carried string; this quirk is
// part of the existing contract and is preserved deliberately.
func FromResult(result any, resource string) (Envelope, int) {
	res, ok := result.(Result)
	if !ok || res.Code == 0 {
		if ok {
			return Success(res.Value, "", 0)
		}
		return Success(result, "", 0)
	}

	if resource == "" {
		resource = "Resource"
	}
	message, _ := res.Value.(string)

	switch res.Code {
	case 404:
		return NotFound(resource)
	case 400:
		return BadRequest(orCanned(message, messages.ByCode(400)), nil)
	case 409:
		return Conflict(orCanned(message, fmt.Sprintf("%s already exists", resource)), nil)
	case 401:
		return Unauthorized(orCanned(message, messages.ByCode(401)))
	case 403:
		return Forbidden(orCanned(message, messages.ByCode(403)))
	case 500:
		return ServerError(orCanned(message, messages.ByCode(500)), nil)
	case 201:
		return Created(res.Value, "")
	default:
		// Historical contract: passthrough codes carry the literal "Success".
		return Success(res.Value, "Success", res.Code)
	}
}

// FromError maps a domain error onto the matching envelope using the sentinel
// taxonomy from the errors package. Unknown errors render as a 500 without
// exposing internal details.
func FromError(err error, resource string) (Envelope, int) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return NotFound(resource)
	case apperrors.Is(err, apperrors.ErrConflict):
		return Conflict("", nil)
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return BadRequest(err.Error(), nil)
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return Unauthorized("")
	case apperrors.Is(err, apperrors.ErrForbidden):
		return Forbidden("")
	default:
		return ServerError("", nil)
	}
}

// ToJSON serializes an envelope to UTF-8 JSON. Non-ASCII characters are kept
// literal and HTML characters are not escaped, matching the existing wire
// format.
func ToJSON(env Envelope) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(env); err != nil {
		return "", apperrors.Wrap(err, "failed to encode envelope")
	}

	// Encoder.Encode appends a trailing newline.
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func orCanned(message, canned string) string {
	if message != "" {
		return message
	}
	return canned
}
