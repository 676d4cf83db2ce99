package httputil_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/svckit/svckit/internal/errors"
	"github.com/svckit/svckit/internal/httputil"
	"github.com/svckit/svckit/internal/response"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	c.Request = req
	return c, w
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRender(t *testing.T) {
	c, w := testContext(t)

	env, code := response.Success(map[string]any{"id": 1}, "", 0)
	httputil.Render(c, env, code)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "operation completed", body["message"])
}

func TestRenderKeepsHTMLAndUnicodeLiteral(t *testing.T) {
	c, w := testContext(t)

	env, code := response.Success(map[string]any{"name": "<admin> & Ünïcode"}, "", 0)
	httputil.Render(c, env, code)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"<admin> & Ünïcode"`)
	assert.NotContains(t, w.Body.String(), `<`)
	assert.NotContains(t, w.Body.String(), `&`)
}

func TestRenderResult(t *testing.T) {
	tests := []struct {
		name         string
		result       any
		resource     string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "not found result",
			result:       response.Result{Value: "whatever", Code: 404},
			resource:     "User",
			expectedCode: http.StatusNotFound,
			expectedBody: `"Message":"User not found"`,
		},
		{
			name:         "created result",
			result:       response.Result{Value: map[string]int{"id": 2}, Code: 201},
			expectedCode: http.StatusCreated,
			expectedBody: `"success":true`,
		},
		{
			name:         "bare value",
			result:       map[string]int{"id": 3},
			expectedCode: http.StatusOK,
			expectedBody: `"message":"operation completed"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(t)

			httputil.RenderResult(c, tt.result, tt.resource)

			assert.Equal(t, tt.expectedCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		resource     string
		expectedCode int
	}{
		{name: "nil error writes nothing", err: nil, expectedCode: http.StatusOK},
		{name: "not found", err: apperrors.ErrNotFound, resource: "Report", expectedCode: http.StatusNotFound},
		{name: "unauthorized", err: apperrors.Wrap(apperrors.ErrUnauthorized, "bad token"), expectedCode: http.StatusUnauthorized},
		{name: "forbidden", err: apperrors.ErrForbidden, expectedCode: http.StatusForbidden},
		{name: "conflict", err: apperrors.ErrConflict, expectedCode: http.StatusConflict},
		{name: "invalid input", err: apperrors.Wrap(apperrors.ErrInvalidInput, "name required"), expectedCode: http.StatusBadRequest},
		{name: "unknown error hides details", err: apperrors.New("secret detail"), expectedCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(t)

			httputil.HandleError(c, tt.err, tt.resource, discardLogger())

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.err != nil && tt.expectedCode == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "secret detail")
			}
		})
	}
}

func TestHandleBadRequest(t *testing.T) {
	c, w := testContext(t)

	httputil.HandleBadRequest(c, apperrors.New("unexpected EOF"), discardLogger())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"Message":"unexpected EOF"`)
	assert.Contains(t, w.Body.String(), `"Success":false`)
}

func TestHandleValidationError(t *testing.T) {
	c, w := testContext(t)

	err := apperrors.Wrap(apperrors.ErrInvalidInput, "sub: cannot be blank")
	httputil.HandleValidationError(c, err, discardLogger())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot be blank")
}
