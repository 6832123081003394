package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UserHeader is the identity header used by the HTTP tests.
const UserHeader = "X-User-Id"

// CreateTestServer creates a httptest server with the given handler.
// Automatically registers cleanup via t.Cleanup() so callers don't need to manually close the server.
func CreateTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		server.Close()
	})
	return server
}

// ServeRequest runs a request through handler and returns the recorded response.
// body may be nil, a string (sent verbatim) or any value encoded as JSON.
// An empty userID sends no identity header.
func ServeRequest(
	t *testing.T,
	handler http.Handler,
	method, target, userID string,
	body any,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err, "failed to marshal request body")
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(UserHeader, userID)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// DecodeJSON decodes the recorded response body into T.
func DecodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

// ErrorBody is the shape of an error response.
type ErrorBody struct {
	Error  string `json:"error"`
	Issues []struct {
		Code    string   `json:"code"`
		Path    []string `json:"path"`
		Message string   `json:"message"`
	} `json:"issues"`
}

// AssertErrorResponse checks the status code and error message of a recorded response
// and returns the decoded body for further checks.
func AssertErrorResponse(
	t *testing.T,
	rec *httptest.ResponseRecorder,
	expectedStatus int,
	expectedError string,
) ErrorBody {
	t.Helper()

	assert.Equal(t, expectedStatus, rec.Code, "body: %s", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	body := DecodeJSON[ErrorBody](t, rec)
	assert.Equal(t, expectedError, body.Error)
	return body
}
