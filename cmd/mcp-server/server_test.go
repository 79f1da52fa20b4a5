package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gopoisson "github.com/njchilds90/gopoisson"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return newRouter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestServer_Tool(t *testing.T) {
	body := `{"tool":"poisson_cos","params":{"series":{"type":"poisson_series","terms":[{"coefficient":
		{"type":"polynomial","terms":[{"coefficient":"2","exponents":{"x":1}}]}}]}}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tool", strings.NewReader(body))
	testRouter(t).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	var resp gopoisson.ToolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Error)
	assert.Equal(t, "cos(2*x)", resp.String)
}

func TestServer_ToolKeepsRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tool", strings.NewReader(`{"tool":"mcp_spec"}`))
	req.Header.Set("X-Request-ID", "abc-123")
	testRouter(t).ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestServer_ToolRejectsBadJSON(t *testing.T) {
	for _, body := range []string{
		`{"tool":"mcp_spec","extra":1}`,
		`{"tool":"mcp_spec"} {"tool":"mcp_spec"}`,
		`not json`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tool", strings.NewReader(body))
		testRouter(t).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestServer_DivisorResultIsJSON(t *testing.T) {
	body := `{"tool":"divisor_canonicalize","params":{"divisor":{"entries":[{"values":[2,-1],"exponent":3}]}}}`
	w := httptest.NewRecorder()
	testRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tool", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"result":{"entries":[{"values":[2,-1],"exponent":3}]}`)
}

func TestServer_SchemaHealthMetrics(t *testing.T) {
	r := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/schema", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, json.Valid(w.Body.Bytes()))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.Contains(w.Body.Bytes(), []byte("go_goroutines")))
}
