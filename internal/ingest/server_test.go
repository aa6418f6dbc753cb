package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/faultline/internal/core/domain"
	"github.com/vietddude/faultline/internal/faults/dispatch"
	"github.com/vietddude/faultline/internal/report"
)

type countingReporter struct {
	mu         sync.Mutex
	severities []domain.Severity
}

func (r *countingReporter) ReportError(
	ctx context.Context,
	sig domain.ErrorSignal,
	severity domain.Severity,
	rctx report.Context,
) (*report.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.severities = append(r.severities, severity)
	return &report.Handle{Error: sig, ID: "r-1", Timestamp: time.Now()}, nil
}

func (r *countingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.severities)
}

func newTestServer(cfg dispatch.Config) (*Server, *countingReporter) {
	reporter := &countingReporter{}
	d := dispatch.New(cfg, reporter)
	return NewServer(d, 0, nil), reporter
}

func post(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) eventResponse {
	t.Helper()
	var resp eventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleError_ReportedWithPlan(t *testing.T) {
	server, reporter := newTestServer(dispatch.Config{})

	rec := post(t, server.Handler(), "/v1/events/error",
		`{"message":"read ECONNRESET","filename":"net.js","lineno":4,"colno":2}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Handled)
	assert.Equal(t, "reported", resp.Status)
	assert.Equal(t, "network", resp.Kind)
	require.NotNil(t, resp.DefaultAction)
	assert.Equal(t, "retry-with-backoff", resp.DefaultAction.ID)
	assert.True(t, resp.DefaultAction.Automatic)
	assert.NotEmpty(t, resp.Actions)
	assert.Equal(t, 1, reporter.count())
}

func TestHandleError_SuppressedPreventsDefault(t *testing.T) {
	server, reporter := newTestServer(dispatch.Config{})

	rec := post(t, server.Handler(), "/v1/events/error",
		`{"message":"ResizeObserver loop limit exceeded"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "suppressed_silently", resp.Status)
	assert.True(t, resp.DefaultPrevented)
	assert.Empty(t, resp.Actions)
	assert.Equal(t, 0, reporter.count())
}

func TestHandleRejection(t *testing.T) {
	server, _ := newTestServer(dispatch.Config{})

	rec := post(t, server.Handler(), "/v1/events/rejection",
		`{"reason":"Uncaught (in promise) 401 unauthorized"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "reported", resp.Status)
	assert.Equal(t, "authentication", resp.Kind)
}

func TestHandleFault_Isolating(t *testing.T) {
	server, reporter := newTestServer(dispatch.Config{})

	rec := post(t, server.Handler(), "/v1/events/fault",
		`{"message":"render exploded","componentStack":"in Widget","isolate":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "contained", resp.Status)
	assert.Equal(t, 1, reporter.count())
}

func TestHandleError_BadPayload(t *testing.T) {
	server, reporter := newTestServer(dispatch.Config{})

	rec := post(t, server.Handler(), "/v1/events/error", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, reporter.count())
}

func TestHandleError_DuplicateDebounced(t *testing.T) {
	server, reporter := newTestServer(dispatch.Config{DebounceWindow: time.Second})

	body := `{"message":"boom","filename":"app.js","lineno":1,"colno":1}`
	first := decodeResponse(t, post(t, server.Handler(), "/v1/events/error", body))
	second := decodeResponse(t, post(t, server.Handler(), "/v1/events/error", body))

	assert.Equal(t, "reported", first.Status)
	assert.Equal(t, "deduplicated", second.Status)
	assert.Equal(t, 1, reporter.count())
}
