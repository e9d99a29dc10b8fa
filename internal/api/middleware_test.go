package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoggingMiddlewareKeepsWriterFeatures(t *testing.T) {
	var flushErr error
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		flushErr = http.NewResponseController(w).Flush()
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	if flushErr != nil {
		t.Errorf("expected flush through the logging wrapper, got %v", flushErr)
	}
	if !rec.Flushed {
		t.Error("expected underlying recorder to be flushed")
	}
	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rec.Code)
	}
}
