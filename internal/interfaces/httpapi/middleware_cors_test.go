package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsProbe(t *testing.T, origins []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	handler := CORS(origins, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/v1/table", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORS_ExactOriginEchoedWithVary(t *testing.T) {
	origins := []string{"https://fpl-live.pages.dev", "https://staging.fpl-live.dev"}

	rec := corsProbe(t, origins, http.MethodGet, "https://staging.fpl-live.dev")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://staging.fpl-live.dev" {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("expected Vary: Origin for exact match, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through status 200, got %d", rec.Code)
	}
}

func TestCORS_WildcardShortCircuitsPreflight(t *testing.T) {
	rec := corsProbe(t, []string{"*"}, http.MethodOptions, "https://anywhere.example.com")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected preflight status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatalf("expected allow-methods header on preflight")
	}
}

func TestCORS_UnknownOriginGetsNoHeaders(t *testing.T) {
	rec := corsProbe(t, []string{"https://allowed.example.com"}, http.MethodGet, "https://intruder.example.com")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin header, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("request itself should still reach the handler, got %d", rec.Code)
	}
}

func TestCORS_NoOriginHeaderPassesThrough(t *testing.T) {
	rec := corsProbe(t, []string{"*"}, http.MethodGet, "")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS headers without an Origin, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
