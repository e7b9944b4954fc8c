package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func doCORSRequest(t *testing.T, allowedOrigins []string, method, origin string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	reachedNext := false
	handler := corsMiddleware(allowedOrigins)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reachedNext = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/api/programs", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr, reachedNext
}

func TestCORSMiddlewareAllowsConfiguredOrigin(t *testing.T) {
	rr, reachedNext := doCORSRequest(t, []string{"https://app.forgefit.example"}, http.MethodGet, "https://app.forgefit.example")

	if !reachedNext {
		t.Fatal("expected next handler to be called")
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.forgefit.example" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, "https://app.forgefit.example")
	}
}

func TestCORSMiddlewareAllowsLoopbackOrigin(t *testing.T) {
	for _, origin := range []string{"http://localhost:5173", "http://127.0.0.1:5173"} {
		rr, reachedNext := doCORSRequest(t, nil, http.MethodGet, origin)

		if !reachedNext {
			t.Fatalf("origin %q: expected loopback request to reach next handler", origin)
		}
		if rr.Code != http.StatusOK {
			t.Fatalf("origin %q: status = %d, want %d", origin, rr.Code, http.StatusOK)
		}
	}
}

func TestCORSMiddlewareAllowsRequestsWithoutOrigin(t *testing.T) {
	rr, reachedNext := doCORSRequest(t, []string{"https://app.forgefit.example"}, http.MethodGet, "")

	if !reachedNext {
		t.Fatal("expected same-origin request to reach next handler")
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestCORSMiddlewareRejectsDisallowedOrigin(t *testing.T) {
	rr, reachedNext := doCORSRequest(t, []string{"https://app.forgefit.example"}, http.MethodGet, "https://evil.example")

	if reachedNext {
		t.Fatal("expected next handler not to be called")
	}
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, body=%q", err, rr.Body.String())
	}
	if resp.Error.Code != ErrCodeInvalidRequest {
		t.Fatalf("error.code = %q, want %q", resp.Error.Code, ErrCodeInvalidRequest)
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	rr, reachedNext := doCORSRequest(t, []string{"https://app.forgefit.example"}, http.MethodOptions, "https://app.forgefit.example")

	if reachedNext {
		t.Fatal("expected preflight request not to reach next handler")
	}
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.forgefit.example" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, "https://app.forgefit.example")
	}
}
