package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientLimitersForgetIdleClients(t *testing.T) {
	now := time.Date(2025, 8, 16, 15, 0, 0, 0, time.UTC)
	c := newClientLimiters(4, time.Minute)
	c.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if !c.allow("10.0.0.1") {
			t.Fatalf("request %d should pass", i+1)
		}
	}
	if c.allow("10.0.0.1") {
		t.Fatalf("third request inside the burst should be limited")
	}

	now = now.Add(2 * time.Minute)
	if !c.allow("10.0.0.2") {
		t.Fatalf("new client should pass")
	}
	if n := c.size(); n != 1 {
		t.Fatalf("expected the idle client to be swept, %d remain", n)
	}
	if !c.allow("10.0.0.1") {
		t.Fatalf("swept client should start with a full bucket")
	}
}

func TestRateLimitPerClient(t *testing.T) {
	c := newClientLimiters(2, time.Hour)
	h := rateLimit(c, time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(addr string) int {
		req := httptest.NewRequest("GET", "/health", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	if code := serve("192.0.2.1:5000"); code != http.StatusNoContent {
		t.Fatalf("first request = %d", code)
	}
	if code := serve("192.0.2.1:5001"); code != http.StatusTooManyRequests {
		t.Fatalf("same host on another port = %d, want 429", code)
	}
	if code := serve("192.0.2.2:5000"); code != http.StatusNoContent {
		t.Fatalf("other host = %d", code)
	}
}
