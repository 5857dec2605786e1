package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{
			name:     "X-Forwarded-For",
			headers:  map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"},
			remote:   "9.9.9.9:1234",
			expected: "1.2.3.4",
		},
		{
			name:     "X-Real-IP",
			headers:  map[string]string{"X-Real-IP": "5.6.7.8"},
			remote:   "9.9.9.9:1234",
			expected: "5.6.7.8",
		},
		{
			name:     "RemoteAddr",
			headers:  map[string]string{},
			remote:   "9.9.9.9:1234",
			expected: "9.9.9.9",
		},
		{
			name:     "IPv6 RemoteAddr",
			headers:  map[string]string{},
			remote:   "[::1]:8080",
			expected: "::1",
		},
		{
			name:     "RemoteAddr without port",
			headers:  map[string]string{},
			remote:   "10.0.0.1",
			expected: "10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", http.NoBody)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			req.RemoteAddr = tt.remote

			got := getClientIP(req)
			if got != tt.expected {
				t.Errorf("getClientIP() = %q; want %q", got, tt.expected)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 3})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("fourth request should be rejected")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("another client should have its own budget")
	}
}

func TestRateLimiterEvictIdle(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 10})
	defer rl.Stop()

	rl.Allow("1.2.3.4")

	rl.evictIdle(time.Now())
	rl.mu.Lock()
	if len(rl.clients) != 1 {
		t.Error("Active client should be kept")
	}
	rl.mu.Unlock()

	rl.evictIdle(time.Now().Add(3 * time.Minute))
	rl.mu.Lock()
	if len(rl.clients) != 0 {
		t.Error("Idle client should have been evicted")
	}
	rl.mu.Unlock()

	rl.Stop()
	rl.Stop()
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 1})
	defer rl.Stop()

	handler := RateLimitMiddleware(rl, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/evaluate", http.NoBody)
	req.RemoteAddr = "1.1.1.1:1"

	w := httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request: expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected a Retry-After header")
	}
}

func TestSecurityMiddleware(t *testing.T) {
	called := false
	handler := SecurityMiddleware(DefaultSecurityConfig(), func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	req.Header.Set("Origin", "https://example.org")
	w := httptest.NewRecorder()
	handler(w, req)

	if !called {
		t.Error("next handler was not called")
	}
	for header, want := range map[string]string{
		"X-Content-Type-Options":       "nosniff",
		"X-Frame-Options":              "DENY",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, OPTIONS",
	} {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}

	called = false
	w = httptest.NewRecorder()
	handler(w, httptest.NewRequest("OPTIONS", "/evaluate", http.NoBody))
	if called {
		t.Error("preflight should not reach the handler")
	}
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight: expected 204, got %d", w.Code)
	}
}

func TestSecurityMiddlewareRestrictedOrigin(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.AllowedOrigins = []string{"https://allowed.example"}
	handler := SecurityMiddleware(cfg, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	handler(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected CORS origin %q", got)
	}
}
