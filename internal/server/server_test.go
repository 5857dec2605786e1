package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/agbru/besselj/internal/bessel"
	"github.com/agbru/besselj/internal/config"
	"github.com/agbru/besselj/internal/logging"
	"github.com/agbru/besselj/internal/membrane"
	"github.com/agbru/besselj/internal/service"
	"github.com/agbru/besselj/internal/service/mocks"
)

// createTestServer initializes a server over the given evaluators with a
// discarded log and a generous rate limit.
func createTestServer(registry map[string]bessel.Evaluator, opts ...Option) *Server {
	cfg := config.AppConfig{Port: "8080", MaxOrder: 1000}
	opts = append([]Option{
		WithLogger(logging.NewLogger(io.Discard, "server")),
		WithRateLimiter(NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 10000})),
	}, opts...)
	return NewServer(bessel.NewTestFactory(registry), cfg, opts...)
}

func realEvaluators() map[string]bessel.Evaluator {
	return map[string]bessel.Evaluator{
		bessel.AlgoMiller: bessel.NewEvaluator(bessel.MillerEvaluator{}),
		bessel.AlgoStdlib: bessel.NewEvaluator(bessel.StdlibEvaluator{}),
	}
}

func decodeEvaluate(t *testing.T, body io.Reader) EvaluateResponse {
	t.Helper()
	var resp EvaluateResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode evaluate response: %v", err)
	}
	return resp
}

// TestHandleEvaluate verifies the evaluation endpoint against real evaluators.
func TestHandleEvaluate(t *testing.T) {
	server := createTestServer(realEvaluators())

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedN      int
		expectedValue  float64
		expectedBody   string
	}{
		{"Default algorithm", "x=1&n=0", http.StatusOK, 0, 0.7651976865579666, ""},
		{"Explicit stdlib", "x=10&n=5&algo=stdlib", http.StatusOK, 5, -0.2340615281867936, ""},
		{"Fractional order rounds down", "x=1&n=2.4", http.StatusOK, 2, 0.1149034849319005, ""},
		{"Fractional order rounds up", "x=1&n=1.5", http.StatusOK, 2, 0.1149034849319005, ""},
		{"Negative order", "x=5&n=-1", http.StatusOK, -1, 0.3275791375914652, ""},
		{"Missing x", "n=2", http.StatusBadRequest, 0, 0, "Missing 'x' parameter"},
		{"Missing n", "x=2", http.StatusBadRequest, 0, 0, "Missing 'n' parameter"},
		{"Invalid x", "x=abc&n=2", http.StatusBadRequest, 0, 0, "Invalid 'x' parameter"},
		{"Infinite order", "x=1&n=Inf", http.StatusBadRequest, 0, 0, "must be a finite number"},
		{"Huge order", "x=1&n=1e12", http.StatusBadRequest, 0, 0, "order out of range"},
		{"Astronomical order", "x=1&n=1e300", http.StatusBadRequest, 0, 0, "order out of range"},
		{"Order rounding past int32", "x=1&n=-2147483647.6", http.StatusBadRequest, 0, 0, "order out of range"},
		{"Order over limit", "x=1&n=1001", http.StatusBadRequest, 0, 0, "exceeds the maximum allowed (1000)"},
		{"Unknown algorithm", "x=1&n=2&algo=bogus", http.StatusBadRequest, 0, 0, "unknown evaluator: bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/evaluate?"+tt.query, http.NoBody)
			w := httptest.NewRecorder()

			server.handleEvaluate(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}
			if tt.expectedStatus != http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				if !strings.Contains(string(body), tt.expectedBody) {
					t.Errorf("Expected body to contain %q, got %q", tt.expectedBody, body)
				}
				return
			}

			got := decodeEvaluate(t, resp.Body)
			if got.N != tt.expectedN {
				t.Errorf("Expected n=%d, got %d", tt.expectedN, got.N)
			}
			if got.Value == nil {
				t.Fatalf("Expected a value, got error %q", got.Error)
			}
			if math.Abs(float64(*got.Value)-tt.expectedValue) > 1e-6 {
				t.Errorf("Expected value %.10g, got %.10g", tt.expectedValue, float64(*got.Value))
			}
		})
	}
}

// TestHandleEvaluateNonFinite verifies that NaN results survive JSON encoding.
func TestHandleEvaluateNonFinite(t *testing.T) {
	server := createTestServer(realEvaluators())

	req := httptest.NewRequest("GET", "/evaluate?x=NaN&n=3", http.NoBody)
	w := httptest.NewRecorder()
	server.handleEvaluate(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"value":"NaN"`) {
		t.Errorf("Expected NaN to be encoded as a string, got %s", body)
	}
	if !strings.Contains(string(body), `"x":"NaN"`) {
		t.Errorf("Expected x to be encoded as a string, got %s", body)
	}
}

// TestHandleEvaluateWithMockService checks the request is forwarded to the
// service with the rounded order and that evaluation errors are reported in
// the body.
func TestHandleEvaluateWithMockService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().
		Evaluate(gomock.Any(), "stdlib", 2.5, -3).
		Return(0.25, nil)
	svc.EXPECT().
		Evaluate(gomock.Any(), "miller", 1.0, 4).
		Return(0.0, context.DeadlineExceeded)

	server := createTestServer(nil, WithService(svc))

	req := httptest.NewRequest("GET", "/evaluate?x=2.5&n=-2.6&algo=stdlib", http.NoBody)
	w := httptest.NewRecorder()
	server.handleEvaluate(w, req)
	got := decodeEvaluate(t, w.Result().Body)
	if got.Value == nil || float64(*got.Value) != 0.25 {
		t.Errorf("Expected value 0.25, got %+v", got)
	}
	if got.RequestedN != -2.6 || got.N != -3 {
		t.Errorf("Expected requested_n=-2.6 and n=-3, got %v and %d", got.RequestedN, got.N)
	}

	req = httptest.NewRequest("GET", "/evaluate?x=1&n=4", http.NoBody)
	w = httptest.NewRecorder()
	server.handleEvaluate(w, req)
	got = decodeEvaluate(t, w.Result().Body)
	if got.Value != nil {
		t.Errorf("Expected no value on error, got %v", *got.Value)
	}
	if got.Error != context.DeadlineExceeded.Error() {
		t.Errorf("Expected error %q, got %q", context.DeadlineExceeded.Error(), got.Error)
	}
}

// TestHandleMembrane verifies the membrane endpoint with the default mode.
func TestHandleMembrane(t *testing.T) {
	server := createTestServer(realEvaluators())

	req := httptest.NewRequest("GET", "/membrane?rings=8&spokes=16", http.NoBody)
	w := httptest.NewRecorder()
	server.handleMembrane(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var got MembraneResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode membrane response: %v", err)
	}
	if got.Frame == nil {
		t.Fatal("Expected a frame")
	}
	if len(got.Frame.Rings) != 9 || len(got.Frame.Rings[0]) != 17 {
		t.Errorf("Expected a 9x17 grid, got %dx%d", len(got.Frame.Rings), len(got.Frame.Rings[0]))
	}
	if got.Frame.Mode != (membrane.Mode{M: 3, K: 2}) {
		t.Errorf("Expected default mode (3,2), got %v", got.Frame.Mode)
	}
	if got.Stats.Max < got.Stats.Min {
		t.Errorf("Expected max >= min, got %+v", got.Stats)
	}
}

// TestHandleMembraneErrors verifies parameter validation on /membrane.
func TestHandleMembraneErrors(t *testing.T) {
	server := createTestServer(realEvaluators(), WithSecurityConfig(SecurityConfig{MaxOrder: 1000, MaxSegments: 64}))

	tests := []struct {
		name         string
		query        string
		expectedCode int
		expectedBody string
	}{
		{"Invalid m", "m=x", http.StatusBadRequest, "Invalid 'm' parameter"},
		{"Mode out of range", "m=9&k=1", http.StatusBadRequest, "out of range"},
		{"Invalid time", "t=NaN", http.StatusBadRequest, "Invalid 't' parameter"},
		{"Grid too large", "rings=65", http.StatusBadRequest, "Grid too large"},
		{"Negative radius", "radius=-1", http.StatusBadRequest, "radius"},
		{"Unknown algorithm", "algo=bogus", http.StatusBadRequest, "unknown evaluator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/membrane?"+tt.query, http.NoBody)
			w := httptest.NewRecorder()
			server.handleMembrane(w, req)

			resp := w.Result()
			defer resp.Body.Close()
			if resp.StatusCode != tt.expectedCode {
				t.Errorf("Expected status %d, got %d", tt.expectedCode, resp.StatusCode)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.expectedBody) {
				t.Errorf("Expected body to contain %q, got %q", tt.expectedBody, body)
			}
		})
	}
}

// TestHandleMembraneServiceError maps sampling failures to status codes.
func TestHandleMembraneServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockService(ctrl)
	gomock.InOrder(
		svc.EXPECT().Sample(gomock.Any(), "miller", gomock.Any(), 0.5).Return(nil, context.DeadlineExceeded),
		svc.EXPECT().Sample(gomock.Any(), "miller", gomock.Any(), 0.5).Return(nil, errors.New("boom")),
	)
	server := createTestServer(nil, WithService(svc))

	for _, want := range []int{http.StatusGatewayTimeout, http.StatusInternalServerError} {
		req := httptest.NewRequest("GET", "/membrane?t=0.5", http.NoBody)
		w := httptest.NewRecorder()
		server.handleMembrane(w, req)
		if w.Code != want {
			t.Errorf("Expected status %d, got %d", want, w.Code)
		}
	}
}

// TestETag verifies conditional requests against the BLAKE3 entity tag.
func TestETag(t *testing.T) {
	server := createTestServer(realEvaluators())
	handler := server.Handler()

	req := httptest.NewRequest("GET", "/evaluate?x=3&n=2", http.NoBody)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	etag := w.Header().Get("ETag")
	if w.Code != http.StatusOK || etag == "" {
		t.Fatalf("Expected 200 with an ETag, got %d and %q", w.Code, etag)
	}
	if len(etag) != 34 || etag[0] != '"' {
		t.Errorf("Expected a quoted 32-digit tag, got %q", etag)
	}

	req = httptest.NewRequest("GET", "/evaluate?x=3&n=2", http.NoBody)
	req.Header.Set("If-None-Match", `"other", W/`+etag)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Errorf("Expected 304 for a matching tag, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected an empty 304 body, got %q", w.Body.String())
	}

	req = httptest.NewRequest("GET", "/evaluate?x=3&n=3", http.NoBody)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for a different resource, got %d", w.Code)
	}
	if w.Header().Get("ETag") == etag {
		t.Error("Expected different bodies to get different tags")
	}
}

// TestHandleHealth verifies the health check endpoint.
func TestHandleHealth(t *testing.T) {
	server := createTestServer(nil)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	w := httptest.NewRecorder()

	server.handleHealth(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var healthResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		t.Errorf("Failed to decode health response: %v", err)
	}

	if healthResp["status"] != "healthy" {
		t.Errorf("Expected status=healthy, got %v", healthResp["status"])
	}
}

// TestHandleAlgorithms verifies the algorithms listing endpoint.
func TestHandleAlgorithms(t *testing.T) {
	server := createTestServer(realEvaluators())

	req := httptest.NewRequest("GET", "/algorithms", http.NoBody)
	w := httptest.NewRecorder()

	server.handleAlgorithms(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	var algoResp struct {
		Algorithms []string `json:"algorithms"`
		Default    string   `json:"default"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&algoResp); err != nil {
		t.Fatalf("Failed to decode algorithms response: %v", err)
	}

	if fmt.Sprint(algoResp.Algorithms) != "[miller stdlib]" {
		t.Errorf("Expected [miller stdlib], got %v", algoResp.Algorithms)
	}
	if algoResp.Default != bessel.AlgoMiller {
		t.Errorf("Expected default %q, got %q", bessel.AlgoMiller, algoResp.Default)
	}
}

// TestMethodNotAllowed verifies that non-GET methods are rejected.
func TestMethodNotAllowed(t *testing.T) {
	server := createTestServer(nil)
	handler := server.Handler()

	for _, endpoint := range []string{"/evaluate", "/membrane", "/health", "/algorithms", "/metrics"} {
		t.Run(endpoint, func(t *testing.T) {
			req := httptest.NewRequest("POST", endpoint, http.NoBody)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected status 405, got %d", w.Code)
			}
		})
	}
}

// TestMetricsEndpoint verifies the Prometheus exposition includes server and
// evaluator metrics.
func TestMetricsEndpoint(t *testing.T) {
	server := createTestServer(realEvaluators())
	handler := server.Handler()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/evaluate?x=2&n=2", http.NoBody))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", http.NoBody))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, name := range []string{"besselj_requests_total", "besselj_evaluations_total", "besselj_active_requests"} {
		if !strings.Contains(body, name) {
			t.Errorf("Expected metrics output to contain %s", name)
		}
	}
}

// TestLoggingMiddleware verifies that the logging middleware executes the
// next handler and records the status code.
func TestLoggingMiddleware(t *testing.T) {
	var buf strings.Builder
	server := createTestServer(nil, WithStdLogger(log.New(&buf, "", 0)))

	handlerCalled := false
	wrapped := server.loggingMiddleware(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusTeapot)
	})

	wrapped(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", http.NoBody))

	if !handlerCalled {
		t.Error("Handler was not called")
	}
	if !strings.Contains(buf.String(), "{status 418}") || !strings.Contains(buf.String(), "{path /test}") {
		t.Errorf("Expected request log with status and path, got %q", buf.String())
	}
}

// TestParseEvaluateParams verifies parameter extraction in isolation.
func TestParseEvaluateParams(t *testing.T) {
	tests := []struct {
		query   string
		wantX   float64
		wantN   float64
		algo    string
		wantErr bool
	}{
		{"x=1&n=2", 1, 2, "miller", false},
		{"x=-3.5&n=-0.4&algo=stdlib", -3.5, -0.4, "stdlib", false},
		{"x=1e3&n=7", 1000, 7, "miller", false},
		{"x=1&n=NaN", 0, 0, "", true},
		{"x=&n=1", 0, 0, "", true},
		{"x=1&n=two", 0, 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/evaluate?"+tt.query, http.NoBody)
			x, n, algo, err := parseEvaluateParams(req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseEvaluateParams() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var parseErr RequestParseError
				if !errors.As(err, &parseErr) || parseErr.StatusCode != http.StatusBadRequest {
					t.Errorf("Expected a 400 RequestParseError, got %v", err)
				}
				return
			}
			if x != tt.wantX || n != tt.wantN || algo != tt.algo {
				t.Errorf("got (%v, %v, %q), want (%v, %v, %q)", x, n, algo, tt.wantX, tt.wantN, tt.algo)
			}
		})
	}
}

// TestOptions verifies the functional options.
func TestOptions(t *testing.T) {
	cfg := config.AppConfig{Port: "8080"}
	factory := bessel.NewTestFactory(nil)

	server := NewServer(factory, cfg, WithLogger(nil), WithService(nil))
	if server.logger == nil {
		t.Error("expected default logger to be set")
	}
	if server.service == nil {
		t.Error("expected default service to be initialized")
	}
	if server.securityConfig.MaxOrder != service.DefaultMaxOrder {
		t.Errorf("expected default MaxOrder=%d, got %d", service.DefaultMaxOrder, server.securityConfig.MaxOrder)
	}

	server = NewServer(factory, cfg, WithMaxOrder(42))
	if server.securityConfig.MaxOrder != 42 {
		t.Errorf("expected MaxOrder=42, got %d", server.securityConfig.MaxOrder)
	}
	if svc, ok := server.service.(*service.EvaluatorService); !ok || svc.MaxOrder() != 42 {
		t.Errorf("expected the default service to enforce MaxOrder=42")
	}

	server = NewServer(factory, cfg, WithMaxSegments(12))
	if server.securityConfig.MaxSegments != 12 {
		t.Errorf("expected MaxSegments=12, got %d", server.securityConfig.MaxSegments)
	}

	server = NewServer(factory, config.AppConfig{Port: "8080", MaxOrder: 77})
	if server.securityConfig.MaxOrder != 77 {
		t.Errorf("expected MaxOrder from config, got %d", server.securityConfig.MaxOrder)
	}

	customTimeouts := Timeouts{
		RequestTimeout:  time.Minute,
		ShutdownTimeout: 5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    7 * time.Second,
		IdleTimeout:     time.Minute,
	}
	server = NewServer(factory, cfg, WithTimeouts(customTimeouts))
	if server.timeouts != customTimeouts {
		t.Errorf("expected timeouts %+v, got %+v", customTimeouts, server.timeouts)
	}
	if server.httpServer.ReadTimeout != customTimeouts.ReadTimeout {
		t.Errorf("expected ReadTimeout=%v, got %v", customTimeouts.ReadTimeout, server.httpServer.ReadTimeout)
	}
}

// TestServer_Start_GracefulShutdown starts the server on a random port and
// stops it with a signal.
func TestServer_Start_GracefulShutdown(t *testing.T) {
	server := NewServer(bessel.NewTestFactory(realEvaluators()), config.AppConfig{Port: "0"},
		WithLogger(logging.NewLogger(io.Discard, "server")))

	done := make(chan error, 1)
	go func() {
		done <- server.Start()
	}()

	time.Sleep(100 * time.Millisecond)
	server.shutdownSignal <- syscall.SIGTERM

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Server stopped with error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Server failed to stop within timeout")
	}
}

// TestWriteJSONResponse_Error ensures unencodable data yields a 500.
func TestWriteJSONResponse_Error(t *testing.T) {
	server := createTestServer(nil)
	w := httptest.NewRecorder()

	server.writeJSONResponse(w, nil, http.StatusOK, map[string]any{"bad": make(chan int)})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}
