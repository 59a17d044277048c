package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{
			name:       "normalizes charge path",
			method:     http.MethodPost,
			path:       "/api/v1/charges/01ABC123/ledger",
			statusCode: http.StatusOK,
		},
		{
			name:       "keeps non-matching path as-is",
			method:     http.MethodGet,
			path:       "/health",
			statusCode: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			httpRequestsTotal.Reset()
			httpRequestDuration.Reset()
			httpRequestsInFlight.Set(0)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			Metrics(next).ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			normalized := normalizePath(tc.path)
			counter := httpRequestsTotal.WithLabelValues(tc.method, normalized, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "charge ledger path",
			input:    "/api/v1/charges/01ABC123/ledger",
			expected: "/api/v1/charges/:id/ledger",
		},
		{
			name:     "charge path without suffix",
			input:    "/api/v1/charges/01ABC123",
			expected: "/api/v1/charges/:id",
		},
		{
			name:     "batch path stays literal",
			input:    "/api/v1/charges/ledger:batch",
			expected: "/api/v1/charges/ledger:batch",
		},
		{
			name:     "owner charges path",
			input:    "/api/v1/owners/owner-7/charges",
			expected: "/api/v1/owners/:id/charges",
		},
		{
			name:     "trip expense path",
			input:    "/api/v1/trip-expenses/01XYZ789",
			expected: "/api/v1/trip-expenses/:id",
		},
		{
			name:     "non-matching path",
			input:    "/metrics",
			expected: "/metrics",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePath(tc.input); got != tc.expected {
				t.Fatalf("normalizePath(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
