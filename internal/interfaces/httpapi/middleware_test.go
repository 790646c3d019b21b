package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/race-tipping/internal/usecase"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORS(t *testing.T) {
	const site = "https://race-tipping.example.com"

	cases := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
		wantVary   bool
	}{
		{name: "listed origin", allowed: []string{" " + site}, method: http.MethodGet, origin: site, wantStatus: http.StatusOK, wantOrigin: site, wantVary: true},
		{name: "wildcard preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: site, wantStatus: http.StatusNoContent, wantOrigin: "*"},
		{name: "unlisted origin", allowed: []string{"https://allowed.example.com"}, method: http.MethodGet, origin: site, wantStatus: http.StatusOK},
		{name: "same origin request", allowed: []string{"*"}, method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "blank entries ignored", allowed: []string{"", "  "}, method: http.MethodGet, origin: site, wantStatus: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/v1/races", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tc.allowed, okHandler).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Fatalf("allow origin = %q, want %q", got, tc.wantOrigin)
			}
			if gotVary := rec.Header().Get("Vary") == "Origin"; gotVary != tc.wantVary {
				t.Fatalf("vary origin = %v, want %v", gotVary, tc.wantVary)
			}
		})
	}
}

func TestShouldTraceRequest(t *testing.T) {
	for path, want := range map[string]bool{
		"/healthz":        false,
		" /HEALTHZ ":      false,
		"/readyz":         false,
		"/metrics":        false,
		"/v1/leaderboard": true,
		"/v1/races":       true,
		"/":               true,
		"/docs":           true,
	} {
		if got := shouldTraceRequest(path); got != want {
			t.Fatalf("shouldTraceRequest(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "bearer   abc  ", want: "abc"},
		{header: "", wantErr: true},
		{header: "Basic abc", wantErr: true},
		{header: "Bearer", wantErr: true},
		{header: "Bearer   ", wantErr: true},
	}
	for _, tc := range cases {
		got, err := bearerToken(tc.header)
		if tc.wantErr {
			if !errors.Is(err, usecase.ErrUnauthorized) {
				t.Fatalf("bearerToken(%q) err = %v, want unauthorized", tc.header, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("bearerToken(%q) = %q, %v", tc.header, got, err)
		}
	}
}

func TestRequireInternalJobToken(t *testing.T) {
	cases := []struct {
		name       string
		configured string
		provided   string
		wantStatus int
	}{
		{name: "not configured", configured: " ", provided: "x", wantStatus: http.StatusServiceUnavailable},
		{name: "missing header", configured: "secret", wantStatus: http.StatusUnauthorized},
		{name: "wrong token", configured: "secret", provided: "secreT", wantStatus: http.StatusUnauthorized},
		{name: "match", configured: "secret", provided: " secret ", wantStatus: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/warm-leaderboard", nil)
			if tc.provided != "" {
				req.Header.Set(internalJobTokenHeader, tc.provided)
			}
			rec := httptest.NewRecorder()
			RequireInternalJobToken(tc.configured, okHandler).ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}
