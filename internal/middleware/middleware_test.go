package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"iptvsite/internal/models"
	"iptvsite/internal/ratelimit"
	"iptvsite/internal/reqctx"
	"iptvsite/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeSessions map[string]models.AdminSummary

func (f fakeSessions) CheckSession(_ context.Context, token string) (*models.AdminSummary, bool) {
	a, ok := f[token]
	if !ok {
		return nil, false
	}
	return &a, true
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func TestLoadSessionAndRequireAdmin(t *testing.T) {
	sessions := fakeSessions{"good": {ID: 9, Email: "admin@site.com"}}
	var seen int64
	h := LoadSession(sessions)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = reqctx.GetAdminID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	cases := []struct {
		name   string
		cookie string
		want   int
	}{
		{"no cookie", "", http.StatusUnauthorized},
		{"bad cookie", "forged", http.StatusUnauthorized},
		{"valid cookie", "good", http.StatusNoContent},
	}
	for _, tc := range cases {
		seen = 0
		req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
		if tc.cookie != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tc.cookie})
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != tc.want {
			t.Fatalf("%s: status %d, want %d", tc.name, rec.Code, tc.want)
		}
		if tc.want == http.StatusUnauthorized && errorBody(t, rec) != "Authentication required" {
			t.Fatalf("%s: body %s", tc.name, rec.Body.String())
		}
		if tc.want == http.StatusNoContent && seen != 9 {
			t.Fatalf("%s: admin id %d not in context", tc.name, seen)
		}
	}
}

func TestLoadSessionNeverRejects(t *testing.T) {
	called := false
	h := LoadSession(fakeSessions{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := reqctx.GetAdminID(r.Context()); ok {
			t.Error("admin set for an invalid session")
		}
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "whatever"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Fatal("public handler not reached")
	}
}

func TestRateLimitBlocksFourthOTPRequest(t *testing.T) {
	rule := ratelimit.Rule{Name: "otp_request", Limit: 3, Window: 15 * time.Minute, Message: "Too many password reset requests. Please try again later."}
	m := telemetry.NewMetrics()
	issued := 0
	h := RateLimit(ratelimit.NewMemory(), rule, m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		issued++
		w.WriteHeader(http.StatusOK)
	}))

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/password/forgot-password", strings.NewReader(`{"email":"admin@site.com"}`))
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 3; i++ {
		if rec := send("203.0.113.7"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i+1, rec.Code)
		}
	}
	rec := send("203.0.113.7")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("4th request: status %d", rec.Code)
	}
	if errorBody(t, rec) != rule.Message {
		t.Fatalf("4th request body: %s", rec.Body.String())
	}
	if issued != 3 {
		t.Fatalf("handler ran %d times, want 3", issued)
	}
	if got := testutil.ToFloat64(m.RateLimited.WithLabelValues("otp_request")); got != 1 {
		t.Fatalf("rate limited counter = %v", got)
	}

	if rec := send("198.51.100.1"); rec.Code != http.StatusOK {
		t.Fatalf("other client limited: %d", rec.Code)
	}
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return false, context.DeadlineExceeded
}

func TestRateLimitFailsOpen(t *testing.T) {
	called := false
	h := RateLimit(brokenLimiter{}, ratelimit.Rule{Name: "x", Limit: 1, Window: time.Minute}, nil)(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	if !called {
		t.Fatal("limiter error blocked the request")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	TrustProxy = false
	if got := ClientIP(req); got != "10.0.0.5" {
		t.Fatalf("untrusted: %q", got)
	}
	TrustProxy = true
	defer func() { TrustProxy = false }()
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Fatalf("trusted: %q", got)
	}
}

func TestRequestID(t *testing.T) {
	var fromCtx string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx, _ = reqctx.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if fromCtx != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("caller id not kept: ctx=%q header=%q", fromCtx, rec.Header().Get(RequestIDHeader))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(fromCtx) != 36 {
		t.Fatalf("generated id %q", fromCtx)
	}
}

func TestRecovererAnswersJSON(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError || errorBody(t, rec) != "Server error" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}
}
