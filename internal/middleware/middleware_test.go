package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Subject", GetSubject(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTAuth_DisabledPassesThrough(t *testing.T) {
	h := NewJWTAuth("", time.Hour).Middleware(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/logs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with auth disabled, got %d", rec.Code)
	}
}

func TestJWTAuth_RequiresBearerToken(t *testing.T) {
	auth := NewJWTAuth("secret", time.Hour)
	h := auth.Middleware(okHandler())

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/logs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}

	token, err := auth.GenerateAccessToken(AdminSubject)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/logs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected valid token to pass, got %d", rec.Code)
	}
	if rec.Header().Get("X-Subject") != AdminSubject {
		t.Fatalf("expected subject in context, got %q", rec.Header().Get("X-Subject"))
	}
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	auth := NewJWTAuth("secret", -time.Minute)
	token, err := auth.GenerateAccessToken(AdminSubject)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := auth.ParseToken(token); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	other := NewJWTAuth("other-secret", time.Hour)
	valid, _ := auth.GenerateAccessToken(AdminSubject)
	if _, err := other.ParseToken(valid); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	h := NewRateLimiter(2, time.Minute).Middleware(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/init-database", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/init-database", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected a different client to be allowed, got %d", rec.Code)
	}
}

func TestRateLimiter_Refills(t *testing.T) {
	h := NewRateLimiter(1, 50*time.Millisecond).Middleware(okHandler())

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/token", nil)
		req.RemoteAddr = "10.0.0.3:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("expected first request allowed, got %d", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request limited, got %d", code)
	}
	time.Sleep(80 * time.Millisecond)
	if code := do(); code != http.StatusOK {
		t.Fatalf("expected request allowed after refill, got %d", code)
	}
}

func TestRequestID(t *testing.T) {
	h := RequestID(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected incoming request id echoed, got %q", got)
	}
}

func TestCORS(t *testing.T) {
	h := CORS("http://localhost:5173, https://tracker.example")(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/courses", nil)
	req.Header.Set("Origin", "https://tracker.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected preflight 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://tracker.example" {
		t.Fatalf("expected allowed origin echoed")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("expected unknown origin to get no CORS headers")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected request itself to proceed, got %d", rec.Code)
	}
}
