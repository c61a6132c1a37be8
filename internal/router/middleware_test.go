package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/logiroute/internal/authz"
	"github.com/logiroute/internal/config"
	"github.com/logiroute/internal/constants"
	handlershared "github.com/logiroute/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func TestCORSPolicyAllowOrigin(t *testing.T) {
	cases := []struct {
		name        string
		origins     []string
		credentials bool
		origin      string
		want        string
	}{
		{"wildcard", []string{"*"}, false, "https://example.com", "*"},
		{"empty list is wildcard", nil, false, "https://example.com", "*"},
		{"wildcard echoes with credentials", []string{"*"}, true, "https://example.com", "https://example.com"},
		{"allow list match", []string{"https://a.example.com", "https://b.example.com"}, false, "https://B.example.com", "https://B.example.com"},
		{"allow list miss", []string{"https://a.example.com"}, false, "https://x.example.com", ""},
		{"no origin header", []string{"https://a.example.com"}, true, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := newCORSPolicy(config.CORSConfig{AllowedOrigins: tc.origins, AllowCredentials: tc.credentials})
			if got := policy.allowOrigin(tc.origin); got != tc.want {
				t.Fatalf("want %q got %q", tc.want, got)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"https://ops.example.com"}, MaxAge: 600}))
	r.PATCH("/api/v1/shipments/1", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/shipments/1", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status want 204 got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://ops.example.com" {
		t.Fatalf("unexpected allow origin %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "PATCH") {
		t.Fatalf("PATCH should be allowed by default")
	}
	if w.Header().Get("Access-Control-Max-Age") != "600" {
		t.Fatalf("max age not set")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString(handlershared.ContextKeyRequestID)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

type stubAuthenticator struct {
	caller authz.Caller
	err    error
	token  string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, tokenString string) (authz.Caller, error) {
	s.token = tokenString
	return s.caller, s.err
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		header     string
		auth       *stubAuthenticator
		wantCode   int
		wantCaller uint
	}{
		{name: "missing header", header: "", auth: &stubAuthenticator{}, wantCode: 401},
		{name: "wrong scheme", header: "Basic abc", auth: &stubAuthenticator{}, wantCode: 401},
		{name: "rejected token", header: "Bearer bad", auth: &stubAuthenticator{err: errors.New("invalid token")}, wantCode: 401},
		{
			name:       "valid token",
			header:     "Bearer good",
			auth:       &stubAuthenticator{caller: authz.Caller{UserID: 7, Role: constants.RoleClient}},
			wantCode:   0,
			wantCaller: 7,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(AuthMiddleware(tc.auth))
			r.GET("/me", func(c *gin.Context) {
				caller := handlershared.CallerFromContext(c)
				c.JSON(http.StatusOK, gin.H{"status_code": 0, "user_id": caller.UserID})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			var resp struct {
				StatusCode int  `json:"status_code"`
				UserID     uint `json:"user_id"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response failed: %v", err)
			}
			if resp.StatusCode != tc.wantCode {
				t.Fatalf("status_code want %d got %d", tc.wantCode, resp.StatusCode)
			}
			if resp.UserID != tc.wantCaller {
				t.Fatalf("user_id want %d got %d", tc.wantCaller, resp.UserID)
			}
		})
	}
}

func TestAuthMiddlewareStripsBearerPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)

	auth := &stubAuthenticator{caller: authz.Caller{UserID: 1, Role: constants.RoleAdmin}}
	r := gin.New()
	r.Use(AuthMiddleware(auth))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer  token-123 ")
	r.ServeHTTP(w, req)

	if auth.token != "token-123" {
		t.Fatalf("token want token-123 got %q", auth.token)
	}
}
