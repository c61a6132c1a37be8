package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/logiroute/internal/config"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"username":" Alice "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("username")(c)
	if key != "alice|1.2.3.4" {
		t.Fatalf("key want alice|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), " Alice ") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestRateLimitRuleKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/public/track/TN1", nil)
	c.Request.RemoteAddr = "10.0.0.9:1234"

	rule := RateLimitRule{Prefix: "lr:rate:track"}
	if got := rule.key(c, KeyByIP); got != "lr:rate:track:10.0.0.9" {
		t.Fatalf("unexpected key %s", got)
	}
	blank := func(*gin.Context) string { return "  " }
	if got := (RateLimitRule{}).key(c, blank); got != "10.0.0.9" {
		t.Fatalf("blank subject should fall back to ip, got %s", got)
	}
}

func TestKeyByIPAndJSONFieldFallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, body := range []string{``, `not-json`, `{"username": 42}`, `{"password":"x"}`} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		c.Request.RemoteAddr = "1.2.3.4:5678"
		if got := KeyByIPAndJSONField("username")(c); got != "1.2.3.4" {
			t.Fatalf("body %q: want ip fallback, got %s", body, got)
		}
	}
}

func TestRateLimitVerdictExceeded(t *testing.T) {
	rule := RateLimitRule{MaxRequests: 3}
	if (rateLimitVerdict{count: 3}).exceeded(rule) {
		t.Fatalf("count equal to limit is allowed")
	}
	if !(rateLimitVerdict{count: 4}).exceeded(rule) {
		t.Fatalf("count above limit is rejected")
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	rule := RateLimitRule{WindowSeconds: 60, BlockSeconds: 300}
	if got := retryAfterSeconds(42, rule); got != 42 {
		t.Fatalf("ttl should win, got %d", got)
	}
	if got := retryAfterSeconds(-1, rule); got != 300 {
		t.Fatalf("block seconds fallback want 300 got %d", got)
	}
	if got := retryAfterSeconds(0, RateLimitRule{WindowSeconds: 60}); got != 60 {
		t.Fatalf("window fallback want 60 got %d", got)
	}
	if got := retryAfterSeconds(0, RateLimitRule{}); got != 1 {
		t.Fatalf("minimum wait want 1 got %d", got)
	}
}

func TestNewRateLimitRule(t *testing.T) {
	rule := NewRateLimitRule("lr:rate:login", config.RateLimitConfig{WindowSeconds: 300, MaxAttempts: 5, BlockSeconds: 900})
	if rule.MaxRequests != 5 || rule.WindowSeconds != 300 || rule.BlockSeconds != 900 {
		t.Fatalf("unexpected rule: %+v", rule)
	}
	if rule.MessageKey != "error.too_many_requests" {
		t.Fatalf("unexpected message key %s", rule.MessageKey)
	}
}
