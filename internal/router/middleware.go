package router

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/logiroute/internal/authz"
	"github.com/logiroute/internal/config"
	handlershared "github.com/logiroute/internal/http/handlers/shared"
	"github.com/logiroute/internal/http/response"
	"github.com/logiroute/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// Authenticator 将 Bearer Token 解析为调用方身份
type Authenticator interface {
	Authenticate(ctx context.Context, tokenString string) (authz.Caller, error)
}

// corsPolicy 预先计算好的跨域响应头
type corsPolicy struct {
	origins     []string
	anyOrigin   bool
	credentials bool
	methods     string
	headers     string
	maxAge      string
}

func newCORSPolicy(cfg config.CORSConfig) corsPolicy {
	p := corsPolicy{
		origins:     cfg.AllowedOrigins,
		credentials: cfg.AllowCredentials,
		methods:     joinOr(cfg.AllowedMethods, "GET, POST, PATCH, DELETE, OPTIONS"),
		headers:     joinOr(cfg.AllowedHeaders, "Content-Type, Accept-Language, Authorization, "+requestIDHeader),
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	p.anyOrigin = len(p.origins) == 0 || slices.Contains(p.origins, "*")
	return p
}

// allowOrigin 返回 Access-Control-Allow-Origin 的取值，空串表示不放行
// 携带凭证时浏览器不接受 *，改为回显请求来源
func (p corsPolicy) allowOrigin(origin string) string {
	switch {
	case p.anyOrigin && p.credentials && origin != "":
		return origin
	case p.anyOrigin:
		return "*"
	case origin == "":
		return ""
	}
	for _, allowed := range p.origins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

// CORSMiddleware 跨域处理，预检请求直接 204
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	policy := newCORSPolicy(cfg)
	return func(c *gin.Context) {
		h := c.Writer.Header()
		if origin := policy.allowOrigin(c.GetHeader("Origin")); origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				h.Add("Vary", "Origin")
			}
		}
		if policy.credentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		h.Set("Access-Control-Allow-Methods", policy.methods)
		h.Set("Access-Control-Allow-Headers", policy.headers)
		if policy.maxAge != "" {
			h.Set("Access-Control-Max-Age", policy.maxAge)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestIDMiddleware 沿用调用方传入的 X-Request-ID，缺失时生成
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(handlershared.ContextKeyRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// LoggerMiddleware 每个请求一条 request 日志，5xx 或 handler 错误记为 error
func LoggerMiddleware(base *zap.Logger) gin.HandlerFunc {
	if base == nil {
		base = zap.L()
	}
	log := base.Sugar()
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()

		fields := []any{
			"request_id", c.GetString(handlershared.ContextKeyRequestID),
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(began).Milliseconds(),
			"ip", c.ClientIP(),
			"user_id", handlershared.CallerFromContext(c).UserID,
		}
		switch {
		case len(c.Errors) > 0:
			log.Errorw("request", append(fields, "errors", c.Errors.String())...)
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Errorw("request", fields...)
		default:
			log.Infow("request", fields...)
		}
	}
}

// AuthMiddleware Bearer Token 鉴权中间件
// 通过后调用方身份写入上下文，角色判定交由授权守卫
func AuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticator == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		caller, err := authenticator.Authenticate(c.Request.Context(), tokenString)
		if err != nil || !caller.Authenticated() {
			handlershared.RequestLog(c).Debugw("auth_token_rejected", "error", err)
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		handlershared.SetCaller(c, caller)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, key string) {
	response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}
