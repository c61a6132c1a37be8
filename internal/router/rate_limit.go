package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/logiroute/internal/config"
	handlershared "github.com/logiroute/internal/http/handlers/shared"
	"github.com/logiroute/internal/http/response"
	"github.com/logiroute/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 提取限流主体（IP、用户名等）
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
// BlockSeconds > 0 时，首次超限把 key 的过期时间延长为封禁时长
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int
	MessageKey    string
}

// NewRateLimitRule 由配置构造限流规则
func NewRateLimitRule(prefix string, cfg config.RateLimitConfig) RateLimitRule {
	return RateLimitRule{
		Prefix:        prefix,
		WindowSeconds: cfg.WindowSeconds,
		MaxRequests:   cfg.MaxAttempts,
		BlockSeconds:  cfg.BlockSeconds,
		MessageKey:    "error.too_many_requests",
	}
}

// 返回 {当前计数, 剩余 TTL}
var rateLimitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
if tonumber(ARGV[3]) > 0 and n == tonumber(ARGV[2]) + 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[3])
end
return {n, redis.call("TTL", KEYS[1])}
`)

// rateLimitVerdict 一次计数的结果
type rateLimitVerdict struct {
	count      int64
	retryAfter int
}

func (v rateLimitVerdict) exceeded(rule RateLimitRule) bool {
	return v.count > int64(rule.MaxRequests)
}

// hit 对 key 计数一次，返回当前窗口内的次数与剩余等待秒数
func (rule RateLimitRule) hit(ctx context.Context, client *redis.Client, key string) (rateLimitVerdict, error) {
	counters, err := rateLimitScript.Run(ctx, client, []string{key}, rule.WindowSeconds, rule.MaxRequests, rule.BlockSeconds).Int64Slice()
	if err != nil {
		return rateLimitVerdict{}, err
	}
	if len(counters) != 2 {
		return rateLimitVerdict{}, fmt.Errorf("rate limit script returned %d values", len(counters))
	}
	return rateLimitVerdict{count: counters[0], retryAfter: retryAfterSeconds(counters[1], rule)}, nil
}

func (rule RateLimitRule) key(c *gin.Context, keyFunc RateLimitKeyFunc) string {
	subject := ""
	if keyFunc != nil {
		subject = strings.TrimSpace(keyFunc(c))
	}
	if subject == "" {
		subject = c.ClientIP()
	}
	if rule.Prefix == "" {
		return subject
	}
	return rule.Prefix + ":" + subject
}

// RateLimitMiddleware 固定窗口限流，超限后按 BlockSeconds 封禁
// 未启用 Redis 或规则未配置时不限流；脚本执行失败时拒绝请求
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if client == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	msgKey := strings.TrimSpace(rule.MessageKey)
	if msgKey == "" {
		msgKey = "error.too_many_requests"
	}
	return func(c *gin.Context) {
		key := rule.key(c, keyFunc)
		verdict, err := rule.hit(c.Request.Context(), client, key)
		if err != nil {
			handlershared.RequestLog(c).Errorw("rate_limit_script_failed", "key", key, "error", err)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.internal"))
			c.Abort()
			return
		}
		if verdict.exceeded(rule) {
			handlershared.RequestLog(c).Warnw("rate_limit_exceeded", "key", key, "count", verdict.count)
			c.Header("Retry-After", strconv.Itoa(verdict.retryAfter))
			response.Error(c, response.CodeTooManyRequests, i18n.Sprintf(i18n.ResolveLocale(c), msgKey, verdict.retryAfter))
			c.Abort()
			return
		}
		c.Next()
	}
}

// retryAfterSeconds 优先取 key 的剩余 TTL，其次封禁时长、窗口时长，至少 1 秒
func retryAfterSeconds(ttlSeconds int64, rule RateLimitRule) int {
	for _, candidate := range []int{int(ttlSeconds), rule.BlockSeconds, rule.WindowSeconds} {
		if candidate >= 1 {
			return candidate
		}
	}
	return 1
}

// KeyByIP 按客户端 IP 限流
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 按 JSON 请求体字段（忽略大小写）+ IP 限流，字段缺失时退化为 IP
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(peekJSONString(c, field))
		if value == "" {
			return c.ClientIP()
		}
		return value + "|" + c.ClientIP()
	}
}

// peekJSONString 读取请求体中的字符串字段，读完后还原请求体供 handler 绑定
func peekJSONString(c *gin.Context, field string) string {
	if c.Request == nil || c.Request.Body == nil {
		return ""
	}
	raw, err := c.GetRawData()
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	var value string
	if err := json.Unmarshal(fields[field], &value); err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
