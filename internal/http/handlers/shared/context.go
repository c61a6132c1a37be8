package shared

import (
	"strconv"
	"strings"

	"github.com/logiroute/internal/authz"
	"github.com/logiroute/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	ContextKeyCaller    = "caller"
	ContextKeyUserID    = "user_id"
	ContextKeyRole      = "role"
	ContextKeyRequestID = "request_id"
)

// SetCaller 写入已认证调用方。
func SetCaller(c *gin.Context, caller authz.Caller) {
	c.Set(ContextKeyCaller, caller)
	c.Set(ContextKeyUserID, caller.UserID)
	c.Set(ContextKeyRole, caller.Role)
}

// CallerFromContext 读取调用方，未认证时返回匿名调用方。
func CallerFromContext(c *gin.Context) authz.Caller {
	if c == nil {
		return authz.Anonymous()
	}
	value, exists := c.Get(ContextKeyCaller)
	if !exists {
		return authz.Anonymous()
	}
	caller, ok := value.(authz.Caller)
	if !ok {
		return authz.Anonymous()
	}
	return caller
}

// RequireCaller 读取已认证调用方，未认证时直接响应 401。
func RequireCaller(c *gin.Context) (authz.Caller, bool) {
	caller := CallerFromContext(c)
	if !caller.Authenticated() {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return caller, false
	}
	return caller, true
}

// ParseIDParam 解析路径中的 ID 参数。
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return 0, false
	}
	return uint(id), true
}
