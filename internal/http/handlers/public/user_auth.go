package public

import (
	"time"

	handlershared "github.com/logiroute/internal/http/handlers/shared"
	"github.com/logiroute/internal/http/response"
	"github.com/logiroute/internal/models"
	"github.com/logiroute/internal/service"

	"github.com/gin-gonic/gin"
)

// SignupRequest 注册请求
// role 字段即使提交也会被忽略
type SignupRequest struct {
	Username       string                              `json:"username" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	FullName       string                              `json:"full_name" binding:"required"`
	Email          string                              `json:"email" binding:"required"`
	Phone          string                              `json:"phone"`
	Role           string                              `json:"role"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username       string                              `json:"username" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// Signup 自助注册（角色固定为 client）
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CaptchaService.Verify(service.CaptchaSceneSignup, req.CaptchaPayload.ToServicePayload()); err != nil {
		respondServiceError(c, err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Signup(service.AccountInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, sessionPayload(user, token, expiresAt))
}

// Login 用户名密码登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CaptchaService.Verify(service.CaptchaSceneLogin, req.CaptchaPayload.ToServicePayload()); err != nil {
		respondServiceError(c, err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	handlershared.RequestLog(c).Infow("user_login_success", "user_id", user.ID, "role", user.Role)
	response.Success(c, sessionPayload(user, token, expiresAt))
}

// Logout 注销当前用户全部会话
func (h *Handler) Logout(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	if err := h.UserAuthService.Logout(c.Request.Context(), caller); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"logged_out": true})
}

// GetCurrentUser 获取当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.CurrentUser(caller)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

func sessionPayload(user *models.User, token string, expiresAt time.Time) gin.H {
	return gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	}
}
