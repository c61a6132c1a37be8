package admin

import (
	handlershared "github.com/logiroute/internal/http/handlers/shared"
	"github.com/logiroute/internal/http/response"
	"github.com/logiroute/internal/repository"
	"github.com/logiroute/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateUserRequest 管理员开通账号请求
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`
}

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)
	users, total, err := h.UserAuthService.ListUsers(caller, repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Role:     c.Query("role"),
		Keyword:  c.Query("keyword"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, users, handlershared.BuildPagination(page, pageSize, total))
}

// CreateUser 开通任意角色账号
func (h *Handler) CreateUser(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.UserAuthService.ProvisionUser(caller, service.AccountInput{
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
	handlershared.RequestLog(c).Infow("admin_user_provisioned", "operator_id", caller.UserID, "user_id", user.ID, "role", user.Role)
	response.Success(c, user)
}
