package admin

import (
	"time"

	handlershared "github.com/logiroute/internal/http/handlers/shared"
	"github.com/logiroute/internal/http/response"
	"github.com/logiroute/internal/repository"
	"github.com/logiroute/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePersonnelRequest 创建员工档案请求
type CreatePersonnelRequest struct {
	UserID          uint       `json:"user_id" binding:"required"`
	Position        string     `json:"position" binding:"required"`
	LicenseNumber   string     `json:"license_number"`
	VehicleAssigned string     `json:"vehicle_assigned"`
	IsActive        *bool      `json:"is_active"`
	HireDate        *time.Time `json:"hire_date"`
}

// UpdatePersonnelRequest 员工档案局部更新请求
type UpdatePersonnelRequest struct {
	UserID          *uint      `json:"user_id"`
	Position        *string    `json:"position"`
	LicenseNumber   *string    `json:"license_number"`
	VehicleAssigned *string    `json:"vehicle_assigned"`
	IsActive        *bool      `json:"is_active"`
	HireDate        *time.Time `json:"hire_date"`
}

// ListPersonnel 员工列表
func (h *Handler) ListPersonnel(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)
	items, total, err := h.PersonnelService.ListPersonnel(caller, repository.PersonnelListFilter{
		Page:       page,
		PageSize:   pageSize,
		Position:   c.Query("position"),
		ActiveOnly: c.Query("active") == "true",
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, items, handlershared.BuildPagination(page, pageSize, total))
}

// GetPersonnel 员工详情
func (h *Handler) GetPersonnel(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	record, err := h.PersonnelService.GetPersonnel(caller, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, record)
}

// CreatePersonnel 创建员工档案
func (h *Handler) CreatePersonnel(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req CreatePersonnelRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.PersonnelService.CreatePersonnel(caller, service.CreatePersonnelInput{
		UserID:          req.UserID,
		Position:        req.Position,
		LicenseNumber:   req.LicenseNumber,
		VehicleAssigned: req.VehicleAssigned,
		IsActive:        req.IsActive,
		HireDate:        req.HireDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, record)
}

// UpdatePersonnel 局部更新员工档案
func (h *Handler) UpdatePersonnel(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdatePersonnelRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.PersonnelService.UpdatePersonnel(caller, id, service.PersonnelPatch{
		UserID:          req.UserID,
		Position:        req.Position,
		LicenseNumber:   req.LicenseNumber,
		VehicleAssigned: req.VehicleAssigned,
		IsActive:        req.IsActive,
		HireDate:        req.HireDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, record)
}

// DeletePersonnel 删除员工档案
func (h *Handler) DeletePersonnel(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.PersonnelService.DeletePersonnel(caller, id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
