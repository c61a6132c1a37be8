package admin

import (
	handlershared "github.com/logiroute/internal/http/handlers/shared"
	"github.com/logiroute/internal/http/response"
	"github.com/logiroute/internal/models"
	"github.com/logiroute/internal/repository"
	"github.com/logiroute/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateVehicleRequest 创建车辆请求
type CreateVehicleRequest struct {
	PlateNumber     string             `json:"plate_number" binding:"required"`
	VehicleType     string             `json:"vehicle_type" binding:"required"`
	Capacity        *models.Money      `json:"capacity"`
	CurrentDriverID *uint              `json:"current_driver_id"`
	Status          string             `json:"status"`
	LastLat         *models.Coordinate `json:"last_lat"`
	LastLng         *models.Coordinate `json:"last_lng"`
}

// UpdateVehicleRequest 车辆局部更新请求
type UpdateVehicleRequest struct {
	PlateNumber     *string            `json:"plate_number"`
	VehicleType     *string            `json:"vehicle_type"`
	Capacity        *models.Money      `json:"capacity"`
	CurrentDriverID *uint              `json:"current_driver_id"`
	Status          *string            `json:"status"`
	LastLat         *models.Coordinate `json:"last_lat"`
	LastLng         *models.Coordinate `json:"last_lng"`
}

// ListVehicles 车辆列表
func (h *Handler) ListVehicles(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)
	items, total, err := h.VehicleService.ListVehicles(caller, repository.VehicleListFilter{
		Page:        page,
		PageSize:    pageSize,
		Status:      c.Query("status"),
		VehicleType: c.Query("vehicle_type"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, items, handlershared.BuildPagination(page, pageSize, total))
}

// GetVehicle 车辆详情
func (h *Handler) GetVehicle(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	vehicle, err := h.VehicleService.GetVehicle(caller, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, vehicle)
}

// CreateVehicle 创建车辆
func (h *Handler) CreateVehicle(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req CreateVehicleRequest
	if !bindJSON(c, &req) {
		return
	}
	vehicle, err := h.VehicleService.CreateVehicle(caller, service.CreateVehicleInput{
		PlateNumber:     req.PlateNumber,
		VehicleType:     req.VehicleType,
		Capacity:        req.Capacity,
		CurrentDriverID: req.CurrentDriverID,
		Status:          req.Status,
		LastLat:         req.LastLat,
		LastLng:         req.LastLng,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, vehicle)
}

// UpdateVehicle 局部更新车辆
func (h *Handler) UpdateVehicle(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateVehicleRequest
	if !bindJSON(c, &req) {
		return
	}
	vehicle, err := h.VehicleService.UpdateVehicle(caller, id, service.VehiclePatch{
		PlateNumber:     req.PlateNumber,
		VehicleType:     req.VehicleType,
		Capacity:        req.Capacity,
		CurrentDriverID: req.CurrentDriverID,
		Status:          req.Status,
		LastLat:         req.LastLat,
		LastLng:         req.LastLng,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, vehicle)
}

// DeleteVehicle 删除车辆
func (h *Handler) DeleteVehicle(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.VehicleService.DeleteVehicle(caller, id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
