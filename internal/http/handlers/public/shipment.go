package public

import (
	handlershared "github.com/logiroute/internal/http/handlers/shared"
	"github.com/logiroute/internal/http/response"
	"github.com/logiroute/internal/models"
	"github.com/logiroute/internal/repository"
	"github.com/logiroute/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateShipmentRequest 创建运单请求
// client_id 仅管理员提交时生效
type CreateShipmentRequest struct {
	TrackingNumber   string        `json:"tracking_number"`
	ClientID         uint          `json:"client_id"`
	AssignedDriverID *uint         `json:"assigned_driver_id"`
	PickupAddress    string        `json:"pickup_address"`
	DeliveryAddress  string        `json:"delivery_address"`
	RecipientName    string        `json:"recipient_name"`
	RecipientPhone   string        `json:"recipient_phone"`
	PaymentMethod    string        `json:"payment_method"`
	PaymentStatus    string        `json:"payment_status"`
	Amount           *models.Money `json:"amount"`
	Weight           *models.Money `json:"weight"`
	Dimensions       string        `json:"dimensions"`
	Notes            string        `json:"notes"`
}

// UpdateShipmentRequest 运单局部更新请求，未提交的字段保持不变
type UpdateShipmentRequest struct {
	TrackingNumber   *string       `json:"tracking_number"`
	ClientID         *uint         `json:"client_id"`
	AssignedDriverID *uint         `json:"assigned_driver_id"`
	PickupAddress    *string       `json:"pickup_address"`
	DeliveryAddress  *string       `json:"delivery_address"`
	RecipientName    *string       `json:"recipient_name"`
	RecipientPhone   *string       `json:"recipient_phone"`
	Status           *string       `json:"status"`
	PaymentMethod    *string       `json:"payment_method"`
	PaymentStatus    *string       `json:"payment_status"`
	Amount           *models.Money `json:"amount"`
	Weight           *models.Money `json:"weight"`
	Dimensions       *string       `json:"dimensions"`
	Notes            *string       `json:"notes"`
}

func (r UpdateShipmentRequest) toPatch() service.ShipmentPatch {
	return service.ShipmentPatch{
		TrackingNumber:   r.TrackingNumber,
		ClientID:         r.ClientID,
		AssignedDriverID: r.AssignedDriverID,
		PickupAddress:    r.PickupAddress,
		DeliveryAddress:  r.DeliveryAddress,
		RecipientName:    r.RecipientName,
		RecipientPhone:   r.RecipientPhone,
		Status:           r.Status,
		PaymentMethod:    r.PaymentMethod,
		PaymentStatus:    r.PaymentStatus,
		Amount:           r.Amount,
		Weight:           r.Weight,
		Dimensions:       r.Dimensions,
		Notes:            r.Notes,
	}
}

// ListShipments 运单列表（按角色限定范围）
func (h *Handler) ListShipments(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)
	result, err := h.ShipmentService.ListShipments(caller, repository.ShipmentListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		Keyword:  c.Query("keyword"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, result.Items, handlershared.BuildPagination(page, pageSize, result.Total))
}

// CreateShipment 创建运单
func (h *Handler) CreateShipment(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	shipment, err := h.ShipmentService.CreateShipment(caller, service.CreateShipmentInput{
		TrackingNumber:   req.TrackingNumber,
		ClientID:         req.ClientID,
		AssignedDriverID: req.AssignedDriverID,
		PickupAddress:    req.PickupAddress,
		DeliveryAddress:  req.DeliveryAddress,
		RecipientName:    req.RecipientName,
		RecipientPhone:   req.RecipientPhone,
		PaymentMethod:    req.PaymentMethod,
		PaymentStatus:    req.PaymentStatus,
		Amount:           req.Amount,
		Weight:           req.Weight,
		Dimensions:       req.Dimensions,
		Notes:            req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, shipment)
}

// GetShipment 获取运单详情
func (h *Handler) GetShipment(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	shipment, err := h.ShipmentService.GetShipment(caller, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, shipment)
}

// UpdateShipment 局部更新运单
func (h *Handler) UpdateShipment(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	shipment, err := h.ShipmentService.UpdateShipment(c.Request.Context(), caller, id, req.toPatch())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, shipment)
}

// DeleteShipment 删除运单（仅管理员）
func (h *Handler) DeleteShipment(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ShipmentService.DeleteShipment(c.Request.Context(), caller, id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ListShipmentEvents 运单事件列表
func (h *Handler) ListShipmentEvents(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	events, err := h.ShipmentService.ListShipmentEvents(caller, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if events == nil {
		events = []models.ShipmentEvent{}
	}
	response.Success(c, events)
}
