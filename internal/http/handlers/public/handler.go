package public

import (
	"github.com/logiroute/internal/provider"
	"github.com/logiroute/internal/service"
)

// Handler 账号、公开追踪与运单接口
type Handler struct {
	UserAuthService *service.UserAuthService
	CaptchaService  *service.CaptchaService
	ShipmentService *service.ShipmentService
	TrackingService *service.TrackingService
}

func New(c *provider.Container) *Handler {
	return &Handler{
		UserAuthService: c.UserAuthService,
		CaptchaService:  c.CaptchaService,
		ShipmentService: c.ShipmentService,
		TrackingService: c.TrackingService,
	}
}
