package admin

import (
	"github.com/logiroute/internal/provider"
	"github.com/logiroute/internal/service"
)

// Handler 后台管理接口：账号开通、人员与车辆维护
// 角色校验在 service 层经授权守卫完成
type Handler struct {
	UserAuthService  *service.UserAuthService
	PersonnelService *service.PersonnelService
	VehicleService   *service.VehicleService
}

func New(c *provider.Container) *Handler {
	return &Handler{
		UserAuthService:  c.UserAuthService,
		PersonnelService: c.PersonnelService,
		VehicleService:   c.VehicleService,
	}
}
