package provider

import (
	"github.com/logiroute/internal/authz"
	"github.com/logiroute/internal/cache"
	"github.com/logiroute/internal/config"
	"github.com/logiroute/internal/logger"
	"github.com/logiroute/internal/models"
	"github.com/logiroute/internal/queue"
	"github.com/logiroute/internal/repository"
	"github.com/logiroute/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo          repository.UserRepository
	ShipmentRepo      repository.ShipmentRepository
	ShipmentEventRepo repository.ShipmentEventRepository
	PersonnelRepo     repository.PersonnelRepository
	VehicleRepo       repository.VehicleRepository

	// Services
	AuthzService     *authz.Service
	Guard            *authz.Guard
	UserAuthService  *service.UserAuthService
	CaptchaService   *service.CaptchaService
	ShipmentService  *service.ShipmentService
	TrackingService  *service.TrackingService
	PersonnelService *service.PersonnelService
	VehicleService   *service.VehicleService
}

// NewContainer 初始化容器（使用全局数据库连接）
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}
	return NewContainerWithDB(cfg, models.DB)
}

// NewContainerWithDB 基于指定数据库连接初始化容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
	// 初始化队列客户端，未启用时为空操作客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices(db)

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.ShipmentRepo = repository.NewShipmentRepository(db)
	c.ShipmentEventRepo = repository.NewShipmentEventRepository(db)
	c.PersonnelRepo = repository.NewPersonnelRepository(db)
	c.VehicleRepo = repository.NewVehicleRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}
	c.Guard = authz.NewGuard(c.AuthzService)

	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.Guard)
	c.ShipmentService = service.NewShipmentService(c.Config, c.ShipmentRepo, c.ShipmentEventRepo, c.UserRepo, c.Guard, c.QueueClient)
	c.TrackingService = service.NewTrackingService(c.Config, c.ShipmentRepo, c.ShipmentEventRepo)
	c.PersonnelService = service.NewPersonnelService(c.PersonnelRepo, c.UserRepo, c.Guard)
	c.VehicleService = service.NewVehicleService(c.VehicleRepo, c.UserRepo, c.Guard)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
