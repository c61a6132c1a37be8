package router

import (
	"fmt"
	"strings"

	"github.com/logiroute/internal/cache"
	"github.com/logiroute/internal/config"
	"github.com/logiroute/internal/constants"
	adminhandlers "github.com/logiroute/internal/http/handlers/admin"
	publichandlers "github.com/logiroute/internal/http/handlers/public"
	"github.com/logiroute/internal/logger"
	"github.com/logiroute/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := NewRateLimitRule(fmt.Sprintf("%s:rate:login", redisPrefix), cfg.Security.LoginRateLimit)
	trackRule := NewRateLimitRule(fmt.Sprintf("%s:rate:track", redisPrefix), cfg.Security.TrackRateLimit)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
			public.GET("/track/:tracking_number", RateLimitMiddleware(redisClient, trackRule, KeyByIP), publicHandler.TrackShipment)
		}

		// 账号接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/signup", publicHandler.Signup)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), publicHandler.Login)
		}

		// 需鉴权的接口，角色与归属由授权守卫判定
		authorized := apiV1.Group("")
		authorized.Use(AuthMiddleware(c.UserAuthService))
		{
			authorized.POST("/auth/logout", publicHandler.Logout)
			authorized.GET("/me", publicHandler.GetCurrentUser)

			authorized.GET("/shipments", publicHandler.ListShipments)
			authorized.POST("/shipments", publicHandler.CreateShipment)
			authorized.GET("/shipments/:id", publicHandler.GetShipment)
			authorized.PATCH("/shipments/:id", publicHandler.UpdateShipment)
			authorized.DELETE("/shipments/:id", publicHandler.DeleteShipment)
			authorized.GET("/shipments/:id/events", publicHandler.ListShipmentEvents)

			admin := authorized.Group("/admin")
			{
				admin.GET("/users", adminHandler.ListUsers)
				admin.POST("/users", adminHandler.CreateUser)

				admin.GET("/personnel", adminHandler.ListPersonnel)
				admin.POST("/personnel", adminHandler.CreatePersonnel)
				admin.GET("/personnel/:id", adminHandler.GetPersonnel)
				admin.PATCH("/personnel/:id", adminHandler.UpdatePersonnel)
				admin.DELETE("/personnel/:id", adminHandler.DeletePersonnel)

				admin.GET("/vehicles", adminHandler.ListVehicles)
				admin.POST("/vehicles", adminHandler.CreateVehicle)
				admin.GET("/vehicles/:id", adminHandler.GetVehicle)
				admin.PATCH("/vehicles/:id", adminHandler.UpdateVehicle)
				admin.DELETE("/vehicles/:id", adminHandler.DeleteVehicle)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
