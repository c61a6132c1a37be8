package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/logiroute/internal/app"
	"github.com/logiroute/internal/config"
	"github.com/logiroute/internal/logger"
	"github.com/logiroute/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	envAdminUsername = "LR_DEFAULT_ADMIN_USERNAME"
	envAdminPassword = "LR_DEFAULT_ADMIN_PASSWORD"
	minSecretLength  = 32
)

var weakSecretMarkers = []string{"change-me", "changeme", "secret-key", "default"}

func main() {
	mode := flag.String("mode", app.ModeAll, "运行模式: all | api | worker")
	flag.Parse()

	fmt.Printf("\033[1;36mLogiRoute\033[0m shipment tracking \033[2m(mode=%s)\033[0m\n", *mode)

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	release := cfg.Server.Mode == gin.ReleaseMode

	if weakSecret(cfg.JWT.SecretKey) {
		if release {
			stdLog.Fatalf("jwt.secret 长度不足 %d 或仍为示例值，release 模式拒绝启动", minSecretLength)
		}
		stdLog.Printf("警告: jwt.secret 强度不足，仅可用于本地调试")
	}

	prepareDatabase(cfg, stdLog, release)

	if release {
		gin.SetMode(gin.ReleaseMode)
	}
	err := app.Run(app.Options{
		Config:  cfg,
		Mode:    *mode,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	})
	if err != nil {
		stdLog.Fatalf("运行失败: %v", err)
	}
}

// prepareDatabase 连接、迁移，并在没有管理员时创建默认管理员
func prepareDatabase(cfg *config.Config, stdLog *log.Logger, release bool) {
	pool := cfg.Database.Pool
	err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           pool.MaxOpenConns,
		MaxIdleConns:           pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: pool.ConnMaxIdleTimeSeconds,
	})
	if err != nil {
		stdLog.Fatalf("连接数据库失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("迁移数据表失败: %v", err)
	}

	username := os.Getenv(envAdminUsername)
	password := os.Getenv(envAdminPassword)
	if release && password == "" {
		stdLog.Printf("未设置 %s，跳过默认管理员创建", envAdminPassword)
		return
	}
	if err := models.InitDefaultAdmin(username, password); err != nil {
		stdLog.Printf("创建默认管理员失败: %v", err)
	}
}

func weakSecret(secret string) bool {
	if len(secret) < minSecretLength {
		return true
	}
	lower := strings.ToLower(secret)
	for _, marker := range weakSecretMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
