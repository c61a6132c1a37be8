package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/logiroute/internal/authz"
	"github.com/logiroute/internal/config"
	"github.com/logiroute/internal/models"
	"github.com/logiroute/internal/queue"
	"github.com/logiroute/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db        *gorm.DB
	cfg       *config.Config
	users     *UserAuthService
	shipments *ShipmentService
	tracking  *TrackingService
	personnel *PersonnelService
	vehicles  *VehicleService
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:   "test-secret",
			ExpireHours: 1,
			Issuer:      "logiroute-test",
		},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{
				MinLength:     8,
				RequireLower:  true,
				RequireNumber: true,
			},
		},
		Shipment: config.ShipmentConfig{
			TrackingPrefix: "TN",
			TrackingDigits: 10,
			NotifyStatus:   true,
		},
	}
}

func setupServiceTest(t *testing.T) *serviceTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	authzSvc, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := authzSvc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	guard := authz.NewGuard(authzSvc)

	cfg := newTestConfig()
	queueClient, _ := queue.NewClient(&cfg.Queue)
	userRepo := repository.NewUserRepository(db)
	shipmentRepo := repository.NewShipmentRepository(db)
	eventRepo := repository.NewShipmentEventRepository(db)

	return &serviceTestEnv{
		db:        db,
		cfg:       cfg,
		users:     NewUserAuthService(cfg, userRepo, guard),
		shipments: NewShipmentService(cfg, shipmentRepo, eventRepo, userRepo, guard, queueClient),
		tracking:  NewTrackingService(cfg, shipmentRepo, eventRepo),
		personnel: NewPersonnelService(repository.NewPersonnelRepository(db), userRepo, guard),
		vehicles:  NewVehicleService(repository.NewVehicleRepository(db), userRepo, guard),
	}
}

func (env *serviceTestEnv) seedUser(t *testing.T, username, role string) authz.Caller {
	t.Helper()
	now := time.Now()
	user := models.User{
		Username:     username,
		PasswordHash: "hash",
		FullName:     username,
		Email:        username + "@example.com",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := env.db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return authz.Caller{UserID: user.ID, Role: role}
}

func money(value string) *models.Money {
	m := models.NewMoneyFromDecimal(decimal.RequireFromString(value))
	return &m
}

func strPtr(v string) *string {
	return &v
}

func uintPtr(v uint) *uint {
	return &v
}
