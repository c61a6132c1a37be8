package main

import (
	"context"
	"errors"
	"time"

	"github.com/logiroute/internal/authz"
	"github.com/logiroute/internal/config"
	"github.com/logiroute/internal/constants"
	"github.com/logiroute/internal/logger"
	"github.com/logiroute/internal/models"
	"github.com/logiroute/internal/provider"
	"github.com/logiroute/internal/service"

	"github.com/shopspring/decimal"
)

const seedPassword = "Seed12345"

type seedAccount struct {
	Username string
	FullName string
	Role     string
	Phone    string
}

var seedAccounts = []seedAccount{
	{Username: "acme_stores", FullName: "Acme Stores Ltd", Role: constants.RoleClient, Phone: "+254711000001"},
	{Username: "mama_mboga", FullName: "Mama Mboga Traders", Role: constants.RoleClient, Phone: "+254711000002"},
	{Username: "driver_otieno", FullName: "Brian Otieno", Role: constants.RolePersonnel, Phone: "+254722000001"},
	{Username: "driver_wanjiru", FullName: "Grace Wanjiru", Role: constants.RolePersonnel, Phone: "+254722000002"},
	{Username: "dispatch_kamau", FullName: "Peter Kamau", Role: constants.RolePersonnel, Phone: "+254722000003"},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.InitDefaultAdmin("admin", ""); err != nil {
		stdLog.Fatalf("Failed to init admin: %v", err)
	}

	// 种子数据不触发通知任务
	cfg.Queue.Enabled = false
	c := provider.NewContainerWithDB(cfg, models.DB)
	defer c.Close()

	admin, err := adminCaller(c)
	if err != nil {
		stdLog.Fatalf("Failed to load admin: %v", err)
	}

	users := make(map[string]*models.User, len(seedAccounts))
	for _, account := range seedAccounts {
		user, err := ensureUser(c, admin, account)
		if err != nil {
			stdLog.Fatalf("Failed to seed user %s: %v", account.Username, err)
		}
		users[account.Username] = user
	}

	seedPersonnel(c, admin, users)
	seedVehicles(c, admin, users)
	seedShipments(c, admin, users)

	logger.Infow("seed_completed", "users", len(users))
}

func adminCaller(c *provider.Container) (authz.Caller, error) {
	user, err := c.UserRepo.GetByUsername("admin")
	if err != nil {
		return authz.Anonymous(), err
	}
	if user == nil || user.Role != constants.RoleAdmin {
		return authz.Anonymous(), errors.New("admin account not found")
	}
	return authz.Caller{UserID: user.ID, Role: user.Role}, nil
}

func ensureUser(c *provider.Container, admin authz.Caller, account seedAccount) (*models.User, error) {
	existing, err := c.UserRepo.GetByUsername(account.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return c.UserAuthService.ProvisionUser(admin, service.AccountInput{
		Username: account.Username,
		Password: seedPassword,
		FullName: account.FullName,
		Email:    account.Username + "@logiroute.local",
		Phone:    account.Phone,
		Role:     account.Role,
	})
}

func seedPersonnel(c *provider.Container, admin authz.Caller, users map[string]*models.User) {
	hired := time.Now().AddDate(-1, 0, 0)
	records := []service.CreatePersonnelInput{
		{UserID: users["driver_otieno"].ID, Position: constants.PositionDriver, LicenseNumber: "DL-100234", VehicleAssigned: "KCA 123A", HireDate: &hired},
		{UserID: users["driver_wanjiru"].ID, Position: constants.PositionDriver, LicenseNumber: "DL-100871", VehicleAssigned: "KDB 456B", HireDate: &hired},
		{UserID: users["dispatch_kamau"].ID, Position: constants.PositionDispatcher, HireDate: &hired},
	}
	for _, record := range records {
		if _, err := c.PersonnelService.CreatePersonnel(admin, record); err != nil && !errors.Is(err, service.ErrPersonnelExists) {
			logger.Warnw("seed_personnel_failed", "user_id", record.UserID, "error", err)
		}
	}
}

func seedVehicles(c *provider.Container, admin authz.Caller, users map[string]*models.User) {
	otieno := users["driver_otieno"].ID
	wanjiru := users["driver_wanjiru"].ID
	nairobiLat := models.NewCoordinate(-1.286389)
	nairobiLng := models.NewCoordinate(36.817223)
	vehicles := []service.CreateVehicleInput{
		{PlateNumber: "KCA 123A", VehicleType: constants.VehicleTypeVan, Capacity: moneyPtr("1200"), CurrentDriverID: &otieno, Status: constants.VehicleStatusInUse, LastLat: &nairobiLat, LastLng: &nairobiLng},
		{PlateNumber: "KDB 456B", VehicleType: constants.VehicleTypeTruck, Capacity: moneyPtr("8000"), CurrentDriverID: &wanjiru, Status: constants.VehicleStatusAvailable},
		{PlateNumber: "KMC 789C", VehicleType: constants.VehicleTypeMotorcycle, Capacity: moneyPtr("40"), Status: constants.VehicleStatusMaintenance},
	}
	for _, vehicle := range vehicles {
		if _, err := c.VehicleService.CreateVehicle(admin, vehicle); err != nil && !errors.Is(err, service.ErrPlateNumberExists) {
			logger.Warnw("seed_vehicle_failed", "plate_number", vehicle.PlateNumber, "error", err)
		}
	}
}

type seedShipment struct {
	input  service.CreateShipmentInput
	driver string
	path   []string
}

func seedShipments(c *provider.Container, admin authz.Caller, users map[string]*models.User) {
	ctx := context.Background()
	shipments := []seedShipment{
		{
			input: service.CreateShipmentInput{
				TrackingNumber:  "TN100001",
				ClientID:        users["acme_stores"].ID,
				PickupAddress:   "Acme Warehouse, Industrial Area, Nairobi",
				DeliveryAddress: "Tom Mboya St, Nairobi CBD",
				RecipientName:   "Jane Achieng",
				RecipientPhone:  "+254733000001",
				PaymentMethod:   constants.PaymentMethodPrepaid,
				PaymentStatus:   constants.PaymentStatusPaid,
				Amount:          moneyPtr("1500"),
				Weight:          moneyPtr("12.5"),
				Dimensions:      "40x30x30",
			},
			driver: "driver_otieno",
			path:   []string{constants.ShipmentStatusAssigned, constants.ShipmentStatusInTransit},
		},
		{
			input: service.CreateShipmentInput{
				TrackingNumber:  "TN100002",
				ClientID:        users["acme_stores"].ID,
				PickupAddress:   "Acme Warehouse, Industrial Area, Nairobi",
				DeliveryAddress: "Moi Avenue, Mombasa",
				RecipientName:   "Hassan Ali",
				RecipientPhone:  "+254733000002",
				PaymentMethod:   constants.PaymentMethodCashOnDelivery,
				Amount:          moneyPtr("4200"),
				Weight:          moneyPtr("80"),
			},
			driver: "driver_wanjiru",
			path:   []string{constants.ShipmentStatusAssigned, constants.ShipmentStatusInTransit, constants.ShipmentStatusDelivered},
		},
		{
			input: service.CreateShipmentInput{
				TrackingNumber:  "TN100003",
				ClientID:        users["mama_mboga"].ID,
				PickupAddress:   "Wakulima Market, Nairobi",
				DeliveryAddress: "Kilimani, Nairobi",
				RecipientName:   "Mary Njeri",
				RecipientPhone:  "+254733000003",
				PaymentMethod:   constants.PaymentMethodCashOnDelivery,
				Amount:          moneyPtr("650"),
				Notes:           "Fragile produce",
			},
		},
	}

	for _, item := range shipments {
		existing, err := c.ShipmentRepo.GetByTrackingNumber(item.input.TrackingNumber)
		if err != nil {
			logger.Warnw("seed_shipment_lookup_failed", "tracking_number", item.input.TrackingNumber, "error", err)
			continue
		}
		if existing != nil {
			continue
		}
		shipment, err := c.ShipmentService.CreateShipment(admin, item.input)
		if err != nil {
			logger.Warnw("seed_shipment_failed", "tracking_number", item.input.TrackingNumber, "error", err)
			continue
		}
		for i, status := range item.path {
			next := status
			patch := service.ShipmentPatch{Status: &next}
			if i == 0 && item.driver != "" {
				driverID := users[item.driver].ID
				patch.AssignedDriverID = &driverID
			}
			if _, err := c.ShipmentService.UpdateShipment(ctx, admin, shipment.ID, patch); err != nil {
				logger.Warnw("seed_shipment_status_failed", "tracking_number", shipment.TrackingNumber, "status", status, "error", err)
				break
			}
		}
	}
}

func moneyPtr(value string) *models.Money {
	m := models.NewMoneyFromDecimal(decimal.RequireFromString(value))
	return &m
}
