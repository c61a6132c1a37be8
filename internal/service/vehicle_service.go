package service

import (
	"strings"
	"time"

	"github.com/logiroute/internal/authz"
	"github.com/logiroute/internal/constants"
	"github.com/logiroute/internal/logger"
	"github.com/logiroute/internal/models"
	"github.com/logiroute/internal/repository"
)

// VehicleService 车辆管理
type VehicleService struct {
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
	guard       *authz.Guard
}

// NewVehicleService 创建车辆服务
func NewVehicleService(vehicleRepo repository.VehicleRepository, userRepo repository.UserRepository, guard *authz.Guard) *VehicleService {
	return &VehicleService{
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		guard:       guard,
	}
}

// CreateVehicleInput 创建车辆输入
type CreateVehicleInput struct {
	PlateNumber     string
	VehicleType     string
	Capacity        *models.Money
	CurrentDriverID *uint
	Status          string
	LastLat         *models.Coordinate
	LastLng         *models.Coordinate
}

// VehiclePatch 车辆局部更新
type VehiclePatch struct {
	PlateNumber     *string
	VehicleType     *string
	Capacity        *models.Money
	CurrentDriverID *uint
	Status          *string
	LastLat         *models.Coordinate
	LastLng         *models.Coordinate
}

// ListVehicles 车辆列表
func (s *VehicleService) ListVehicles(caller authz.Caller, filter repository.VehicleListFilter) ([]models.Vehicle, int64, error) {
	if err := s.guard.Authorize(caller, authz.ResourceVehicles, authz.ActionList, nil).Err(); err != nil {
		return nil, 0, err
	}
	v := &ValidationError{}
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	if filter.Status != "" {
		checkEnum(v, "status", filter.Status, vehicleStatuses...)
	}
	filter.VehicleType = strings.ToLower(strings.TrimSpace(filter.VehicleType))
	if filter.VehicleType != "" {
		checkEnum(v, "vehicle_type", filter.VehicleType, vehicleTypes...)
	}
	if err := v.Err(); err != nil {
		return nil, 0, err
	}
	return s.vehicleRepo.List(filter)
}

// GetVehicle 获取车辆
func (s *VehicleService) GetVehicle(caller authz.Caller, id uint) (*models.Vehicle, error) {
	return s.load(caller, id, authz.ActionRead)
}

// CreateVehicle 创建车辆
func (s *VehicleService) CreateVehicle(caller authz.Caller, input CreateVehicleInput) (*models.Vehicle, error) {
	if err := s.guard.Authorize(caller, authz.ResourceVehicles, authz.ActionCreate, nil).Err(); err != nil {
		return nil, err
	}
	v := &ValidationError{}
	plate := normalizePlateNumber(v, input.PlateNumber)
	vehicleType := checkEnum(v, "vehicle_type", input.VehicleType, vehicleTypes...)
	status := constants.VehicleStatusAvailable
	if strings.TrimSpace(input.Status) != "" {
		status = checkEnum(v, "status", input.Status, vehicleStatuses...)
	}
	if input.Capacity != nil && input.Capacity.IsNegative() {
		v.Add("capacity", ReasonNegative)
	}
	checkCoordinates(v, input.LastLat, input.LastLng)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.checkPlateAvailable(plate, 0); err != nil {
		return nil, err
	}
	if input.CurrentDriverID != nil {
		if err := s.checkDriver(*input.CurrentDriverID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	vehicle := &models.Vehicle{
		PlateNumber:     plate,
		VehicleType:     vehicleType,
		Capacity:        input.Capacity,
		CurrentDriverID: input.CurrentDriverID,
		Status:          status,
		LastLat:         input.LastLat,
		LastLng:         input.LastLng,
		LastUpdated:     now,
		CreatedAt:       now,
	}
	if err := s.vehicleRepo.Create(vehicle); err != nil {
		return nil, err
	}
	logger.Infow("vehicle_created", "vehicle_id", vehicle.ID, "plate_number", vehicle.PlateNumber, "created_by", caller.UserID)
	return vehicle, nil
}

// UpdateVehicle 更新车辆，每次更新刷新 last_updated
func (s *VehicleService) UpdateVehicle(caller authz.Caller, id uint, patch VehiclePatch) (*models.Vehicle, error) {
	vehicle, err := s.load(caller, id, authz.ActionUpdate)
	if err != nil {
		return nil, err
	}

	v := &ValidationError{}
	if patch.PlateNumber != nil {
		vehicle.PlateNumber = normalizePlateNumber(v, *patch.PlateNumber)
	}
	if patch.VehicleType != nil {
		vehicle.VehicleType = checkEnum(v, "vehicle_type", *patch.VehicleType, vehicleTypes...)
	}
	if patch.Status != nil {
		vehicle.Status = checkEnum(v, "status", *patch.Status, vehicleStatuses...)
	}
	if patch.Capacity != nil {
		if patch.Capacity.IsNegative() {
			v.Add("capacity", ReasonNegative)
		}
		capacity := *patch.Capacity
		vehicle.Capacity = &capacity
	}
	if patch.LastLat != nil {
		lat := *patch.LastLat
		vehicle.LastLat = &lat
	}
	if patch.LastLng != nil {
		lng := *patch.LastLng
		vehicle.LastLng = &lng
	}
	checkCoordinates(v, vehicle.LastLat, vehicle.LastLng)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if patch.PlateNumber != nil {
		if err := s.checkPlateAvailable(vehicle.PlateNumber, vehicle.ID); err != nil {
			return nil, err
		}
	}
	if patch.CurrentDriverID != nil {
		if err := s.checkDriver(*patch.CurrentDriverID); err != nil {
			return nil, err
		}
		driverID := *patch.CurrentDriverID
		vehicle.CurrentDriverID = &driverID
	}

	vehicle.LastUpdated = time.Now()
	if err := s.vehicleRepo.Update(vehicle); err != nil {
		return nil, err
	}
	logger.Infow("vehicle_updated", "vehicle_id", vehicle.ID, "status", vehicle.Status, "updated_by", caller.UserID)
	return vehicle, nil
}

// DeleteVehicle 删除车辆
func (s *VehicleService) DeleteVehicle(caller authz.Caller, id uint) error {
	vehicle, err := s.load(caller, id, authz.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.vehicleRepo.Delete(vehicle.ID); err != nil {
		return err
	}
	logger.Infow("vehicle_deleted", "vehicle_id", vehicle.ID, "plate_number", vehicle.PlateNumber, "deleted_by", caller.UserID)
	return nil
}

func (s *VehicleService) load(caller authz.Caller, id uint, action string) (*models.Vehicle, error) {
	if err := s.guard.Authorize(caller, authz.ResourceVehicles, action, nil).Err(); err != nil {
		return nil, err
	}
	vehicle, err := s.vehicleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}
	return vehicle, nil
}

func (s *VehicleService) checkPlateAvailable(plate string, selfID uint) error {
	exist, err := s.vehicleRepo.GetByPlateNumber(plate)
	if err != nil {
		return err
	}
	if exist != nil && exist.ID != selfID {
		return ErrPlateNumberExists
	}
	return nil
}

func (s *VehicleService) checkDriver(userID uint) error {
	if userID == 0 {
		return newFieldError("current_driver_id", ReasonInvalid)
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil || user.Role != constants.RolePersonnel {
		return newFieldError("current_driver_id", ReasonInvalid)
	}
	return nil
}

func normalizePlateNumber(v *ValidationError, plate string) string {
	normalized := strings.ToUpper(requireText(v, "plate_number", plate))
	checkMaxLength(v, "plate_number", normalized, 32)
	return normalized
}

func checkCoordinates(v *ValidationError, lat, lng *models.Coordinate) {
	if lat != nil && !lat.InRange(90) {
		v.Add("last_lat", ReasonInvalid)
	}
	if lng != nil && !lng.InRange(180) {
		v.Add("last_lng", ReasonInvalid)
	}
}
