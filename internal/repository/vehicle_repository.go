package repository

import (
	"errors"

	"github.com/logiroute/internal/models"

	"gorm.io/gorm"
)

// VehicleRepository 车辆数据访问接口
type VehicleRepository interface {
	GetByID(id uint) (*models.Vehicle, error)
	GetByPlateNumber(plateNumber string) (*models.Vehicle, error)
	Create(vehicle *models.Vehicle) error
	Update(vehicle *models.Vehicle) error
	Delete(id uint) error
	List(filter VehicleListFilter) ([]models.Vehicle, int64, error)
}

// GormVehicleRepository GORM 实现
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository 创建车辆仓库
func NewVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// GetByID 根据 ID 获取车辆
func (r *GormVehicleRepository) GetByID(id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vehicle, nil
}

// GetByPlateNumber 根据车牌号获取车辆
func (r *GormVehicleRepository) GetByPlateNumber(plateNumber string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.Where("plate_number = ?", plateNumber).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vehicle, nil
}

// Create 创建车辆
func (r *GormVehicleRepository) Create(vehicle *models.Vehicle) error {
	return r.db.Create(vehicle).Error
}

// Update 更新车辆
func (r *GormVehicleRepository) Update(vehicle *models.Vehicle) error {
	return r.db.Save(vehicle).Error
}

// Delete 删除车辆
func (r *GormVehicleRepository) Delete(id uint) error {
	return r.db.Delete(&models.Vehicle{}, id).Error
}

// List 车辆列表
func (r *GormVehicleRepository) List(filter VehicleListFilter) ([]models.Vehicle, int64, error) {
	query := r.db.Model(&models.Vehicle{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.VehicleType != "" {
		query = query.Where("vehicle_type = ?", filter.VehicleType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Scopes(paginate(filter.Page, filter.PageSize))

	var vehicles []models.Vehicle
	if err := query.Order("id ASC").Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}
