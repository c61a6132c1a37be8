package repository

import (
	"errors"

	"github.com/logiroute/internal/models"

	"gorm.io/gorm"
)

// ShipmentRepository 运单数据访问接口
type ShipmentRepository interface {
	GetByID(id uint) (*models.Shipment, error)
	GetByTrackingNumber(trackingNumber string) (*models.Shipment, error)
	TrackingNumberExists(trackingNumber string) (bool, error)
	Create(shipment *models.Shipment) error
	Update(shipment *models.Shipment) error
	Delete(id uint) error
	List(filter ShipmentListFilter) ([]models.Shipment, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ShipmentRepository
}

// GormShipmentRepository GORM 实现
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewShipmentRepository 创建运单仓库
func NewShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormShipmentRepository) WithTx(tx *gorm.DB) ShipmentRepository {
	if tx == nil {
		return r
	}
	return &GormShipmentRepository{db: tx}
}

// Transaction 在事务中执行
func (r *GormShipmentRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 根据 ID 获取运单（软删除的运单视为不存在）
func (r *GormShipmentRepository) GetByID(id uint) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := r.db.First(&shipment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shipment, nil
}

// GetByTrackingNumber 根据运单号获取运单
func (r *GormShipmentRepository) GetByTrackingNumber(trackingNumber string) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := r.db.Where("tracking_number = ?", trackingNumber).First(&shipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shipment, nil
}

// TrackingNumberExists 运单号是否已被占用（包含已删除运单，保证号码永不复用）
func (r *GormShipmentRepository) TrackingNumberExists(trackingNumber string) (bool, error) {
	var count int64
	if err := r.db.Unscoped().Model(&models.Shipment{}).Where("tracking_number = ?", trackingNumber).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建运单
func (r *GormShipmentRepository) Create(shipment *models.Shipment) error {
	return r.db.Create(shipment).Error
}

// Update 保存运单
func (r *GormShipmentRepository) Update(shipment *models.Shipment) error {
	return r.db.Save(shipment).Error
}

// Delete 软删除运单，事件记录保留
func (r *GormShipmentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Shipment{}, id).Error
}

// List 运单列表
func (r *GormShipmentRepository) List(filter ShipmentListFilter) ([]models.Shipment, int64, error) {
	query := r.db.Model(&models.Shipment{})

	if filter.ClientID != 0 {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.DriverID != 0 {
		query = query.Where("assigned_driver_id = ?", filter.DriverID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = query.Scopes(matchKeyword(filter.Keyword, "tracking_number", "recipient_name", "delivery_address"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Scopes(paginate(filter.Page, filter.PageSize))

	var shipments []models.Shipment
	if err := query.Order("created_at DESC, id DESC").Find(&shipments).Error; err != nil {
		return nil, 0, err
	}
	return shipments, total, nil
}
