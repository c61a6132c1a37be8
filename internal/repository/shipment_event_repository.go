package repository

import (
	"github.com/logiroute/internal/models"

	"gorm.io/gorm"
)

// ShipmentEventRepository 运单事件数据访问接口（只追加）
type ShipmentEventRepository interface {
	Create(event *models.ShipmentEvent) error
	ListByShipmentID(shipmentID uint) ([]models.ShipmentEvent, error)
	WithTx(tx *gorm.DB) ShipmentEventRepository
}

// GormShipmentEventRepository GORM 实现
type GormShipmentEventRepository struct {
	db *gorm.DB
}

// NewShipmentEventRepository 创建运单事件仓库
func NewShipmentEventRepository(db *gorm.DB) *GormShipmentEventRepository {
	return &GormShipmentEventRepository{db: db}
}

// WithTx 绑定事务
func (r *GormShipmentEventRepository) WithTx(tx *gorm.DB) ShipmentEventRepository {
	if tx == nil {
		return r
	}
	return &GormShipmentEventRepository{db: tx}
}

// Create 追加事件
func (r *GormShipmentEventRepository) Create(event *models.ShipmentEvent) error {
	return r.db.Create(event).Error
}

// ListByShipmentID 按发生时间升序返回事件，时间相同按 ID 升序
func (r *GormShipmentEventRepository) ListByShipmentID(shipmentID uint) ([]models.ShipmentEvent, error) {
	var events []models.ShipmentEvent
	if err := r.db.Where("shipment_id = ?", shipmentID).
		Order("created_at ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
