package models

import (
	"time"

	"gorm.io/gorm"
)

// Shipment 运单表
type Shipment struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                                 // 主键
	TrackingNumber   string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"tracking_number"`         // 运单号（不可变）
	ClientID         uint           `gorm:"index;not null" json:"client_id"`                                      // 下单客户（不可变）
	AssignedDriverID *uint          `gorm:"index" json:"assigned_driver_id"`                                      // 指派司机
	PickupAddress    string         `gorm:"type:text;not null" json:"pickup_address"`                             // 取件地址
	DeliveryAddress  string         `gorm:"type:text;not null" json:"delivery_address"`                           // 收件地址
	RecipientName    string         `gorm:"type:varchar(120);not null" json:"recipient_name"`                     // 收件人
	RecipientPhone   string         `gorm:"type:varchar(32);not null" json:"recipient_phone"`                     // 收件人电话
	Status           string         `gorm:"type:varchar(20);index;not null" json:"status"`                        // 运单状态
	PaymentMethod    string         `gorm:"type:varchar(32);not null" json:"payment_method"`                      // 支付方式
	PaymentStatus    string         `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`    // 支付状态
	Amount           Money          `gorm:"type:decimal(10,2);not null;default:0" json:"amount"`                  // 金额
	Weight           *Money         `gorm:"type:decimal(10,2)" json:"weight"`                                     // 重量（kg）
	Dimensions       string         `gorm:"type:varchar(120);default:''" json:"dimensions"`                       // 尺寸
	Notes            string         `gorm:"type:text" json:"notes"`                                               // 备注
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                              // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                           // 更新时间
	DeliveredAt      *time.Time     `json:"delivered_at"`                                                         // 签收时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                       // 软删除时间（保留事件审计链）
}

// TableName 指定表名
func (Shipment) TableName() string {
	return "shipments"
}

// ShipmentEvent 运单事件表（只追加）
type ShipmentEvent struct {
	ID          uint      `gorm:"primarykey" json:"id"`                              // 主键
	ShipmentID  uint      `gorm:"index;not null" json:"shipment_id"`                 // 运单ID
	EventType   string    `gorm:"type:varchar(32);not null" json:"event_type"`       // 事件类型
	Description string    `gorm:"type:text;not null" json:"description"`             // 描述
	Location    string    `gorm:"type:text" json:"location,omitempty"`               // 位置
	CreatedBy   *uint     `gorm:"index" json:"created_by,omitempty"`                 // 操作人
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                           // 发生时间
}

// TableName 指定表名
func (ShipmentEvent) TableName() string {
	return "shipment_events"
}
