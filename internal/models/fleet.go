package models

import "time"

// Personnel 人员档案表
type Personnel struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                 // 主键
	UserID          uint           `gorm:"uniqueIndex;not null" json:"user_id"`                  // 关联用户（一人一档）
	Position        string         `gorm:"type:varchar(20);not null" json:"position"`            // 岗位
	LicenseNumber   string         `gorm:"type:varchar(64);default:''" json:"license_number"`    // 驾照号
	VehicleAssigned string         `gorm:"type:varchar(64);default:''" json:"vehicle_assigned"`  // 分配车辆标识
	IsActive        bool           `gorm:"not null" json:"is_active"`                            // 是否在职
	HireDate        time.Time      `json:"hire_date"`                                            // 入职时间
	CreatedAt       time.Time      `json:"created_at"`                                           // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                           // 更新时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 关联用户
}

// TableName 指定表名
func (Personnel) TableName() string {
	return "personnel"
}

// Vehicle 车辆表
type Vehicle struct {
	ID              uint        `gorm:"primarykey" json:"id"`                                      // 主键
	PlateNumber     string      `gorm:"type:varchar(32);uniqueIndex;not null" json:"plate_number"` // 车牌号
	VehicleType     string      `gorm:"type:varchar(20);not null" json:"vehicle_type"`             // 车辆类型
	Capacity        *Money      `gorm:"type:decimal(10,2)" json:"capacity"`                        // 载重（kg）
	CurrentDriverID *uint       `gorm:"index" json:"current_driver_id"`                            // 当前司机
	Status          string      `gorm:"type:varchar(20);index;not null" json:"status"`             // 车辆状态
	LastLat         *Coordinate `gorm:"type:decimal(10,6)" json:"last_lat"`                        // 最后纬度
	LastLng         *Coordinate `gorm:"type:decimal(10,6)" json:"last_lng"`                        // 最后经度
	LastUpdated     time.Time   `json:"last_updated"`                                              // 最后更新时间
	CreatedAt       time.Time   `json:"created_at"`                                                // 创建时间
}

// TableName 指定表名
func (Vehicle) TableName() string {
	return "vehicles"
}
