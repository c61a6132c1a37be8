package models

import "time"

// User 用户表（admin / client / personnel 共用）
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`                                  // 主键
	Username     string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`  // 用户名
	PasswordHash string     `gorm:"not null" json:"-"`                                      // 密码哈希（不返回给前端）
	FullName     string     `gorm:"type:varchar(120);not null" json:"full_name"`            // 姓名
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`    // 邮箱
	Phone        string     `gorm:"type:varchar(32);default:''" json:"phone,omitempty"`     // 电话
	Role         string     `gorm:"type:varchar(20);index;not null" json:"role"`            // 角色
	TokenVersion uint64     `gorm:"not null;default:0" json:"-"`                            // Token 版本（登出即失效）
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`                                // 最后登录时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt    time.Time  `json:"updated_at"`                                             // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
