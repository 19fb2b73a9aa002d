package models

import (
	"time"

	"gorm.io/gorm"
)

// User 卖家用户表（price sync 的行情源也是一个 provider 角色用户）
type User struct {
	ID          uint           `gorm:"primarykey" json:"id"`                           // 主键
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`              // 邮箱
	DisplayName string         `gorm:"default:''" json:"display_name"`                 // 昵称
	Role        string         `gorm:"type:varchar(20);default:'seller'" json:"role"`  // 角色（seller/provider）
	Status      string         `gorm:"type:varchar(20);default:'active'" json:"status"` // 账号状态
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                     // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
