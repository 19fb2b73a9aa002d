package models

import "time"

// DeliveryProfile 交付档案表（系统须保证存在唯一默认档案）
type DeliveryProfile struct {
	ID        uint      `gorm:"primarykey" json:"id"`                          // 主键
	Title     string    `gorm:"not null" json:"title"`                         // 名称
	IsDefault bool      `gorm:"not null;default:false;index" json:"is_default"` // 是否默认档案
	CreatedAt time.Time `json:"created_at"`                                    // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                    // 更新时间
}

// TableName 指定表名
func (DeliveryProfile) TableName() string {
	return "delivery_profiles"
}
