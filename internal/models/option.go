package models

import "time"

// Option 商品规格表（每个商品最多 3 个，槽位 0..2）
type Option struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                       // 主键
	ProductID uint      `gorm:"not null;uniqueIndex:idx_options_product_title;index" json:"product_id"`     // 商品ID
	Title     string    `gorm:"not null;uniqueIndex:idx_options_product_title" json:"title"`                // 规格名（同商品内唯一）
	Slot      int       `gorm:"not null" json:"slot"`                                                       // 变体值槽位，创建时取最小空闲槽位
	Position  int       `gorm:"not null;default:0;index" json:"position"`                                   // 展示顺序（0..n-1 连续）
	CreatedAt time.Time `json:"created_at"`                                                                 // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                                 // 更新时间

	// 关联
	Values []OptionValue `gorm:"foreignKey:OptionID" json:"values,omitempty"` // 规格值列表
}

// TableName 指定表名
func (Option) TableName() string {
	return "options"
}

// OptionValue 商品规格值表
type OptionValue struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                          // 主键
	OptionID  uint      `gorm:"not null;uniqueIndex:idx_option_values_option_title;index" json:"option_id"`    // 规格ID
	Title     string    `gorm:"not null;uniqueIndex:idx_option_values_option_title" json:"title"`              // 规格值（同规格内唯一）
	Position  int       `gorm:"not null;default:0;index" json:"position"`                                      // 展示顺序（0..n-1 连续）
	CreatedAt time.Time `json:"created_at"`                                                                    // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                                    // 更新时间
}

// TableName 指定表名
func (OptionValue) TableName() string {
	return "option_values"
}
