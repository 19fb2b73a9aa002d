package models

import "time"

// Image 图片表（挂在商品或变体下，按 position 排序）
type Image struct {
	ID        uint      `gorm:"primarykey" json:"id"`                     // 主键
	ProductID *uint     `gorm:"index" json:"product_id"`                  // 商品ID
	VariantID *uint     `gorm:"index" json:"variant_id"`                  // 变体ID
	Src       string    `gorm:"type:varchar(500);not null" json:"src"`    // 图片地址
	Alt       string    `gorm:"type:varchar(255)" json:"alt"`             // 替代文本
	Position  int       `gorm:"not null;default:0;index" json:"position"` // 展示顺序（0..n-1 连续）
	CreatedAt time.Time `json:"created_at"`                               // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                               // 更新时间
}

// TableName 指定表名
func (Image) TableName() string {
	return "images"
}
