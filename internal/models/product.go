package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                          // 主键
	Handle      string         `gorm:"uniqueIndex;not null" json:"handle"`            // 唯一标识
	Title       string         `gorm:"not null" json:"title"`                         // 标题（变更时同步到非终态 Offer）
	Description string         `gorm:"type:text" json:"description"`                  // 描述
	Vendor      string         `gorm:"type:varchar(100)" json:"vendor"`               // 品牌
	SKU         string         `gorm:"type:varchar(100)" json:"sku"`                  // 默认 SKU（新建变体时继承）
	Barcode     string         `gorm:"type:varchar(100)" json:"barcode"`              // 默认条码
	Tags        StringArray    `gorm:"type:json" json:"tags"`                         // 标签数组
	IsAvailable bool           `gorm:"default:true;index" json:"is_available"`        // 是否可售
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                    // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间

	// 关联
	Options    []Option    `gorm:"foreignKey:ProductID" json:"options,omitempty"`    // 规格列表
	Variants   []Variant   `gorm:"foreignKey:ProductID" json:"variants,omitempty"`   // 变体列表
	Features   []Feature   `gorm:"foreignKey:ProductID" json:"features,omitempty"`   // 特性列表
	Images     []Image     `gorm:"foreignKey:ProductID" json:"images,omitempty"`     // 图片列表
	Metafields []Metafield `gorm:"foreignKey:ProductID" json:"metafields,omitempty"` // 元字段列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
