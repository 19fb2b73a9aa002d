package models

import "time"

// Metafield 商品元字段表（键同商品内唯一，价格同步读取 pfactor/pamount）
type Metafield struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                    // 主键
	ProductID uint      `gorm:"not null;uniqueIndex:idx_metafields_product_key;index" json:"product_id"` // 商品ID
	Key       string    `gorm:"not null;uniqueIndex:idx_metafields_product_key" json:"key"`              // 键
	Value     string    `gorm:"type:varchar(500)" json:"value"`                                          // 值
	CreatedAt time.Time `json:"created_at"`                                                              // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                              // 更新时间
}

// TableName 指定表名
func (Metafield) TableName() string {
	return "metafields"
}
