package models

import "time"

// Feature 商品特性表（结构化卖点，支持期望态差量同步）
type Feature struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                    // 主键
	ProductID uint      `gorm:"not null;uniqueIndex:idx_features_product_title;index" json:"product_id"` // 商品ID
	Title     string    `gorm:"not null;uniqueIndex:idx_features_product_title" json:"title"`            // 特性名（同商品内唯一）
	Position  int       `gorm:"not null;default:0;index" json:"position"`                                // 展示顺序（0..n-1 连续）
	CreatedAt time.Time `json:"created_at"`                                                              // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                              // 更新时间

	// 关联
	Values []FeatureValue `gorm:"foreignKey:FeatureID" json:"values,omitempty"` // 特性值列表
}

// TableName 指定表名
func (Feature) TableName() string {
	return "features"
}

// FeatureValue 商品特性值表
type FeatureValue struct {
	ID        uint      `gorm:"primarykey" json:"id"`                     // 主键
	FeatureID uint      `gorm:"not null;index" json:"feature_id"`         // 特性ID
	Key       string    `gorm:"type:varchar(255)" json:"key"`             // 展示键
	Value     string    `gorm:"type:varchar(500)" json:"value"`           // 展示值
	Position  int       `gorm:"not null;default:0;index" json:"position"` // 展示顺序（0..n-1 连续）
	CreatedAt time.Time `json:"created_at"`                               // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                               // 更新时间
}

// TableName 指定表名
func (FeatureValue) TableName() string {
	return "feature_values"
}
