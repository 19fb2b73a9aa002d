package models

import (
	"strings"
	"time"

	"github.com/restock-next/internal/constants"
)

// Variant 商品变体表（由规格值组合生成，每个槽位对应一列）。
// 未占用槽位存空串而非 NULL，唯一索引对不足三个规格的元组同样生效。
type Variant struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                         // 主键
	ProductID uint      `gorm:"not null;index;uniqueIndex:idx_variants_tuple" json:"product_id"`              // 商品ID
	Value0    string    `gorm:"type:varchar(255);not null;default:'';uniqueIndex:idx_variants_tuple" json:"value0"` // 槽位 0 规格值
	Value1    string    `gorm:"type:varchar(255);not null;default:'';uniqueIndex:idx_variants_tuple" json:"value1"` // 槽位 1 规格值
	Value2    string    `gorm:"type:varchar(255);not null;default:'';uniqueIndex:idx_variants_tuple" json:"value2"` // 槽位 2 规格值
	SKU       string    `gorm:"type:varchar(100)" json:"sku"`                                                 // SKU（默认继承商品）
	Barcode   string    `gorm:"type:varchar(100)" json:"barcode"`                                             // 条码
	CreatedAt time.Time `json:"created_at"`                                                                   // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                                   // 更新时间

	// 关联
	Offers []Offer `gorm:"foreignKey:VariantID" json:"offers,omitempty"` // 挂在该变体上的 Offer
	Images []Image `gorm:"foreignKey:VariantID" json:"images,omitempty"` // 变体图片
}

// TableName 指定表名
func (Variant) TableName() string {
	return "variants"
}

// SlotValue 返回指定槽位的规格值，未占用槽位返回 nil
func (v *Variant) SlotValue(slot int) *string {
	var raw string
	switch slot {
	case 0:
		raw = v.Value0
	case 1:
		raw = v.Value1
	case 2:
		raw = v.Value2
	default:
		return nil
	}
	if raw == "" {
		return nil
	}
	return &raw
}

// SetSlotValue 写入指定槽位的规格值，nil 表示清空槽位
func (v *Variant) SetSlotValue(slot int, value *string) {
	raw := ""
	if value != nil {
		raw = *value
	}
	switch slot {
	case 0:
		v.Value0 = raw
	case 1:
		v.Value1 = raw
	case 2:
		v.Value2 = raw
	}
}

// SlotColumn 返回槽位对应的列名，越界返回空串
func SlotColumn(slot int) string {
	switch slot {
	case 0:
		return "value0"
	case 1:
		return "value1"
	case 2:
		return "value2"
	}
	return ""
}

// Title 按规格 position 顺序拼接变体标题，options 需已按 position 升序排列
func (v *Variant) Title(options []Option) string {
	parts := make([]string, 0, len(options))
	for _, opt := range options {
		if val := v.SlotValue(opt.Slot); val != nil && *val != "" {
			parts = append(parts, *val)
		}
	}
	return strings.Join(parts, constants.VariantTitleSeparator)
}
