package models

import (
	"time"

	"github.com/restock-next/internal/constants"
)

// Offer 卖家报价表（一条记录对应一件实物）
type Offer struct {
	ID                uint      `gorm:"primarykey" json:"id"`                                             // 主键
	UserID            uint      `gorm:"not null;index" json:"user_id"`                                    // 卖家ID
	ProductID         *uint     `gorm:"index" json:"product_id"`                                          // 商品ID
	VariantID         *uint     `gorm:"index" json:"variant_id"`                                          // 变体ID（仅 NO_MATCH 时可为空）
	DeliveryProfileID *uint     `gorm:"index" json:"delivery_profile_id"`                                 // 交付档案ID
	OrderID           *uint     `gorm:"index" json:"order_id"`                                            // 成交订单回溯ID
	Status            string    `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`   // 状态机状态
	Price             Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`               // 卖家定价
	OfferPrice        Money     `gorm:"type:decimal(20,2);not null;default:0" json:"offer_price"`         // 平台展示价
	ProductTitle      string    `gorm:"type:varchar(255)" json:"product_title"`                           // 冗余商品标题（终态冻结）
	VariantTitle      string    `gorm:"type:varchar(255)" json:"variant_title"`                           // 冗余变体标题（终态冻结）
	Comment           string    `gorm:"type:varchar(500)" json:"comment"`                                 // 卖家备注
	CreatedAt         time.Time `gorm:"index" json:"created_at"`                                          // 创建时间
	UpdatedAt         time.Time `json:"updated_at"`                                                       // 更新时间

	// 关联
	User            *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`                        // 卖家
	Variant         *Variant         `gorm:"foreignKey:VariantID" json:"variant,omitempty"`                  // 变体
	DeliveryProfile *DeliveryProfile `gorm:"foreignKey:DeliveryProfileID" json:"delivery_profile,omitempty"` // 交付档案
}

// TableName 指定表名
func (Offer) TableName() string {
	return "offers"
}

// IsTerminal 是否处于终态（SOLD/RETURNING）
func (o *Offer) IsTerminal() bool {
	return o.Status == constants.OfferStatusSold || o.Status == constants.OfferStatusReturning
}
