package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page          int
	PageSize      int
	Search        string
	Vendor        string
	OnlyAvailable bool
	WithOptions   bool
}

// OfferListFilter 查询 Offer 列表的过滤条件
type OfferListFilter struct {
	Page              int
	PageSize          int
	UserID            uint
	ProductID         uint
	VariantID         uint
	DeliveryProfileID uint
	Status            string
	Statuses          []string
	CreatedFrom       *time.Time
	CreatedTo         *time.Time
	OrderByPriceAsc   bool
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Role     string
	Status   string
}
