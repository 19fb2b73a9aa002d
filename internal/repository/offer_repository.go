package repository

import (
	"errors"
	"strings"

	"github.com/restock-next/internal/constants"
	"github.com/restock-next/internal/models"

	"gorm.io/gorm"
)

// OfferRepository Offer 数据访问接口
type OfferRepository interface {
	List(filter OfferListFilter) ([]models.Offer, int64, error)
	GetByID(id uint) (*models.Offer, error)
	Create(offer *models.Offer) error
	CreateBatch(offers []models.Offer) error
	Update(offer *models.Offer) error
	Delete(id uint) error
	OrphanByVariantIDs(variantIDs []uint) (int64, error)
	ReconcileOrphans(productID uint) (int64, error)
	UpdateProductTitle(productID uint, title string) error
	UpdateVariantTitle(variantID uint, title string) error
	DeleteNonTerminalByVariantUser(variantID, userID uint) (int64, error)
	CheapestActiveByVariants(variantIDs []uint) (map[uint]models.Money, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OfferRepository
}

// GormOfferRepository GORM 实现
type GormOfferRepository struct {
	db *gorm.DB
}

// NewOfferRepository 创建 Offer 仓库
func NewOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOfferRepository) WithTx(tx *gorm.DB) OfferRepository {
	if tx == nil {
		return r
	}
	return &GormOfferRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOfferRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List Offer 列表
func (r *GormOfferRepository) List(filter OfferListFilter) ([]models.Offer, int64, error) {
	var offers []models.Offer

	query := r.db.Model(&models.Offer{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.VariantID > 0 {
		query = query.Where("variant_id = ?", filter.VariantID)
	}
	if filter.DeliveryProfileID > 0 {
		query = query.Where("delivery_profile_id = ?", filter.DeliveryProfileID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	order := "created_at DESC, id DESC"
	if filter.OrderByPriceAsc {
		order = "price ASC, id ASC"
	}
	if err := query.Preload("DeliveryProfile").
		Order(order).Find(&offers).Error; err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}

// GetByID 根据 ID 获取 Offer
func (r *GormOfferRepository) GetByID(id uint) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.Preload("DeliveryProfile").First(&offer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offer, nil
}

// Create 创建 Offer
func (r *GormOfferRepository) Create(offer *models.Offer) error {
	return r.db.Create(offer).Error
}

// CreateBatch 批量创建 Offer
func (r *GormOfferRepository) CreateBatch(offers []models.Offer) error {
	if len(offers) == 0 {
		return nil
	}
	return r.db.Create(&offers).Error
}

// Update 更新 Offer
func (r *GormOfferRepository) Update(offer *models.Offer) error {
	return r.db.Save(offer).Error
}

// Delete 删除 Offer
func (r *GormOfferRepository) Delete(id uint) error {
	return r.db.Delete(&models.Offer{}, id).Error
}

// OrphanByVariantIDs 变体被删除时的孤儿处理：非冻结状态的 Offer
// 转为 NO_MATCH 并清空 variant_id，SOLD/RETURNING 保持原样。
func (r *GormOfferRepository) OrphanByVariantIDs(variantIDs []uint) (int64, error) {
	if len(variantIDs) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Offer{}).
		Where("variant_id IN ?", variantIDs).
		Where("status NOT IN ?", constants.OfferFrozenStatuses).
		Updates(map[string]interface{}{
			"variant_id": nil,
			"status":     constants.OfferStatusNoMatch,
		})
	return result.RowsAffected, result.Error
}

// ReconcileOrphans 孤儿回收：variant_id 为空或指向已不存在变体的
// 非冻结 Offer 统一转为 NO_MATCH。productID 为 0 时回收全部商品。
func (r *GormOfferRepository) ReconcileOrphans(productID uint) (int64, error) {
	var affected int64

	scoped := func() *gorm.DB {
		query := r.db.Model(&models.Offer{})
		if productID > 0 {
			query = query.Where("product_id = ?", productID)
		}
		return query
	}

	result := scoped().
		Where("variant_id IS NULL").
		Where("status NOT IN ?", constants.OfferFrozenStatuses).
		Update("status", constants.OfferStatusNoMatch)
	if result.Error != nil {
		return 0, result.Error
	}
	affected += result.RowsAffected

	result = scoped().
		Where("variant_id IS NOT NULL").
		Where("status NOT IN ?", constants.OfferFrozenStatuses).
		Where("variant_id NOT IN (?)", r.db.Model(&models.Variant{}).Select("id")).
		Updates(map[string]interface{}{
			"variant_id": nil,
			"status":     constants.OfferStatusNoMatch,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	affected += result.RowsAffected

	return affected, nil
}

// UpdateProductTitle 商品标题变更传播（终态 Offer 冻结不动）
func (r *GormOfferRepository) UpdateProductTitle(productID uint, title string) error {
	return r.db.Model(&models.Offer{}).
		Where("product_id = ?", productID).
		Where("status NOT IN ?", constants.OfferTerminalStatuses).
		Update("product_title", title).Error
}

// UpdateVariantTitle 变体标题变更传播（终态 Offer 冻结不动）
func (r *GormOfferRepository) UpdateVariantTitle(variantID uint, title string) error {
	return r.db.Model(&models.Offer{}).
		Where("variant_id = ?", variantID).
		Where("status NOT IN ?", constants.OfferTerminalStatuses).
		Update("variant_title", title).Error
}

// DeleteNonTerminalByVariantUser 删除某卖家挂在某变体上的全部非终态 Offer
// （价格同步的覆盖式更新使用）
func (r *GormOfferRepository) DeleteNonTerminalByVariantUser(variantID, userID uint) (int64, error) {
	result := r.db.Where("variant_id = ? AND user_id = ?", variantID, userID).
		Where("status NOT IN ?", constants.OfferTerminalStatuses).
		Delete(&models.Offer{})
	return result.RowsAffected, result.Error
}

// CheapestActiveByVariants 批量查询各变体的最低 ACTIVE 展示价
func (r *GormOfferRepository) CheapestActiveByVariants(variantIDs []uint) (map[uint]models.Money, error) {
	cheapest := make(map[uint]models.Money, len(variantIDs))
	if len(variantIDs) == 0 {
		return cheapest, nil
	}

	type row struct {
		VariantID uint
		MinPrice  models.Money
	}
	var rows []row
	if err := r.db.Model(&models.Offer{}).
		Select("variant_id AS variant_id, MIN(offer_price) AS min_price").
		Where("variant_id IN ?", variantIDs).
		Where("status = ?", constants.OfferStatusActive).
		Group("variant_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, item := range rows {
		cheapest[item.VariantID] = item.MinPrice
	}
	return cheapest, nil
}
