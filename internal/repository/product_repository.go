package repository

import (
	"errors"
	"strings"

	"github.com/restock-next/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	GetByHandle(handle string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	CountByHandle(handle string, excludeID *uint) (int64, error)
	ListMetafields(productID uint) ([]models.Metafield, error)
	GetMetafield(productID uint, key string) (*models.Metafield, error)
	GetMetafieldByID(id uint) (*models.Metafield, error)
	CreateMetafield(metafield *models.Metafield) error
	UpdateMetafield(metafield *models.Metafield) error
	DeleteMetafield(id uint) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{})
	if filter.WithOptions {
		query = query.Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).Preload("Options.Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		})
	}
	if filter.OnlyAvailable {
		query = query.Where("is_available = ?", true)
	}
	if vendor := strings.TrimSpace(filter.Vendor); vendor != "" {
		query = query.Where("vendor = ?", vendor)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR handle LIKE ? OR sku LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByHandle 根据 handle 获取商品
func (r *GormProductRepository) GetByHandle(handle string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("handle = ?", handle).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete 删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// CountByHandle 统计 handle 数量
func (r *GormProductRepository) CountByHandle(handle string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Product{}).Where("handle = ?", handle)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListMetafields 商品元字段列表
func (r *GormProductRepository) ListMetafields(productID uint) ([]models.Metafield, error) {
	var metafields []models.Metafield
	if err := r.db.Where("product_id = ?", productID).
		Order("id ASC").Find(&metafields).Error; err != nil {
		return nil, err
	}
	return metafields, nil
}

// GetMetafield 按键获取商品元字段
func (r *GormProductRepository) GetMetafield(productID uint, key string) (*models.Metafield, error) {
	var metafield models.Metafield
	if err := r.db.Where("product_id = ? AND key = ?", productID, key).
		First(&metafield).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &metafield, nil
}

// GetMetafieldByID 根据 ID 获取商品元字段
func (r *GormProductRepository) GetMetafieldByID(id uint) (*models.Metafield, error) {
	var metafield models.Metafield
	if err := r.db.First(&metafield, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &metafield, nil
}

// CreateMetafield 创建商品元字段
func (r *GormProductRepository) CreateMetafield(metafield *models.Metafield) error {
	return r.db.Create(metafield).Error
}

// UpdateMetafield 更新商品元字段
func (r *GormProductRepository) UpdateMetafield(metafield *models.Metafield) error {
	return r.db.Save(metafield).Error
}

// DeleteMetafield 删除商品元字段
func (r *GormProductRepository) DeleteMetafield(id uint) error {
	return r.db.Delete(&models.Metafield{}, id).Error
}
