package repository

import (
	"errors"
	"fmt"

	"github.com/restock-next/internal/constants"
	"github.com/restock-next/internal/models"

	"gorm.io/gorm"
)

// VariantRepository 商品变体数据访问接口
type VariantRepository interface {
	ListByProduct(productID uint) ([]models.Variant, error)
	ListIDsByProduct(productID uint) ([]uint, error)
	GetByID(id uint) (*models.Variant, error)
	FindByTuple(productID uint, values [constants.MaxProductOptions]*string) (*models.Variant, error)
	ListBySlotValue(productID uint, slot int, title string) ([]models.Variant, error)
	UpdateSlotValue(productID uint, slot int, oldTitle, newTitle string) error
	Create(variant *models.Variant) error
	CreateBatch(variants []models.Variant) error
	Update(variant *models.Variant) error
	DeleteByIDs(ids []uint) error
	WithTx(tx *gorm.DB) VariantRepository
}

// GormVariantRepository GORM 实现
type GormVariantRepository struct {
	db *gorm.DB
}

// NewVariantRepository 创建变体仓库
func NewVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVariantRepository) WithTx(tx *gorm.DB) VariantRepository {
	if tx == nil {
		return r
	}
	return &GormVariantRepository{db: tx}
}

// ListByProduct 商品变体列表
func (r *GormVariantRepository) ListByProduct(productID uint) ([]models.Variant, error) {
	var variants []models.Variant
	if err := r.db.Where("product_id = ?", productID).
		Order("id ASC").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// ListIDsByProduct 商品变体 ID 列表
func (r *GormVariantRepository) ListIDsByProduct(productID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.Variant{}).
		Where("product_id = ?", productID).
		Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GetByID 根据 ID 获取变体
func (r *GormVariantRepository) GetByID(id uint) (*models.Variant, error) {
	var variant models.Variant
	if err := r.db.First(&variant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// FindByTuple 按槽位值元组精确查找变体（nil 槽位匹配存储的空串哨兵）
func (r *GormVariantRepository) FindByTuple(productID uint, values [constants.MaxProductOptions]*string) (*models.Variant, error) {
	query := r.db.Where("product_id = ?", productID)
	for slot, value := range values {
		column := models.SlotColumn(slot)
		title := ""
		if value != nil {
			title = *value
		}
		query = query.Where(fmt.Sprintf("%s = ?", column), title)
	}
	var variant models.Variant
	if err := query.First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// ListBySlotValue 返回指定槽位取某规格值的全部变体
func (r *GormVariantRepository) ListBySlotValue(productID uint, slot int, title string) ([]models.Variant, error) {
	column := models.SlotColumn(slot)
	if column == "" {
		return nil, fmt.Errorf("invalid variant slot: %d", slot)
	}
	var variants []models.Variant
	if err := r.db.Where(fmt.Sprintf("product_id = ? AND %s = ?", column), productID, title).
		Order("id ASC").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// UpdateSlotValue 批量改写指定槽位的规格值（规格值改名时使用）
func (r *GormVariantRepository) UpdateSlotValue(productID uint, slot int, oldTitle, newTitle string) error {
	column := models.SlotColumn(slot)
	if column == "" {
		return fmt.Errorf("invalid variant slot: %d", slot)
	}
	return r.db.Model(&models.Variant{}).
		Where(fmt.Sprintf("product_id = ? AND %s = ?", column), productID, oldTitle).
		Update(column, newTitle).Error
}

// Create 创建变体
func (r *GormVariantRepository) Create(variant *models.Variant) error {
	return r.db.Create(variant).Error
}

// CreateBatch 批量创建变体
func (r *GormVariantRepository) CreateBatch(variants []models.Variant) error {
	if len(variants) == 0 {
		return nil
	}
	return r.db.Create(&variants).Error
}

// Update 更新变体
func (r *GormVariantRepository) Update(variant *models.Variant) error {
	return r.db.Save(variant).Error
}

// DeleteByIDs 批量删除变体
func (r *GormVariantRepository) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("id IN ?", ids).Delete(&models.Variant{}).Error
}
