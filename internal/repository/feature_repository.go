package repository

import (
	"errors"

	"github.com/restock-next/internal/models"

	"gorm.io/gorm"
)

// FeatureRepository 商品特性数据访问接口
type FeatureRepository interface {
	ListByProduct(productID uint) ([]models.Feature, error)
	GetByID(id uint) (*models.Feature, error)
	Create(feature *models.Feature) error
	Update(feature *models.Feature) error
	Delete(id uint) error
	CountByTitle(productID uint, title string, excludeID *uint) (int64, error)
	MoveToPosition(productID, featureID uint, position int) error
	CompactPositions(productID uint) error
	NextPosition(productID uint) (int, error)
	GetValue(id uint) (*models.FeatureValue, error)
	CreateValue(value *models.FeatureValue) error
	UpdateValue(value *models.FeatureValue) error
	DeleteValue(id uint) error
	MoveValueToPosition(featureID, valueID uint, position int) error
	CompactValuePositions(featureID uint) error
	NextValuePosition(featureID uint) (int, error)
	WithTx(tx *gorm.DB) FeatureRepository
}

// GormFeatureRepository GORM 实现
type GormFeatureRepository struct {
	db *gorm.DB
}

// NewFeatureRepository 创建特性仓库
func NewFeatureRepository(db *gorm.DB) *GormFeatureRepository {
	return &GormFeatureRepository{db: db}
}

// WithTx 绑定事务
func (r *GormFeatureRepository) WithTx(tx *gorm.DB) FeatureRepository {
	if tx == nil {
		return r
	}
	return &GormFeatureRepository{db: tx}
}

// ListByProduct 按 position 升序返回商品特性（含特性值）
func (r *GormFeatureRepository) ListByProduct(productID uint) ([]models.Feature, error) {
	var features []models.Feature
	if err := r.db.Where("product_id = ?", productID).
		Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Order("position ASC, id ASC").
		Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

// GetByID 根据 ID 获取特性（含特性值）
func (r *GormFeatureRepository) GetByID(id uint) (*models.Feature, error) {
	var feature models.Feature
	if err := r.db.Preload("Values", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC, id ASC")
	}).First(&feature, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &feature, nil
}

// Create 创建特性
func (r *GormFeatureRepository) Create(feature *models.Feature) error {
	return r.db.Create(feature).Error
}

// Update 更新特性
func (r *GormFeatureRepository) Update(feature *models.Feature) error {
	return r.db.Save(feature).Error
}

// Delete 删除特性及其特性值
func (r *GormFeatureRepository) Delete(id uint) error {
	if err := r.db.Where("feature_id = ?", id).Delete(&models.FeatureValue{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Feature{}, id).Error
}

// CountByTitle 统计同商品内同名特性数量
func (r *GormFeatureRepository) CountByTitle(productID uint, title string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Feature{}).
		Where("product_id = ? AND title = ?", productID, title)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MoveToPosition 将特性移动到指定 position（换位语义）
func (r *GormFeatureRepository) MoveToPosition(productID, featureID uint, position int) error {
	return moveToPosition(r.db, &models.Feature{}, "product_id = ?", []interface{}{productID}, featureID, position)
}

// CompactPositions 将商品特性 position 压缩为 0..n-1
func (r *GormFeatureRepository) CompactPositions(productID uint) error {
	return compactPositions(r.db, &models.Feature{}, "product_id = ?", []interface{}{productID})
}

// NextPosition 下一个空闲特性 position
func (r *GormFeatureRepository) NextPosition(productID uint) (int, error) {
	return nextPosition(r.db, &models.Feature{}, "product_id = ?", []interface{}{productID})
}

// GetValue 根据 ID 获取特性值
func (r *GormFeatureRepository) GetValue(id uint) (*models.FeatureValue, error) {
	var value models.FeatureValue
	if err := r.db.First(&value, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &value, nil
}

// CreateValue 创建特性值
func (r *GormFeatureRepository) CreateValue(value *models.FeatureValue) error {
	return r.db.Create(value).Error
}

// UpdateValue 更新特性值
func (r *GormFeatureRepository) UpdateValue(value *models.FeatureValue) error {
	return r.db.Save(value).Error
}

// DeleteValue 删除特性值
func (r *GormFeatureRepository) DeleteValue(id uint) error {
	return r.db.Delete(&models.FeatureValue{}, id).Error
}

// MoveValueToPosition 将特性值移动到指定 position（换位语义）
func (r *GormFeatureRepository) MoveValueToPosition(featureID, valueID uint, position int) error {
	return moveToPosition(r.db, &models.FeatureValue{}, "feature_id = ?", []interface{}{featureID}, valueID, position)
}

// CompactValuePositions 将特性值 position 压缩为 0..n-1
func (r *GormFeatureRepository) CompactValuePositions(featureID uint) error {
	return compactPositions(r.db, &models.FeatureValue{}, "feature_id = ?", []interface{}{featureID})
}

// NextValuePosition 下一个空闲特性值 position
func (r *GormFeatureRepository) NextValuePosition(featureID uint) (int, error) {
	return nextPosition(r.db, &models.FeatureValue{}, "feature_id = ?", []interface{}{featureID})
}
