package repository

import (
	"errors"

	"github.com/restock-next/internal/models"

	"gorm.io/gorm"
)

// ImageRepository 图片数据访问接口（商品图与变体图共用）
type ImageRepository interface {
	ListByProduct(productID uint) ([]models.Image, error)
	ListByVariant(variantID uint) ([]models.Image, error)
	GetByID(id uint) (*models.Image, error)
	Create(image *models.Image) error
	Update(image *models.Image) error
	Delete(id uint) error
	DeleteByVariantIDs(variantIDs []uint) error
	DeleteByProduct(productID uint) error
	MoveToPosition(image *models.Image, position int) error
	CompactPositions(image *models.Image) error
	NextPosition(image *models.Image) (int, error)
	WithTx(tx *gorm.DB) ImageRepository
}

// GormImageRepository GORM 实现
type GormImageRepository struct {
	db *gorm.DB
}

// NewImageRepository 创建图片仓库
func NewImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormImageRepository) WithTx(tx *gorm.DB) ImageRepository {
	if tx == nil {
		return r
	}
	return &GormImageRepository{db: tx}
}

// ListByProduct 商品图片列表（position 升序）
func (r *GormImageRepository) ListByProduct(productID uint) ([]models.Image, error) {
	var images []models.Image
	if err := r.db.Where("product_id = ? AND variant_id IS NULL", productID).
		Order("position ASC, id ASC").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// ListByVariant 变体图片列表（position 升序）
func (r *GormImageRepository) ListByVariant(variantID uint) ([]models.Image, error) {
	var images []models.Image
	if err := r.db.Where("variant_id = ?", variantID).
		Order("position ASC, id ASC").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// GetByID 根据 ID 获取图片
func (r *GormImageRepository) GetByID(id uint) (*models.Image, error) {
	var image models.Image
	if err := r.db.First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// Create 创建图片
func (r *GormImageRepository) Create(image *models.Image) error {
	return r.db.Create(image).Error
}

// Update 更新图片
func (r *GormImageRepository) Update(image *models.Image) error {
	return r.db.Save(image).Error
}

// Delete 删除图片
func (r *GormImageRepository) Delete(id uint) error {
	return r.db.Delete(&models.Image{}, id).Error
}

// DeleteByVariantIDs 删除变体关联图片（变体被矩阵同步清理时级联）
func (r *GormImageRepository) DeleteByVariantIDs(variantIDs []uint) error {
	if len(variantIDs) == 0 {
		return nil
	}
	return r.db.Where("variant_id IN ?", variantIDs).Delete(&models.Image{}).Error
}

// DeleteByProduct 删除商品的全部图片（商品删除时级联）
func (r *GormImageRepository) DeleteByProduct(productID uint) error {
	return r.db.Where("product_id = ?", productID).Delete(&models.Image{}).Error
}

// imageScope 图片的排序作用域：变体图按变体隔离，商品图按商品隔离
func imageScope(image *models.Image) (string, []interface{}) {
	if image.VariantID != nil {
		return "variant_id = ?", []interface{}{*image.VariantID}
	}
	return "product_id = ? AND variant_id IS NULL", []interface{}{derefUint(image.ProductID)}
}

func derefUint(value *uint) uint {
	if value == nil {
		return 0
	}
	return *value
}

// MoveToPosition 将图片移动到指定 position（换位语义）
func (r *GormImageRepository) MoveToPosition(image *models.Image, position int) error {
	scopeQuery, scopeArgs := imageScope(image)
	return moveToPosition(r.db, &models.Image{}, scopeQuery, scopeArgs, image.ID, position)
}

// CompactPositions 将图片 position 压缩为 0..n-1
func (r *GormImageRepository) CompactPositions(image *models.Image) error {
	scopeQuery, scopeArgs := imageScope(image)
	return compactPositions(r.db, &models.Image{}, scopeQuery, scopeArgs)
}

// NextPosition 下一个空闲图片 position
func (r *GormImageRepository) NextPosition(image *models.Image) (int, error) {
	scopeQuery, scopeArgs := imageScope(image)
	return nextPosition(r.db, &models.Image{}, scopeQuery, scopeArgs)
}
