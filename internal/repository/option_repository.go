package repository

import (
	"errors"

	"github.com/restock-next/internal/models"

	"gorm.io/gorm"
)

// OptionRepository 商品规格数据访问接口
type OptionRepository interface {
	ListByProduct(productID uint) ([]models.Option, error)
	GetByID(id uint) (*models.Option, error)
	Create(option *models.Option) error
	Update(option *models.Option) error
	Delete(id uint) error
	CountByTitle(productID uint, title string, excludeID *uint) (int64, error)
	MoveToPosition(productID, optionID uint, position int) error
	CompactPositions(productID uint) error
	NextPosition(productID uint) (int, error)
	GetValue(id uint) (*models.OptionValue, error)
	CreateValue(value *models.OptionValue) error
	UpdateValue(value *models.OptionValue) error
	DeleteValue(id uint) error
	CountValueByTitle(optionID uint, title string, excludeID *uint) (int64, error)
	MoveValueToPosition(optionID, valueID uint, position int) error
	CompactValuePositions(optionID uint) error
	NextValuePosition(optionID uint) (int, error)
	WithTx(tx *gorm.DB) OptionRepository
}

// GormOptionRepository GORM 实现
type GormOptionRepository struct {
	db *gorm.DB
}

// NewOptionRepository 创建规格仓库
func NewOptionRepository(db *gorm.DB) *GormOptionRepository {
	return &GormOptionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOptionRepository) WithTx(tx *gorm.DB) OptionRepository {
	if tx == nil {
		return r
	}
	return &GormOptionRepository{db: tx}
}

// ListByProduct 按 position 升序返回商品规格（含规格值）
func (r *GormOptionRepository) ListByProduct(productID uint) ([]models.Option, error) {
	var options []models.Option
	if err := r.db.Where("product_id = ?", productID).
		Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Order("position ASC, id ASC").
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

// GetByID 根据 ID 获取规格（含规格值）
func (r *GormOptionRepository) GetByID(id uint) (*models.Option, error) {
	var option models.Option
	if err := r.db.Preload("Values", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC, id ASC")
	}).First(&option, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &option, nil
}

// Create 创建规格
func (r *GormOptionRepository) Create(option *models.Option) error {
	return r.db.Create(option).Error
}

// Update 更新规格
func (r *GormOptionRepository) Update(option *models.Option) error {
	return r.db.Save(option).Error
}

// Delete 删除规格及其规格值
func (r *GormOptionRepository) Delete(id uint) error {
	if err := r.db.Where("option_id = ?", id).Delete(&models.OptionValue{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Option{}, id).Error
}

// CountByTitle 统计同商品内同名规格数量
func (r *GormOptionRepository) CountByTitle(productID uint, title string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Option{}).
		Where("product_id = ? AND title = ?", productID, title)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MoveToPosition 将规格移动到指定 position（换位语义）
func (r *GormOptionRepository) MoveToPosition(productID, optionID uint, position int) error {
	return moveToPosition(r.db, &models.Option{}, "product_id = ?", []interface{}{productID}, optionID, position)
}

// CompactPositions 将商品规格 position 压缩为 0..n-1
func (r *GormOptionRepository) CompactPositions(productID uint) error {
	return compactPositions(r.db, &models.Option{}, "product_id = ?", []interface{}{productID})
}

// NextPosition 下一个空闲规格 position
func (r *GormOptionRepository) NextPosition(productID uint) (int, error) {
	return nextPosition(r.db, &models.Option{}, "product_id = ?", []interface{}{productID})
}

// GetValue 根据 ID 获取规格值
func (r *GormOptionRepository) GetValue(id uint) (*models.OptionValue, error) {
	var value models.OptionValue
	if err := r.db.First(&value, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &value, nil
}

// CreateValue 创建规格值
func (r *GormOptionRepository) CreateValue(value *models.OptionValue) error {
	return r.db.Create(value).Error
}

// UpdateValue 更新规格值
func (r *GormOptionRepository) UpdateValue(value *models.OptionValue) error {
	return r.db.Save(value).Error
}

// DeleteValue 删除规格值
func (r *GormOptionRepository) DeleteValue(id uint) error {
	return r.db.Delete(&models.OptionValue{}, id).Error
}

// CountValueByTitle 统计同规格内同名规格值数量
func (r *GormOptionRepository) CountValueByTitle(optionID uint, title string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.OptionValue{}).
		Where("option_id = ? AND title = ?", optionID, title)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MoveValueToPosition 将规格值移动到指定 position（换位语义）
func (r *GormOptionRepository) MoveValueToPosition(optionID, valueID uint, position int) error {
	return moveToPosition(r.db, &models.OptionValue{}, "option_id = ?", []interface{}{optionID}, valueID, position)
}

// CompactValuePositions 将规格值 position 压缩为 0..n-1
func (r *GormOptionRepository) CompactValuePositions(optionID uint) error {
	return compactPositions(r.db, &models.OptionValue{}, "option_id = ?", []interface{}{optionID})
}

// NextValuePosition 下一个空闲规格值 position
func (r *GormOptionRepository) NextValuePosition(optionID uint) (int, error) {
	return nextPosition(r.db, &models.OptionValue{}, "option_id = ?", []interface{}{optionID})
}
