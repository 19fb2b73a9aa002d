package repository

import (
	"errors"

	"github.com/restock-next/internal/models"

	"gorm.io/gorm"
)

// DeliveryProfileRepository 交付档案数据访问接口
type DeliveryProfileRepository interface {
	List() ([]models.DeliveryProfile, error)
	GetByID(id uint) (*models.DeliveryProfile, error)
	GetDefault() (*models.DeliveryProfile, error)
	Create(profile *models.DeliveryProfile) error
	Update(profile *models.DeliveryProfile) error
	Delete(id uint) error
	ClearDefault(excludeID uint) error
	CountOffers(profileID uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) DeliveryProfileRepository
}

// GormDeliveryProfileRepository GORM 实现
type GormDeliveryProfileRepository struct {
	db *gorm.DB
}

// NewDeliveryProfileRepository 创建交付档案仓库
func NewDeliveryProfileRepository(db *gorm.DB) *GormDeliveryProfileRepository {
	return &GormDeliveryProfileRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliveryProfileRepository) WithTx(tx *gorm.DB) DeliveryProfileRepository {
	if tx == nil {
		return r
	}
	return &GormDeliveryProfileRepository{db: tx}
}

// Transaction 执行事务
func (r *GormDeliveryProfileRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 交付档案列表
func (r *GormDeliveryProfileRepository) List() ([]models.DeliveryProfile, error) {
	var profiles []models.DeliveryProfile
	if err := r.db.Order("is_default DESC, id ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetByID 根据 ID 获取交付档案
func (r *GormDeliveryProfileRepository) GetByID(id uint) (*models.DeliveryProfile, error) {
	var profile models.DeliveryProfile
	if err := r.db.First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// GetDefault 获取默认交付档案
func (r *GormDeliveryProfileRepository) GetDefault() (*models.DeliveryProfile, error) {
	var profile models.DeliveryProfile
	if err := r.db.Where("is_default = ?", true).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// Create 创建交付档案
func (r *GormDeliveryProfileRepository) Create(profile *models.DeliveryProfile) error {
	return r.db.Create(profile).Error
}

// Update 更新交付档案
func (r *GormDeliveryProfileRepository) Update(profile *models.DeliveryProfile) error {
	return r.db.Save(profile).Error
}

// Delete 删除交付档案
func (r *GormDeliveryProfileRepository) Delete(id uint) error {
	return r.db.Delete(&models.DeliveryProfile{}, id).Error
}

// ClearDefault 取消其他档案的默认标记（切换默认档案时使用）
func (r *GormDeliveryProfileRepository) ClearDefault(excludeID uint) error {
	return r.db.Model(&models.DeliveryProfile{}).
		Where("is_default = ? AND id != ?", true, excludeID).
		Update("is_default", false).Error
}

// CountOffers 统计引用该档案的 Offer 数量
func (r *GormDeliveryProfileRepository) CountOffers(profileID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Offer{}).
		Where("delivery_profile_id = ?", profileID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
