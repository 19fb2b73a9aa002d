package service

import (
	"strings"

	"github.com/restock-next/internal/models"
	"github.com/restock-next/internal/repository"

	"gorm.io/gorm"
)

// DeliveryProfileService 交付档案业务服务，维护唯一默认档案不变式
type DeliveryProfileService struct {
	profiles repository.DeliveryProfileRepository
}

// NewDeliveryProfileService 创建交付档案服务
func NewDeliveryProfileService(profiles repository.DeliveryProfileRepository) *DeliveryProfileService {
	return &DeliveryProfileService{profiles: profiles}
}

// CreateProfileInput 创建交付档案输入
type CreateProfileInput struct {
	Title     string
	IsDefault bool
}

// UpdateProfileInput 更新交付档案输入
type UpdateProfileInput struct {
	Title     *string
	IsDefault *bool
}

// List 交付档案列表
func (s *DeliveryProfileService) List() ([]models.DeliveryProfile, error) {
	return s.profiles.List()
}

// GetByID 交付档案详情
func (s *DeliveryProfileService) GetByID(id uint) (*models.DeliveryProfile, error) {
	profile, err := s.profiles.GetByID(id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

// Create 创建交付档案；设为默认时取消其他档案的默认标记
func (s *DeliveryProfileService) Create(input CreateProfileInput) (*models.DeliveryProfile, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	var created *models.DeliveryProfile
	err := s.profiles.Transaction(func(tx *gorm.DB) error {
		profiles := s.profiles.WithTx(tx)
		profile := &models.DeliveryProfile{Title: title, IsDefault: input.IsDefault}
		if err := profiles.Create(profile); err != nil {
			return err
		}
		if profile.IsDefault {
			if err := profiles.ClearDefault(profile.ID); err != nil {
				return err
			}
		}
		created = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update 更新交付档案；取消默认标记前必须已有新的默认档案
func (s *DeliveryProfileService) Update(id uint, input UpdateProfileInput) (*models.DeliveryProfile, error) {
	var updated *models.DeliveryProfile
	err := s.profiles.Transaction(func(tx *gorm.DB) error {
		profiles := s.profiles.WithTx(tx)

		profile, err := profiles.GetByID(id)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrNotFound
		}

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return ErrInvalidInput
			}
			profile.Title = title
		}
		if input.IsDefault != nil {
			// 默认档案必须始终存在，不允许直接摘掉唯一默认标记
			if profile.IsDefault && !*input.IsDefault {
				return ErrInvalidInput
			}
			profile.IsDefault = *input.IsDefault
		}

		if err := profiles.Update(profile); err != nil {
			return err
		}
		if profile.IsDefault {
			if err := profiles.ClearDefault(profile.ID); err != nil {
				return err
			}
		}
		updated = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete 删除交付档案：默认档案与仍被 Offer 引用的档案不可删除
func (s *DeliveryProfileService) Delete(id uint) error {
	return s.profiles.Transaction(func(tx *gorm.DB) error {
		profiles := s.profiles.WithTx(tx)

		profile, err := profiles.GetByID(id)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrNotFound
		}
		if profile.IsDefault {
			return ErrDefaultProfileUndeletable
		}
		count, err := profiles.CountOffers(profile.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDeliveryProfileInUse
		}
		return profiles.Delete(profile.ID)
	})
}
