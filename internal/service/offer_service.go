package service

import (
	"strings"

	"github.com/restock-next/internal/constants"
	"github.com/restock-next/internal/models"
	"github.com/restock-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OfferService Offer 生命周期状态机
type OfferService struct {
	offers   repository.OfferRepository
	variants repository.VariantRepository
	products repository.ProductRepository
	options  repository.OptionRepository
	profiles repository.DeliveryProfileRepository
	users    repository.UserRepository
}

// NewOfferService 创建 Offer 服务
func NewOfferService(
	offers repository.OfferRepository,
	variants repository.VariantRepository,
	products repository.ProductRepository,
	options repository.OptionRepository,
	profiles repository.DeliveryProfileRepository,
	users repository.UserRepository,
) *OfferService {
	return &OfferService{
		offers:   offers,
		variants: variants,
		products: products,
		options:  options,
		profiles: profiles,
		users:    users,
	}
}

// validOfferStatus 校验状态取值
func validOfferStatus(status string) bool {
	switch status {
	case constants.OfferStatusActive,
		constants.OfferStatusNoMatch,
		constants.OfferStatusSold,
		constants.OfferStatusReturning:
		return true
	}
	return false
}

// CreateOfferInput 创建 Offer 输入
type CreateOfferInput struct {
	UserID            uint
	VariantID         uint
	Price             decimal.Decimal
	OfferPrice        decimal.Decimal
	Status            string
	DeliveryProfileID *uint
	Comment           string
}

// UpdateOfferInput 更新 Offer 输入（nil 字段不变更）
type UpdateOfferInput struct {
	VariantID         *uint
	Status            *string
	Price             *decimal.Decimal
	OfferPrice        *decimal.Decimal
	DeliveryProfileID *uint
	Comment           *string
	OrderID           *uint
}

// UpsertSyncedInput 行情价格同步的覆盖式更新输入
type UpsertSyncedInput struct {
	VariantID         uint
	UserID            uint
	DeliveryProfileID *uint
	Price             decimal.Decimal
	OfferPrice        decimal.Decimal
	Amount            int
}

// List Offer 列表
func (s *OfferService) List(filter repository.OfferListFilter) ([]models.Offer, int64, error) {
	return s.offers.List(filter)
}

// GetByID Offer 详情
func (s *OfferService) GetByID(id uint) (*models.Offer, error) {
	offer, err := s.offers.GetByID(id)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, ErrNotFound
	}
	return offer, nil
}

// resolveProfile 解析交付档案：未指定时取唯一默认档案，
// 默认档案缺失属于配置性故障
func resolveProfile(profiles repository.DeliveryProfileRepository, explicitID *uint) (*models.DeliveryProfile, error) {
	if explicitID != nil {
		profile, err := profiles.GetByID(*explicitID)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, ErrNotFound
		}
		return profile, nil
	}
	profile, err := profiles.GetDefault()
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNoDefaultDeliveryProfile
	}
	return profile, nil
}

// variantTitles 渲染变体与所属商品的冗余标题
func (s *OfferService) variantTitles(tx *gorm.DB, variant *models.Variant) (productTitle, variantTitle string, err error) {
	product, err := s.products.WithTx(tx).GetByID(variant.ProductID)
	if err != nil {
		return "", "", err
	}
	if product == nil {
		return "", "", ErrNotFound
	}
	options, err := s.options.WithTx(tx).ListByProduct(variant.ProductID)
	if err != nil {
		return "", "", err
	}
	return product.Title, variant.Title(options), nil
}

// CreateOffer 创建 Offer，默认 ACTIVE，必须挂接交付档案
func (s *OfferService) CreateOffer(input CreateOfferInput) (*models.Offer, error) {
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.OfferStatusActive
	}
	if !validOfferStatus(status) {
		return nil, ErrInvalidInput
	}

	var created *models.Offer
	err := s.offers.Transaction(func(tx *gorm.DB) error {
		offers := s.offers.WithTx(tx)
		variants := s.variants.WithTx(tx)
		profiles := s.profiles.WithTx(tx)
		users := s.users.WithTx(tx)

		user, err := users.GetByID(input.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrNotFound
		}

		variant, err := variants.GetByID(input.VariantID)
		if err != nil {
			return err
		}
		if variant == nil {
			return ErrNotFound
		}

		productTitle, variantTitle, err := s.variantTitles(tx, variant)
		if err != nil {
			return err
		}

		profile, err := resolveProfile(profiles, input.DeliveryProfileID)
		if err != nil {
			return err
		}

		offer := &models.Offer{
			UserID:            user.ID,
			ProductID:         &variant.ProductID,
			VariantID:         &variant.ID,
			DeliveryProfileID: &profile.ID,
			Status:            status,
			Price:             models.NewMoneyFromDecimal(input.Price),
			OfferPrice:        models.NewMoneyFromDecimal(input.OfferPrice),
			ProductTitle:      productTitle,
			VariantTitle:      variantTitle,
			Comment:           strings.TrimSpace(input.Comment),
		}
		if err := offers.Create(offer); err != nil {
			return err
		}
		created = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateOffer 按状态机规则更新 Offer：
//   - 终态（SOLD/RETURNING）拒绝一切修改；
//   - NO_MATCH 且未提供新变体时拒绝显式改状态；
//   - NO_MATCH 提供新变体且未显式指定状态时隐式回到 ACTIVE；
//   - 变体从不自动回挂，只接受显式指定。
func (s *OfferService) UpdateOffer(offerID uint, input UpdateOfferInput) (*models.Offer, error) {
	var updated *models.Offer
	err := s.offers.Transaction(func(tx *gorm.DB) error {
		offers := s.offers.WithTx(tx)
		variants := s.variants.WithTx(tx)
		profiles := s.profiles.WithTx(tx)

		offer, err := offers.GetByID(offerID)
		if err != nil {
			return err
		}
		if offer == nil {
			return ErrNotFound
		}
		if offer.IsTerminal() {
			return ErrOfferTerminal
		}

		wasNoMatch := offer.Status == constants.OfferStatusNoMatch
		if wasNoMatch && input.Status != nil && input.VariantID == nil {
			return ErrOfferStatusWithoutVariant
		}

		if input.VariantID != nil {
			variant, err := variants.GetByID(*input.VariantID)
			if err != nil {
				return err
			}
			if variant == nil {
				return ErrNotFound
			}
			productTitle, variantTitle, err := s.variantTitles(tx, variant)
			if err != nil {
				return err
			}
			offer.VariantID = &variant.ID
			offer.ProductID = &variant.ProductID
			offer.ProductTitle = productTitle
			offer.VariantTitle = variantTitle
		}

		switch {
		case input.Status != nil:
			status := strings.TrimSpace(*input.Status)
			if !validOfferStatus(status) {
				return ErrInvalidInput
			}
			offer.Status = status
		case wasNoMatch && input.VariantID != nil:
			// 修复匹配即隐式复活
			offer.Status = constants.OfferStatusActive
		}

		if offer.Status != constants.OfferStatusNoMatch && offer.VariantID == nil {
			return ErrOfferVariantRequired
		}

		if input.Price != nil {
			offer.Price = models.NewMoneyFromDecimal(*input.Price)
		}
		if input.OfferPrice != nil {
			offer.OfferPrice = models.NewMoneyFromDecimal(*input.OfferPrice)
		}
		if input.DeliveryProfileID != nil {
			profile, err := resolveProfile(profiles, input.DeliveryProfileID)
			if err != nil {
				return err
			}
			offer.DeliveryProfileID = &profile.ID
		}
		if input.Comment != nil {
			offer.Comment = strings.TrimSpace(*input.Comment)
		}
		if input.OrderID != nil {
			offer.OrderID = input.OrderID
		}

		offer.DeliveryProfile = nil
		if err := offers.Update(offer); err != nil {
			return err
		}
		updated = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOffer 删除 Offer，终态记录不可删除
func (s *OfferService) DeleteOffer(offerID uint) error {
	return s.offers.Transaction(func(tx *gorm.DB) error {
		offers := s.offers.WithTx(tx)
		offer, err := offers.GetByID(offerID)
		if err != nil {
			return err
		}
		if offer == nil {
			return ErrNotFound
		}
		if offer.IsTerminal() {
			return ErrOfferTerminal
		}
		return offers.Delete(offer.ID)
	})
}

// ReconcileOrphans 手动触发孤儿回收
func (s *OfferService) ReconcileOrphans(productID uint) (int64, error) {
	return s.offers.ReconcileOrphans(productID)
}

// UpsertSyncedOffers 价格同步专用的覆盖式更新：删除该卖家挂在变体上的
// 全部非终态 Offer，再按 Amount 重建 ACTIVE Offer；终态记录不受影响
func (s *OfferService) UpsertSyncedOffers(input UpsertSyncedInput) error {
	if input.Amount < 0 {
		return ErrInvalidInput
	}
	return s.offers.Transaction(func(tx *gorm.DB) error {
		offers := s.offers.WithTx(tx)
		variants := s.variants.WithTx(tx)
		profiles := s.profiles.WithTx(tx)

		variant, err := variants.GetByID(input.VariantID)
		if err != nil {
			return err
		}
		if variant == nil {
			return ErrNotFound
		}
		productTitle, variantTitle, err := s.variantTitles(tx, variant)
		if err != nil {
			return err
		}
		profile, err := resolveProfile(profiles, input.DeliveryProfileID)
		if err != nil {
			return err
		}

		if _, err := offers.DeleteNonTerminalByVariantUser(variant.ID, input.UserID); err != nil {
			return err
		}

		batch := make([]models.Offer, 0, input.Amount)
		for i := 0; i < input.Amount; i++ {
			batch = append(batch, models.Offer{
				UserID:            input.UserID,
				ProductID:         &variant.ProductID,
				VariantID:         &variant.ID,
				DeliveryProfileID: &profile.ID,
				Status:            constants.OfferStatusActive,
				Price:             models.NewMoneyFromDecimal(input.Price),
				OfferPrice:        models.NewMoneyFromDecimal(input.OfferPrice),
				ProductTitle:      productTitle,
				VariantTitle:      variantTitle,
			})
		}
		return offers.CreateBatch(batch)
	})
}
