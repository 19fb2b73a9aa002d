package service

import (
	"strings"

	"github.com/restock-next/internal/constants"
	"github.com/restock-next/internal/models"
	"github.com/restock-next/internal/repository"

	"gorm.io/gorm"
)

// VariantService 商品变体业务服务（单变体直连操作）
type VariantService struct {
	products repository.ProductRepository
	options  repository.OptionRepository
	variants repository.VariantRepository
	offers   repository.OfferRepository
	images   repository.ImageRepository
}

// NewVariantService 创建变体服务
func NewVariantService(
	products repository.ProductRepository,
	options repository.OptionRepository,
	variants repository.VariantRepository,
	offers repository.OfferRepository,
	images repository.ImageRepository,
) *VariantService {
	return &VariantService{
		products: products,
		options:  options,
		variants: variants,
		offers:   offers,
		images:   images,
	}
}

// CreateVariantInput 创建变体输入
type CreateVariantInput struct {
	ProductID uint
	Values    [constants.MaxProductOptions]*string
	SKU       string
	Barcode   string
}

// UpdateVariantInput 更新变体输入
type UpdateVariantInput struct {
	Values  *[constants.MaxProductOptions]*string
	SKU     *string
	Barcode *string
}

// normalizeTuple 清洗元组中的空白字符
func normalizeTuple(values [constants.MaxProductOptions]*string) [constants.MaxProductOptions]*string {
	for slot, value := range values {
		if value != nil {
			trimmed := strings.TrimSpace(*value)
			values[slot] = &trimmed
		}
	}
	return values
}

// validateTuple 校验元组与商品规格定义一致：占用槽位必须取该规格的
// 合法规格值，空闲槽位必须为 nil
func validateTuple(options []models.Option, values variantTuple) error {
	if len(options) == 0 {
		return ErrInvalidInput
	}
	bySlot := make(map[int]*models.Option, len(options))
	for i := range options {
		bySlot[options[i].Slot] = &options[i]
	}
	for slot := 0; slot < constants.MaxProductOptions; slot++ {
		option, occupied := bySlot[slot]
		if !occupied {
			if values[slot] != nil {
				return ErrInvalidInput
			}
			continue
		}
		if values[slot] == nil {
			return ErrInvalidInput
		}
		valid := false
		for _, value := range option.Values {
			if value.Title == *values[slot] {
				valid = true
				break
			}
		}
		if !valid {
			return ErrInvalidInput
		}
	}
	return nil
}

// ListByProduct 商品变体列表，附带各变体的最低 ACTIVE 展示价
func (s *VariantService) ListByProduct(productID uint) ([]models.Variant, map[uint]models.Money, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, ErrNotFound
	}
	variants, err := s.variants.ListByProduct(productID)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]uint, 0, len(variants))
	for i := range variants {
		ids = append(ids, variants[i].ID)
	}
	cheapest, err := s.offers.CheapestActiveByVariants(ids)
	if err != nil {
		return nil, nil, err
	}
	return variants, cheapest, nil
}

// GetByID 变体详情
func (s *VariantService) GetByID(id uint) (*models.Variant, error) {
	variant, err := s.variants.GetByID(id)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrNotFound
	}
	return variant, nil
}

// Title 渲染变体的展示标题
func (s *VariantService) Title(variant *models.Variant) (string, error) {
	options, err := s.options.ListByProduct(variant.ProductID)
	if err != nil {
		return "", err
	}
	return variant.Title(options), nil
}

// CreateVariant 直连创建单个变体，元组冲突返回 ErrVariantExists
func (s *VariantService) CreateVariant(input CreateVariantInput) (*models.Variant, error) {
	var created *models.Variant
	err := s.products.Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		options := s.options.WithTx(tx)
		variants := s.variants.WithTx(tx)

		product, err := products.GetByID(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrNotFound
		}

		tuple := normalizeTuple(input.Values)
		productOptions, err := options.ListByProduct(product.ID)
		if err != nil {
			return err
		}
		if err := validateTuple(productOptions, tuple); err != nil {
			return err
		}

		existing, err := variants.FindByTuple(product.ID, tuple)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrVariantExists
		}

		variant := &models.Variant{
			ProductID: product.ID,
			SKU:       product.SKU,
			Barcode:   product.Barcode,
		}
		if sku := strings.TrimSpace(input.SKU); sku != "" {
			variant.SKU = sku
		}
		if barcode := strings.TrimSpace(input.Barcode); barcode != "" {
			variant.Barcode = barcode
		}
		for slot, value := range tuple {
			variant.SetSlotValue(slot, value)
		}
		if err := variants.Create(variant); err != nil {
			return err
		}
		created = variant
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateVariant 更新变体，元组变更会把新标题传播到非终态 Offer
func (s *VariantService) UpdateVariant(variantID uint, input UpdateVariantInput) (*models.Variant, error) {
	var updated *models.Variant
	err := s.products.Transaction(func(tx *gorm.DB) error {
		options := s.options.WithTx(tx)
		variants := s.variants.WithTx(tx)
		offers := s.offers.WithTx(tx)

		variant, err := variants.GetByID(variantID)
		if err != nil {
			return err
		}
		if variant == nil {
			return ErrNotFound
		}

		if input.SKU != nil {
			variant.SKU = strings.TrimSpace(*input.SKU)
		}
		if input.Barcode != nil {
			variant.Barcode = strings.TrimSpace(*input.Barcode)
		}

		tupleChanged := false
		if input.Values != nil {
			tuple := normalizeTuple(*input.Values)
			productOptions, err := options.ListByProduct(variant.ProductID)
			if err != nil {
				return err
			}
			if err := validateTuple(productOptions, tuple); err != nil {
				return err
			}
			collision, err := variants.FindByTuple(variant.ProductID, tuple)
			if err != nil {
				return err
			}
			if collision != nil && collision.ID != variant.ID {
				return ErrVariantExists
			}
			for slot, value := range tuple {
				variant.SetSlotValue(slot, value)
			}
			tupleChanged = true
		}

		if err := variants.Update(variant); err != nil {
			return err
		}

		if tupleChanged {
			productOptions, err := options.ListByProduct(variant.ProductID)
			if err != nil {
				return err
			}
			if err := offers.UpdateVariantTitle(variant.ID, variant.Title(productOptions)); err != nil {
				return err
			}
		}
		updated = variant
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteVariant 删除变体，其上的非冻结 Offer 转为 NO_MATCH
func (s *VariantService) DeleteVariant(variantID uint) error {
	return s.products.Transaction(func(tx *gorm.DB) error {
		variants := s.variants.WithTx(tx)
		offers := s.offers.WithTx(tx)
		images := s.images.WithTx(tx)

		variant, err := variants.GetByID(variantID)
		if err != nil {
			return err
		}
		if variant == nil {
			return ErrNotFound
		}

		if _, err := offers.OrphanByVariantIDs([]uint{variant.ID}); err != nil {
			return err
		}
		if err := images.DeleteByVariantIDs([]uint{variant.ID}); err != nil {
			return err
		}
		return variants.DeleteByIDs([]uint{variant.ID})
	})
}
