package service

import (
	"strings"

	"github.com/restock-next/internal/models"
	"github.com/restock-next/internal/repository"

	"gorm.io/gorm"
)

// ProductService 商品业务服务
type ProductService struct {
	products repository.ProductRepository
	options  repository.OptionRepository
	variants repository.VariantRepository
	offers   repository.OfferRepository
	features repository.FeatureRepository
	images   repository.ImageRepository
}

// NewProductService 创建商品服务
func NewProductService(
	products repository.ProductRepository,
	options repository.OptionRepository,
	variants repository.VariantRepository,
	offers repository.OfferRepository,
	features repository.FeatureRepository,
	images repository.ImageRepository,
) *ProductService {
	return &ProductService{
		products: products,
		options:  options,
		variants: variants,
		offers:   offers,
		features: features,
		images:   images,
	}
}

// MetafieldInput 元字段输入
type MetafieldInput struct {
	Key   string
	Value string
}

// MetafieldUpdateInput 元字段子编辑输入
type MetafieldUpdateInput struct {
	ID    uint
	Key   *string
	Value *string
}

// CreateProductInput 创建商品输入
type CreateProductInput struct {
	Handle      string
	Title       string
	Description string
	Vendor      string
	SKU         string
	Barcode     string
	Tags        []string
	IsAvailable *bool
	Metafields  []MetafieldInput
}

// UpdateProductInput 更新商品输入（nil 字段不变更）
type UpdateProductInput struct {
	Handle             *string
	Title              *string
	Description        *string
	Vendor             *string
	SKU                *string
	Barcode            *string
	Tags               *[]string
	IsAvailable        *bool
	CreateMetafields   []MetafieldInput
	UpdateMetafields   []MetafieldUpdateInput
	DeleteMetafieldIDs []uint
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.products.List(filter)
}

// GetByID 商品详情（不含关联）
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// GetDetail 商品详情，装配规格、变体、特性、图片与元字段
func (s *ProductService) GetDetail(id uint) (*models.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product.Options, err = s.options.ListByProduct(id); err != nil {
		return nil, err
	}
	if product.Variants, err = s.variants.ListByProduct(id); err != nil {
		return nil, err
	}
	if product.Features, err = s.features.ListByProduct(id); err != nil {
		return nil, err
	}
	if product.Images, err = s.images.ListByProduct(id); err != nil {
		return nil, err
	}
	if product.Metafields, err = s.products.ListMetafields(id); err != nil {
		return nil, err
	}
	return product, nil
}

// CreateProduct 创建商品与初始元字段
func (s *ProductService) CreateProduct(input CreateProductInput) (*models.Product, error) {
	handle := strings.TrimSpace(input.Handle)
	title := strings.TrimSpace(input.Title)
	if handle == "" || title == "" {
		return nil, ErrInvalidInput
	}

	var created *models.Product
	err := s.products.Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)

		count, err := products.CountByHandle(handle, nil)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrHandleExists
		}

		isAvailable := true
		if input.IsAvailable != nil {
			isAvailable = *input.IsAvailable
		}
		product := &models.Product{
			Handle:      handle,
			Title:       title,
			Description: input.Description,
			Vendor:      strings.TrimSpace(input.Vendor),
			SKU:         strings.TrimSpace(input.SKU),
			Barcode:     strings.TrimSpace(input.Barcode),
			Tags:        models.StringArray(input.Tags),
			IsAvailable: isAvailable,
		}
		if err := products.Create(product); err != nil {
			return err
		}

		for _, field := range input.Metafields {
			if err := createMetafield(products, product.ID, field); err != nil {
				return err
			}
		}
		created = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// createMetafield 创建元字段，键在商品内唯一
func createMetafield(products repository.ProductRepository, productID uint, input MetafieldInput) error {
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return ErrInvalidInput
	}
	existing, err := products.GetMetafield(productID, key)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrMetafieldKeyExists
	}
	return products.CreateMetafield(&models.Metafield{
		ProductID: productID,
		Key:       key,
		Value:     input.Value,
	})
}

// UpdateProduct 更新商品：标题变更传播到非终态 Offer，元字段按子编辑应用
func (s *ProductService) UpdateProduct(productID uint, input UpdateProductInput) (*models.Product, error) {
	var updated *models.Product
	err := s.products.Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		offers := s.offers.WithTx(tx)

		product, err := products.GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrNotFound
		}

		if input.Handle != nil {
			handle := strings.TrimSpace(*input.Handle)
			if handle == "" {
				return ErrInvalidInput
			}
			if handle != product.Handle {
				count, err := products.CountByHandle(handle, &product.ID)
				if err != nil {
					return err
				}
				if count > 0 {
					return ErrHandleExists
				}
				product.Handle = handle
			}
		}

		titleChanged := false
		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return ErrInvalidInput
			}
			if title != product.Title {
				product.Title = title
				titleChanged = true
			}
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Vendor != nil {
			product.Vendor = strings.TrimSpace(*input.Vendor)
		}
		if input.SKU != nil {
			product.SKU = strings.TrimSpace(*input.SKU)
		}
		if input.Barcode != nil {
			product.Barcode = strings.TrimSpace(*input.Barcode)
		}
		if input.Tags != nil {
			product.Tags = models.StringArray(*input.Tags)
		}
		if input.IsAvailable != nil {
			product.IsAvailable = *input.IsAvailable
		}

		if err := products.Update(product); err != nil {
			return err
		}
		if titleChanged {
			if err := offers.UpdateProductTitle(product.ID, product.Title); err != nil {
				return err
			}
		}

		for _, field := range input.CreateMetafields {
			if err := createMetafield(products, product.ID, field); err != nil {
				return err
			}
		}
		for _, edit := range input.UpdateMetafields {
			metafield, err := products.GetMetafieldByID(edit.ID)
			if err != nil {
				return err
			}
			if metafield == nil || metafield.ProductID != product.ID {
				return ErrNotFound
			}
			if edit.Key != nil {
				key := strings.TrimSpace(*edit.Key)
				if key == "" {
					return ErrInvalidInput
				}
				if key != metafield.Key {
					existing, err := products.GetMetafield(product.ID, key)
					if err != nil {
						return err
					}
					if existing != nil {
						return ErrMetafieldKeyExists
					}
					metafield.Key = key
				}
			}
			if edit.Value != nil {
				metafield.Value = *edit.Value
			}
			if err := products.UpdateMetafield(metafield); err != nil {
				return err
			}
		}
		for _, metafieldID := range input.DeleteMetafieldIDs {
			metafield, err := products.GetMetafieldByID(metafieldID)
			if err != nil {
				return err
			}
			if metafield == nil || metafield.ProductID != product.ID {
				return ErrNotFound
			}
			if err := products.DeleteMetafield(metafield.ID); err != nil {
				return err
			}
		}

		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProduct 删除商品及其目录结构；其变体上的非冻结 Offer 转为 NO_MATCH
func (s *ProductService) DeleteProduct(productID uint) error {
	return s.products.Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		options := s.options.WithTx(tx)
		variants := s.variants.WithTx(tx)
		offers := s.offers.WithTx(tx)
		features := s.features.WithTx(tx)
		images := s.images.WithTx(tx)

		product, err := products.GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrNotFound
		}

		variantIDs, err := variants.ListIDsByProduct(product.ID)
		if err != nil {
			return err
		}
		if _, err := offers.OrphanByVariantIDs(variantIDs); err != nil {
			return err
		}
		if err := variants.DeleteByIDs(variantIDs); err != nil {
			return err
		}

		productOptions, err := options.ListByProduct(product.ID)
		if err != nil {
			return err
		}
		for i := range productOptions {
			if err := options.Delete(productOptions[i].ID); err != nil {
				return err
			}
		}

		productFeatures, err := features.ListByProduct(product.ID)
		if err != nil {
			return err
		}
		for i := range productFeatures {
			if err := features.Delete(productFeatures[i].ID); err != nil {
				return err
			}
		}

		if err := images.DeleteByProduct(product.ID); err != nil {
			return err
		}

		metafields, err := products.ListMetafields(product.ID)
		if err != nil {
			return err
		}
		for i := range metafields {
			if err := products.DeleteMetafield(metafields[i].ID); err != nil {
				return err
			}
		}

		return products.Delete(product.ID)
	})
}
