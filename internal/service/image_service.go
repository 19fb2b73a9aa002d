package service

import (
	"strings"

	"github.com/restock-next/internal/models"
	"github.com/restock-next/internal/repository"

	"gorm.io/gorm"
)

// ImageService 图片排序与归属管理（二进制存储不在本服务范围内）
type ImageService struct {
	products repository.ProductRepository
	variants repository.VariantRepository
	images   repository.ImageRepository
}

// NewImageService 创建图片服务
func NewImageService(
	products repository.ProductRepository,
	variants repository.VariantRepository,
	images repository.ImageRepository,
) *ImageService {
	return &ImageService{products: products, variants: variants, images: images}
}

// AddImageInput 新增图片输入
type AddImageInput struct {
	ProductID uint
	VariantID *uint
	Src       string
	Alt       string
}

// UpdateImageInput 更新图片输入
type UpdateImageInput struct {
	Alt      *string
	Position *int
}

// ListByProduct 商品图片列表
func (s *ImageService) ListByProduct(productID uint) ([]models.Image, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return s.images.ListByProduct(productID)
}

// GetByID 图片详情
func (s *ImageService) GetByID(id uint) (*models.Image, error) {
	image, err := s.images.GetByID(id)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, ErrNotFound
	}
	return image, nil
}

// AddImage 追加图片到作用域末尾
func (s *ImageService) AddImage(input AddImageInput) (*models.Image, error) {
	src := strings.TrimSpace(input.Src)
	if src == "" {
		return nil, ErrInvalidInput
	}

	var created *models.Image
	err := s.products.Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		variants := s.variants.WithTx(tx)
		images := s.images.WithTx(tx)

		product, err := products.GetByID(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrNotFound
		}
		if input.VariantID != nil {
			variant, err := variants.GetByID(*input.VariantID)
			if err != nil {
				return err
			}
			if variant == nil || variant.ProductID != product.ID {
				return ErrNotFound
			}
		}

		image := &models.Image{
			ProductID: &product.ID,
			VariantID: input.VariantID,
			Src:       src,
			Alt:       strings.TrimSpace(input.Alt),
		}
		position, err := images.NextPosition(image)
		if err != nil {
			return err
		}
		image.Position = position
		if err := images.Create(image); err != nil {
			return err
		}
		created = image
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateImage 更新图片，Position 采用换位语义
func (s *ImageService) UpdateImage(imageID uint, input UpdateImageInput) (*models.Image, error) {
	var updated *models.Image
	err := s.products.Transaction(func(tx *gorm.DB) error {
		images := s.images.WithTx(tx)

		image, err := images.GetByID(imageID)
		if err != nil {
			return err
		}
		if image == nil {
			return ErrNotFound
		}

		if input.Alt != nil {
			image.Alt = strings.TrimSpace(*input.Alt)
			if err := images.Update(image); err != nil {
				return err
			}
		}
		if input.Position != nil {
			if err := images.MoveToPosition(image, *input.Position); err != nil {
				return mapPositionError(err)
			}
		}
		updated, err = images.GetByID(image.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveImage 删除图片并压缩剩余 position
func (s *ImageService) RemoveImage(imageID uint) error {
	return s.products.Transaction(func(tx *gorm.DB) error {
		images := s.images.WithTx(tx)

		image, err := images.GetByID(imageID)
		if err != nil {
			return err
		}
		if image == nil {
			return ErrNotFound
		}
		if err := images.Delete(image.ID); err != nil {
			return err
		}
		return images.CompactPositions(image)
	})
}
