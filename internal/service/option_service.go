package service

import (
	"sort"
	"strings"

	"github.com/restock-next/internal/constants"
	"github.com/restock-next/internal/models"
	"github.com/restock-next/internal/repository"

	"gorm.io/gorm"
)

// OptionService 商品规格业务服务，承载变体矩阵的收敛
type OptionService struct {
	products repository.ProductRepository
	options  repository.OptionRepository
	variants repository.VariantRepository
	offers   repository.OfferRepository
	images   repository.ImageRepository
}

// NewOptionService 创建规格服务
func NewOptionService(
	products repository.ProductRepository,
	options repository.OptionRepository,
	variants repository.VariantRepository,
	offers repository.OfferRepository,
	images repository.ImageRepository,
) *OptionService {
	return &OptionService{
		products: products,
		options:  options,
		variants: variants,
		offers:   offers,
		images:   images,
	}
}

// txRepos 绑定到同一事务的仓库集合
func (s *OptionService) txRepos(tx *gorm.DB) (repository.ProductRepository, repository.OptionRepository, matrixRepos) {
	return s.products.WithTx(tx), s.options.WithTx(tx), matrixRepos{
		options:  s.options.WithTx(tx),
		variants: s.variants.WithTx(tx),
		offers:   s.offers.WithTx(tx),
		images:   s.images.WithTx(tx),
	}
}

// CreateOptionInput 创建规格输入
type CreateOptionInput struct {
	ProductID uint
	Title     string
	Values    []string
}

// OptionValueUpdateInput 规格值子编辑输入
type OptionValueUpdateInput struct {
	ID       uint
	Title    *string
	Position *int
}

// UpdateOptionInput 更新规格输入，子编辑全部应用后统一重建矩阵
type UpdateOptionInput struct {
	Title          *string
	Position       *int
	CreateValues   []string
	UpdateValues   []OptionValueUpdateInput
	DeleteValueIDs []uint
}

// normalizeValueTitles 清洗规格值输入并拒绝重复
func normalizeValueTitles(values []string) ([]string, error) {
	titles := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, raw := range values {
		title := strings.TrimSpace(raw)
		if title == "" {
			return nil, ErrInvalidInput
		}
		if seen[title] {
			return nil, ErrOptionValueTitleExists
		}
		seen[title] = true
		titles = append(titles, title)
	}
	return titles, nil
}

// freeSlot 返回最小空闲槽位
func freeSlot(options []models.Option) int {
	used := make(map[int]bool, len(options))
	for _, option := range options {
		used[option.Slot] = true
	}
	for slot := 0; slot < constants.MaxProductOptions; slot++ {
		if !used[slot] {
			return slot
		}
	}
	return -1
}

// ListByProduct 商品规格列表
func (s *OptionService) ListByProduct(productID uint) ([]models.Option, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return s.options.ListByProduct(productID)
}

// GetByID 规格详情
func (s *OptionService) GetByID(id uint) (*models.Option, error) {
	option, err := s.options.GetByID(id)
	if err != nil {
		return nil, err
	}
	if option == nil {
		return nil, ErrNotFound
	}
	return option, nil
}

// CreateOption 创建规格并重建变体矩阵
func (s *OptionService) CreateOption(input CreateOptionInput) (*models.Option, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || len(input.Values) == 0 {
		return nil, ErrInvalidInput
	}
	values, err := normalizeValueTitles(input.Values)
	if err != nil {
		return nil, err
	}

	var created *models.Option
	err = s.products.Transaction(func(tx *gorm.DB) error {
		products, options, repos := s.txRepos(tx)

		product, err := products.GetByID(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrNotFound
		}

		existing, err := options.ListByProduct(product.ID)
		if err != nil {
			return err
		}
		if len(existing) >= constants.MaxProductOptions {
			return ErrOptionLimitReached
		}

		count, err := options.CountByTitle(product.ID, title, nil)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrOptionTitleExists
		}

		option := &models.Option{
			ProductID: product.ID,
			Title:     title,
			Slot:      freeSlot(existing),
			Position:  len(existing),
		}
		if err := options.Create(option); err != nil {
			return err
		}
		for position, valueTitle := range values {
			value := &models.OptionValue{
				OptionID: option.ID,
				Title:    valueTitle,
				Position: position,
			}
			if err := options.CreateValue(value); err != nil {
				return err
			}
			option.Values = append(option.Values, *value)
		}

		if err := synchronizeVariants(repos, product); err != nil {
			return err
		}
		created = option
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateOption 应用规格的全部子编辑（值增删改、重排、改名、移位），
// 然后在同一事务内重建变体矩阵
func (s *OptionService) UpdateOption(optionID uint, input UpdateOptionInput) (*models.Option, error) {
	var updated *models.Option
	err := s.products.Transaction(func(tx *gorm.DB) error {
		products, options, repos := s.txRepos(tx)

		option, err := options.GetByID(optionID)
		if err != nil {
			return err
		}
		if option == nil {
			return ErrNotFound
		}
		product, err := products.GetByID(option.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrNotFound
		}

		// 新增规格值
		createTitles, err := normalizeValueTitles(input.CreateValues)
		if err != nil {
			return err
		}
		for _, title := range createTitles {
			count, err := options.CountValueByTitle(option.ID, title, nil)
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrOptionValueTitleExists
			}
			position, err := options.NextValuePosition(option.ID)
			if err != nil {
				return err
			}
			if err := options.CreateValue(&models.OptionValue{
				OptionID: option.ID,
				Title:    title,
				Position: position,
			}); err != nil {
				return err
			}
		}

		// 改名与重排规格值，改名同步改写存量变体的槽位值
		for _, edit := range input.UpdateValues {
			value, err := options.GetValue(edit.ID)
			if err != nil {
				return err
			}
			if value == nil || value.OptionID != option.ID {
				return ErrNotFound
			}
			if edit.Title != nil {
				title := strings.TrimSpace(*edit.Title)
				if title == "" {
					return ErrInvalidInput
				}
				if title != value.Title {
					count, err := options.CountValueByTitle(option.ID, title, &value.ID)
					if err != nil {
						return err
					}
					if count > 0 {
						return ErrOptionValueTitleExists
					}
					if err := repos.variants.UpdateSlotValue(product.ID, option.Slot, value.Title, title); err != nil {
						return err
					}
					value.Title = title
					if err := options.UpdateValue(value); err != nil {
						return err
					}
				}
			}
			if edit.Position != nil {
				if err := options.MoveValueToPosition(option.ID, value.ID, *edit.Position); err != nil {
					return mapPositionError(err)
				}
			}
		}

		// 删除规格值，随后压缩 position
		for _, valueID := range input.DeleteValueIDs {
			value, err := options.GetValue(valueID)
			if err != nil {
				return err
			}
			if value == nil || value.OptionID != option.ID {
				return ErrNotFound
			}
			if err := options.DeleteValue(value.ID); err != nil {
				return err
			}
		}
		if len(input.DeleteValueIDs) > 0 {
			if err := options.CompactValuePositions(option.ID); err != nil {
				return err
			}
		}

		// 规格自身的改名与移位
		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return ErrInvalidInput
			}
			if title != option.Title {
				count, err := options.CountByTitle(product.ID, title, &option.ID)
				if err != nil {
					return err
				}
				if count > 0 {
					return ErrOptionTitleExists
				}
				option.Title = title
				if err := options.Update(option); err != nil {
					return err
				}
			}
		}
		if input.Position != nil {
			if err := options.MoveToPosition(product.ID, option.ID, *input.Position); err != nil {
				return mapPositionError(err)
			}
		}

		if err := synchronizeVariants(repos, product); err != nil {
			return err
		}

		updated, err = options.GetByID(option.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOption 删除规格：剩余规格重新占用 0..k-1 槽位，变体矩阵整体重建，
// 不再匹配的 Offer 转为 NO_MATCH
func (s *OptionService) DeleteOption(optionID uint) error {
	return s.products.Transaction(func(tx *gorm.DB) error {
		products, options, repos := s.txRepos(tx)

		option, err := options.GetByID(optionID)
		if err != nil {
			return err
		}
		if option == nil {
			return ErrNotFound
		}
		product, err := products.GetByID(option.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrNotFound
		}

		if err := options.Delete(option.ID); err != nil {
			return err
		}

		// 剩余规格按原槽位顺序重新占用 0..k-1
		remaining, err := options.ListByProduct(product.ID)
		if err != nil {
			return err
		}
		bySlot := make([]models.Option, len(remaining))
		copy(bySlot, remaining)
		sort.Slice(bySlot, func(i, j int) bool {
			return bySlot[i].Slot < bySlot[j].Slot
		})
		for index := range bySlot {
			if bySlot[index].Slot == index {
				continue
			}
			bySlot[index].Slot = index
			if err := options.Update(&bySlot[index]); err != nil {
				return err
			}
		}
		if err := options.CompactPositions(product.ID); err != nil {
			return err
		}

		// 槽位整体位移后旧变体的列布局失效，清空后由矩阵同步重建
		variantIDs, err := repos.variants.ListIDsByProduct(product.ID)
		if err != nil {
			return err
		}
		if _, err := repos.offers.OrphanByVariantIDs(variantIDs); err != nil {
			return err
		}
		if err := repos.images.DeleteByVariantIDs(variantIDs); err != nil {
			return err
		}
		if err := repos.variants.DeleteByIDs(variantIDs); err != nil {
			return err
		}

		return synchronizeVariants(repos, product)
	})
}
