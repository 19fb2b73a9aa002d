package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/restock-next/internal/config"
	"github.com/restock-next/internal/constants"
	"github.com/restock-next/internal/logger"
	"github.com/restock-next/internal/models"
	"github.com/restock-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 行情数量的兜底与上限，来源于元字段 pamount
const (
	defaultSyncAmount = 3
	maxSyncAmount     = 10
)

// PriceSyncService 行情价格同步：将抓取到的市场价批量落成 provider
// 用户的 ACTIVE Offer，价格按商品元字段 pfactor 缩放
type PriceSyncService struct {
	cfg      config.PriceSyncConfig
	offers   *OfferService
	users    *UserService
	products repository.ProductRepository
	variants repository.VariantRepository
}

// NewPriceSyncService 创建价格同步服务
func NewPriceSyncService(
	cfg config.PriceSyncConfig,
	offers *OfferService,
	users *UserService,
	products repository.ProductRepository,
	variants repository.VariantRepository,
) *PriceSyncService {
	return &PriceSyncService{
		cfg:      cfg,
		offers:   offers,
		users:    users,
		products: products,
		variants: variants,
	}
}

// PriceSyncItem 单条行情记录
type PriceSyncItem struct {
	VariantID uint            `json:"variant_id"`
	Price     decimal.Decimal `json:"price"`
}

// PriceSyncResult 批次处理结果
type PriceSyncResult struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
}

// priceFactor 读取商品的 pfactor 元字段，非法值回退为 1
func priceFactor(products repository.ProductRepository, productID uint) (decimal.Decimal, error) {
	field, err := products.GetMetafield(productID, constants.MetafieldKeyPriceFactor)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if field == nil {
		return decimal.NewFromInt(1), nil
	}
	raw := strings.ReplaceAll(strings.TrimSpace(field.Value), ",", ".")
	factor, err := decimal.NewFromString(raw)
	if err != nil || factor.Sign() <= 0 {
		return decimal.NewFromInt(1), nil
	}
	return factor, nil
}

// syncAmount 读取商品的 pamount 元字段，限定在 [0, 10]，缺省为 3
func syncAmount(products repository.ProductRepository, productID uint) (int, error) {
	field, err := products.GetMetafield(productID, constants.MetafieldKeyPriceAmount)
	if err != nil {
		return 0, err
	}
	if field == nil {
		return defaultSyncAmount, nil
	}
	amount, err := strconv.Atoi(strings.TrimSpace(field.Value))
	if err != nil || amount < 0 {
		return defaultSyncAmount, nil
	}
	if amount > maxSyncAmount {
		return maxSyncAmount, nil
	}
	return amount, nil
}

// ApplyBatch 应用一个行情批次。单条记录失败只跳过该条并记录日志，
// 不中断整个批次
func (s *PriceSyncService) ApplyBatch(batchID string, items []PriceSyncItem) (*PriceSyncResult, error) {
	if !s.cfg.Enabled {
		return nil, ErrPriceSyncDisabled
	}

	provider, err := s.users.GetOrCreateProvider(s.cfg.ProviderEmail)
	if err != nil {
		return nil, err
	}

	result := &PriceSyncResult{}
	for i := range items {
		if err := s.applyItem(provider.ID, items[i]); err != nil {
			if isDomainError(err) {
				result.Skipped++
				logger.Warnw("price_sync_item_skipped",
					"batch_id", batchID,
					"variant_id", items[i].VariantID,
					"error", err.Error(),
				)
				continue
			}
			return nil, err
		}
		result.Applied++
	}

	logger.Infow("price_sync_batch_applied",
		"batch_id", batchID,
		"applied", result.Applied,
		"skipped", result.Skipped,
	)
	return result, nil
}

// applyItem 处理单条行情：解析变体与商品元字段后做覆盖式更新
func (s *PriceSyncService) applyItem(providerID uint, item PriceSyncItem) error {
	if item.Price.Sign() <= 0 {
		return ErrInvalidInput
	}

	variant, err := s.variants.GetByID(item.VariantID)
	if err != nil {
		return err
	}
	if variant == nil {
		return ErrNotFound
	}

	factor, err := priceFactor(s.products, variant.ProductID)
	if err != nil {
		return err
	}
	amount, err := syncAmount(s.products, variant.ProductID)
	if err != nil {
		return err
	}

	price := models.NewMoneyFromDecimal(item.Price).MulFactor(factor)
	offerPrice := models.NewMoneyFromDecimal(item.Price)

	return s.offers.UpsertSyncedOffers(UpsertSyncedInput{
		VariantID:  variant.ID,
		UserID:     providerID,
		Price:      price.Decimal,
		OfferPrice: offerPrice.Decimal,
		Amount:     amount,
	})
}

// isDomainError 区分业务性失败与基础设施失败。业务性失败只跳过
// 当前行情并继续批次，基础设施失败中止整个批次。
func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrVariantExists) ||
		errors.Is(err, ErrOfferTerminal) ||
		errors.Is(err, ErrNoDefaultDeliveryProfile) ||
		errors.Is(err, gorm.ErrDuplicatedKey)
}
