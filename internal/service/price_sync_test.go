package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/restock-next/internal/config"
	"github.com/restock-next/internal/constants"
	"github.com/restock-next/internal/models"
	"github.com/restock-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPriceSyncTest(t *testing.T) (*PriceSyncService, *catalogTestEnv) {
	t.Helper()
	env := setupCatalogServiceTest(t)

	productRepo := repository.NewProductRepository(env.db)
	variantRepo := repository.NewVariantRepository(env.db)

	cfg := config.PriceSyncConfig{
		Enabled:       true,
		ProviderEmail: "provider@restock.test",
	}
	sync := NewPriceSyncService(cfg, env.offers, env.users, productRepo, variantRepo)
	return sync, env
}

func TestApplyBatchUsesProductMetafields(t *testing.T) {
	sync, env := setupPriceSyncTest(t)
	createTestDefaultProfile(t, env)

	product, err := env.products.CreateProduct(CreateProductInput{
		Handle: "dunk-low",
		Title:  "dunk low",
		Metafields: []MetafieldInput{
			{Key: constants.MetafieldKeyPriceFactor, Value: "1,2"},
			{Key: constants.MetafieldKeyPriceAmount, Value: "2"},
		},
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	createTestOption(t, env, product.ID, "Size", "40")
	variants := listProductVariants(t, env, product.ID)

	result, err := sync.ApplyBatch("batch-1", []PriceSyncItem{
		{VariantID: variants[0].ID, Price: decimal.NewFromInt(100)},
	})
	if err != nil {
		t.Fatalf("apply batch failed: %v", err)
	}
	if result.Applied != 1 || result.Skipped != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var offers []models.Offer
	if err := env.db.Where("variant_id = ? AND status = ?",
		variants[0].ID, constants.OfferStatusActive).Find(&offers).Error; err != nil {
		t.Fatalf("list offers failed: %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("expected pamount=2 offers, got %d", len(offers))
	}
	for i := range offers {
		// 欧式小数逗号的 pfactor 1,2 按 1.2 解析
		if offers[i].Price.String() != "120.00" {
			t.Fatalf("expected scaled price 120.00, got %s", offers[i].Price.String())
		}
		if offers[i].OfferPrice.String() != "100.00" {
			t.Fatalf("expected raw offer price 100.00, got %s", offers[i].OfferPrice.String())
		}
	}

	provider, err := env.users.GetOrCreateProvider("provider@restock.test")
	if err != nil {
		t.Fatalf("get provider failed: %v", err)
	}
	if provider.Role != constants.UserRoleProvider {
		t.Fatalf("expected provider role, got %s", provider.Role)
	}
	if offers[0].UserID != provider.ID {
		t.Fatalf("expected offers owned by provider %d, got %d", provider.ID, offers[0].UserID)
	}
}

func TestApplyBatchDefaultsWithoutMetafields(t *testing.T) {
	sync, env := setupPriceSyncTest(t)
	createTestDefaultProfile(t, env)

	product := createTestProduct(t, env, "jordan-1")
	createTestOption(t, env, product.ID, "Size", "40")
	variants := listProductVariants(t, env, product.ID)

	result, err := sync.ApplyBatch("batch-2", []PriceSyncItem{
		{VariantID: variants[0].ID, Price: decimal.NewFromInt(80)},
	})
	if err != nil {
		t.Fatalf("apply batch failed: %v", err)
	}
	if result.Applied != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var count int64
	if err := env.db.Model(&models.Offer{}).
		Where("variant_id = ? AND status = ?", variants[0].ID, constants.OfferStatusActive).
		Count(&count).Error; err != nil {
		t.Fatalf("count offers failed: %v", err)
	}
	if count != int64(defaultSyncAmount) {
		t.Fatalf("expected default amount %d, got %d", defaultSyncAmount, count)
	}
}

func TestApplyBatchSkipsBadRecords(t *testing.T) {
	sync, env := setupPriceSyncTest(t)
	createTestDefaultProfile(t, env)

	product := createTestProduct(t, env, "yeezy-350")
	createTestOption(t, env, product.ID, "Size", "40")
	variants := listProductVariants(t, env, product.ID)

	result, err := sync.ApplyBatch("batch-3", []PriceSyncItem{
		{VariantID: 99999, Price: decimal.NewFromInt(100)},
		{VariantID: variants[0].ID, Price: decimal.Zero},
		{VariantID: variants[0].ID, Price: decimal.NewFromInt(100)},
	})
	if err != nil {
		t.Fatalf("apply batch failed: %v", err)
	}
	if result.Applied != 1 || result.Skipped != 2 {
		t.Fatalf("expected 1 applied / 2 skipped, got %+v", result)
	}
}

func TestApplyBatchDisabled(t *testing.T) {
	_, env := setupPriceSyncTest(t)

	disabled := NewPriceSyncService(
		config.PriceSyncConfig{Enabled: false},
		env.offers, env.users,
		repository.NewProductRepository(env.db),
		repository.NewVariantRepository(env.db),
	)
	_, err := disabled.ApplyBatch("batch-4", nil)
	if !errors.Is(err, ErrPriceSyncDisabled) {
		t.Fatalf("expected ErrPriceSyncDisabled, got %v", err)
	}
}

func TestDomainErrorsOnlySkipTheItem(t *testing.T) {
	domain := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrVariantExists,
		ErrOfferTerminal,
		ErrNoDefaultDeliveryProfile,
		gorm.ErrDuplicatedKey,
	}
	for _, sentinel := range domain {
		if !isDomainError(fmt.Errorf("apply item: %w", sentinel)) {
			t.Fatalf("expected %v to skip the item only", sentinel)
		}
	}
	if isDomainError(errors.New("dial tcp: connection refused")) {
		t.Fatalf("infrastructure errors must abort the whole batch")
	}
}
