package service

import (
	"errors"
	"testing"

	"github.com/restock-next/internal/constants"
	"github.com/restock-next/internal/models"
	"github.com/restock-next/internal/repository"

	"github.com/shopspring/decimal"
)

func markOfferSold(t *testing.T, env *catalogTestEnv, offerID uint) {
	t.Helper()
	status := constants.OfferStatusSold
	if _, err := env.offers.UpdateOffer(offerID, UpdateOfferInput{Status: &status}); err != nil {
		t.Fatalf("mark offer sold failed: %v", err)
	}
}

func TestCreateOfferAttachesDefaultProfile(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "dunk-low")
	profile := createTestDefaultProfile(t, env)
	seller := createTestSeller(t, env, "seller@restock.test")
	createTestOption(t, env, product.ID, "Size", "40")
	variants := listProductVariants(t, env, product.ID)

	offer := createTestOffer(t, env, seller.ID, variants[0].ID, 100)
	if offer.DeliveryProfileID == nil || *offer.DeliveryProfileID != profile.ID {
		t.Fatalf("expected default profile %d attached, got %v", profile.ID, offer.DeliveryProfileID)
	}
	if offer.Status != constants.OfferStatusActive {
		t.Fatalf("expected ACTIVE, got %s", offer.Status)
	}
	if offer.VariantTitle != "40" || offer.ProductTitle != product.Title {
		t.Fatalf("unexpected denormalized titles: %q / %q", offer.ProductTitle, offer.VariantTitle)
	}
}

func TestCreateOfferWithoutDefaultProfileFails(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "dunk-low")
	seller := createTestSeller(t, env, "seller@restock.test")
	createTestOption(t, env, product.ID, "Size", "40")
	variants := listProductVariants(t, env, product.ID)

	_, err := env.offers.CreateOffer(CreateOfferInput{
		UserID:     seller.ID,
		VariantID:  variants[0].ID,
		Price:      decimal.NewFromInt(100),
		OfferPrice: decimal.NewFromInt(100),
	})
	if !errors.Is(err, ErrNoDefaultDeliveryProfile) {
		t.Fatalf("expected ErrNoDefaultDeliveryProfile, got %v", err)
	}
}

func TestTerminalOfferRejectsUpdateAndDelete(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "jordan-4")
	createTestDefaultProfile(t, env)
	seller := createTestSeller(t, env, "seller@restock.test")
	createTestOption(t, env, product.ID, "Size", "40")
	variants := listProductVariants(t, env, product.ID)

	offer := createTestOffer(t, env, seller.ID, variants[0].ID, 100)
	markOfferSold(t, env, offer.ID)

	price := decimal.NewFromInt(200)
	if _, err := env.offers.UpdateOffer(offer.ID, UpdateOfferInput{Price: &price}); !errors.Is(err, ErrOfferTerminal) {
		t.Fatalf("expected ErrOfferTerminal on update, got %v", err)
	}
	active := constants.OfferStatusActive
	if _, err := env.offers.UpdateOffer(offer.ID, UpdateOfferInput{Status: &active}); !errors.Is(err, ErrOfferTerminal) {
		t.Fatalf("expected ErrOfferTerminal on status change, got %v", err)
	}
	if err := env.offers.DeleteOffer(offer.ID); !errors.Is(err, ErrOfferTerminal) {
		t.Fatalf("expected ErrOfferTerminal on delete, got %v", err)
	}
}

func TestDeleteVariantOrphansNonTerminalOffersOnly(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "yeezy-700")
	createTestDefaultProfile(t, env)
	seller := createTestSeller(t, env, "seller@restock.test")
	createTestOption(t, env, product.ID, "Size", "40")
	variants := listProductVariants(t, env, product.ID)
	variantID := variants[0].ID

	activeOffer := createTestOffer(t, env, seller.ID, variantID, 100)
	soldOffer := createTestOffer(t, env, seller.ID, variantID, 110)
	markOfferSold(t, env, soldOffer.ID)

	if err := env.variants.DeleteVariant(variantID); err != nil {
		t.Fatalf("delete variant failed: %v", err)
	}

	orphaned, err := env.offers.GetByID(activeOffer.ID)
	if err != nil {
		t.Fatalf("get offer failed: %v", err)
	}
	if orphaned.Status != constants.OfferStatusNoMatch || orphaned.VariantID != nil {
		t.Fatalf("expected orphaned NO_MATCH offer, got %+v", orphaned)
	}

	// 终态 Offer 保留原状态与历史引用
	frozen, err := env.offers.GetByID(soldOffer.ID)
	if err != nil {
		t.Fatalf("get sold offer failed: %v", err)
	}
	if frozen.Status != constants.OfferStatusSold {
		t.Fatalf("expected SOLD untouched, got %s", frozen.Status)
	}
}

func TestRecreatingVariantDoesNotReattachOrphans(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "air-force-1")
	createTestDefaultProfile(t, env)
	seller := createTestSeller(t, env, "seller@restock.test")
	createTestOption(t, env, product.ID, "Size", "40")
	variants := listProductVariants(t, env, product.ID)

	offer := createTestOffer(t, env, seller.ID, variants[0].ID, 100)
	if err := env.variants.DeleteVariant(variants[0].ID); err != nil {
		t.Fatalf("delete variant failed: %v", err)
	}

	size := "40"
	if _, err := env.variants.CreateVariant(CreateVariantInput{
		ProductID: product.ID,
		Values:    [constants.MaxProductOptions]*string{&size},
	}); err != nil {
		t.Fatalf("recreate variant failed: %v", err)
	}

	reloaded, err := env.offers.GetByID(offer.ID)
	if err != nil {
		t.Fatalf("get offer failed: %v", err)
	}
	if reloaded.Status != constants.OfferStatusNoMatch || reloaded.VariantID != nil {
		t.Fatalf("expected offer to stay orphaned, got %+v", reloaded)
	}
}

func TestNoMatchOfferStatusRules(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "dunk-high")
	createTestDefaultProfile(t, env)
	seller := createTestSeller(t, env, "seller@restock.test")
	createTestOption(t, env, product.ID, "Size", "40", "41")
	variants := listProductVariants(t, env, product.ID)
	orphanSource := variantBySlotValues(t, variants, "40")
	replacement := variantBySlotValues(t, variants, "41")

	offer := createTestOffer(t, env, seller.ID, orphanSource.ID, 100)
	if err := env.variants.DeleteVariant(orphanSource.ID); err != nil {
		t.Fatalf("delete variant failed: %v", err)
	}

	// 未提供新变体时禁止显式改状态
	active := constants.OfferStatusActive
	if _, err := env.offers.UpdateOffer(offer.ID, UpdateOfferInput{Status: &active}); !errors.Is(err, ErrOfferStatusWithoutVariant) {
		t.Fatalf("expected ErrOfferStatusWithoutVariant, got %v", err)
	}

	// 挂回变体且未显式指定状态时隐式回到 ACTIVE
	updated, err := env.offers.UpdateOffer(offer.ID, UpdateOfferInput{VariantID: &replacement.ID})
	if err != nil {
		t.Fatalf("reattach failed: %v", err)
	}
	if updated.Status != constants.OfferStatusActive {
		t.Fatalf("expected implicit ACTIVE, got %s", updated.Status)
	}
	if updated.VariantID == nil || *updated.VariantID != replacement.ID {
		t.Fatalf("expected variant %d attached, got %v", replacement.ID, updated.VariantID)
	}
	if updated.VariantTitle != "41" {
		t.Fatalf("expected refreshed variant title, got %s", updated.VariantTitle)
	}
}

func TestUpsertSyncedOffersIsIdempotent(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "yeezy-slide")
	createTestDefaultProfile(t, env)
	provider := createTestSeller(t, env, "provider@restock.test")
	createTestOption(t, env, product.ID, "Size", "40")
	variants := listProductVariants(t, env, product.ID)
	variantID := variants[0].ID

	soldOffer := createTestOffer(t, env, provider.ID, variantID, 90)
	markOfferSold(t, env, soldOffer.ID)

	input := UpsertSyncedInput{
		VariantID:  variantID,
		UserID:     provider.ID,
		Price:      decimal.NewFromInt(100),
		OfferPrice: decimal.NewFromInt(95),
		Amount:     3,
	}
	for run := 0; run < 2; run++ {
		if err := env.offers.UpsertSyncedOffers(input); err != nil {
			t.Fatalf("upsert run %d failed: %v", run, err)
		}
		var active []models.Offer
		if err := env.db.Where("variant_id = ? AND user_id = ? AND status = ?",
			variantID, provider.ID, constants.OfferStatusActive).Find(&active).Error; err != nil {
			t.Fatalf("list active offers failed: %v", err)
		}
		if len(active) != 3 {
			t.Fatalf("run %d: expected exactly 3 ACTIVE offers, got %d", run, len(active))
		}
		for i := range active {
			if active[i].Price.String() != "100.00" {
				t.Fatalf("unexpected price: %s", active[i].Price.String())
			}
		}
	}

	// 终态 Offer 不参与覆盖式更新
	frozen, err := env.offers.GetByID(soldOffer.ID)
	if err != nil {
		t.Fatalf("get sold offer failed: %v", err)
	}
	if frozen.Status != constants.OfferStatusSold {
		t.Fatalf("expected SOLD untouched, got %s", frozen.Status)
	}
}

func TestProductTitlePropagationSkipsTerminalOffers(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "blazer-low")
	createTestDefaultProfile(t, env)
	seller := createTestSeller(t, env, "seller@restock.test")
	createTestOption(t, env, product.ID, "Size", "40")
	variants := listProductVariants(t, env, product.ID)

	activeOffer := createTestOffer(t, env, seller.ID, variants[0].ID, 100)
	soldOffer := createTestOffer(t, env, seller.ID, variants[0].ID, 110)
	markOfferSold(t, env, soldOffer.ID)

	if _, err := env.products.UpdateProduct(product.ID, UpdateProductInput{Title: strPtr("renamed product")}); err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	reloaded, err := env.offers.GetByID(activeOffer.ID)
	if err != nil {
		t.Fatalf("get offer failed: %v", err)
	}
	if reloaded.ProductTitle != "renamed product" {
		t.Fatalf("expected propagated title, got %s", reloaded.ProductTitle)
	}
	frozen, err := env.offers.GetByID(soldOffer.ID)
	if err != nil {
		t.Fatalf("get sold offer failed: %v", err)
	}
	if frozen.ProductTitle == "renamed product" {
		t.Fatalf("terminal offer title must stay frozen, got %s", frozen.ProductTitle)
	}
}

func TestOfferListFilters(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "dunk-se")
	createTestDefaultProfile(t, env)
	seller := createTestSeller(t, env, "seller@restock.test")
	other := createTestSeller(t, env, "other@restock.test")
	createTestOption(t, env, product.ID, "Size", "40")
	variants := listProductVariants(t, env, product.ID)

	createTestOffer(t, env, seller.ID, variants[0].ID, 100)
	soldOffer := createTestOffer(t, env, seller.ID, variants[0].ID, 110)
	markOfferSold(t, env, soldOffer.ID)
	createTestOffer(t, env, other.ID, variants[0].ID, 120)

	offers, total, err := env.offers.List(repository.OfferListFilter{
		UserID: seller.ID,
		Status: constants.OfferStatusSold,
	})
	if err != nil {
		t.Fatalf("list offers failed: %v", err)
	}
	if total != 1 || len(offers) != 1 || offers[0].ID != soldOffer.ID {
		t.Fatalf("unexpected filter result: total=%d offers=%+v", total, offers)
	}
}
