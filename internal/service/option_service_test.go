package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/restock-next/internal/constants"
	"github.com/restock-next/internal/models"
	"github.com/restock-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type catalogTestEnv struct {
	db       *gorm.DB
	products *ProductService
	options  *OptionService
	variants *VariantService
	offers   *OfferService
	features *FeatureService
	users    *UserService
	profiles *DeliveryProfileService
}

func setupCatalogServiceTest(t *testing.T) *catalogTestEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Option{},
		&models.OptionValue{},
		&models.Variant{},
		&models.Feature{},
		&models.FeatureValue{},
		&models.Image{},
		&models.Metafield{},
		&models.DeliveryProfile{},
		&models.Offer{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	productRepo := repository.NewProductRepository(db)
	optionRepo := repository.NewOptionRepository(db)
	variantRepo := repository.NewVariantRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	featureRepo := repository.NewFeatureRepository(db)
	imageRepo := repository.NewImageRepository(db)
	profileRepo := repository.NewDeliveryProfileRepository(db)
	userRepo := repository.NewUserRepository(db)

	return &catalogTestEnv{
		db:       db,
		products: NewProductService(productRepo, optionRepo, variantRepo, offerRepo, featureRepo, imageRepo),
		options:  NewOptionService(productRepo, optionRepo, variantRepo, offerRepo, imageRepo),
		variants: NewVariantService(productRepo, optionRepo, variantRepo, offerRepo, imageRepo),
		offers:   NewOfferService(offerRepo, variantRepo, productRepo, optionRepo, profileRepo, userRepo),
		features: NewFeatureService(productRepo, featureRepo),
		users:    NewUserService(userRepo),
		profiles: NewDeliveryProfileService(profileRepo),
	}
}

func createTestProduct(t *testing.T, env *catalogTestEnv, handle string) *models.Product {
	t.Helper()
	product, err := env.products.CreateProduct(CreateProductInput{
		Handle: handle,
		Title:  "product " + handle,
		Vendor: "nike",
		SKU:    "SKU-" + handle,
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createTestOption(t *testing.T, env *catalogTestEnv, productID uint, title string, values ...string) *models.Option {
	t.Helper()
	option, err := env.options.CreateOption(CreateOptionInput{
		ProductID: productID,
		Title:     title,
		Values:    values,
	})
	if err != nil {
		t.Fatalf("create option %s failed: %v", title, err)
	}
	return option
}

func createTestSeller(t *testing.T, env *catalogTestEnv, email string) *models.User {
	t.Helper()
	user, err := env.users.CreateUser(CreateUserInput{Email: email})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestDefaultProfile(t *testing.T, env *catalogTestEnv) *models.DeliveryProfile {
	t.Helper()
	profile, err := env.profiles.Create(CreateProfileInput{Title: "Standard", IsDefault: true})
	if err != nil {
		t.Fatalf("create delivery profile failed: %v", err)
	}
	return profile
}

func createTestOffer(t *testing.T, env *catalogTestEnv, userID, variantID uint, price int64) *models.Offer {
	t.Helper()
	offer, err := env.offers.CreateOffer(CreateOfferInput{
		UserID:     userID,
		VariantID:  variantID,
		Price:      decimal.NewFromInt(price),
		OfferPrice: decimal.NewFromInt(price),
	})
	if err != nil {
		t.Fatalf("create offer failed: %v", err)
	}
	return offer
}

func listProductVariants(t *testing.T, env *catalogTestEnv, productID uint) []models.Variant {
	t.Helper()
	var variants []models.Variant
	if err := env.db.Where("product_id = ?", productID).Order("id ASC").Find(&variants).Error; err != nil {
		t.Fatalf("list variants failed: %v", err)
	}
	return variants
}

func variantBySlotValues(t *testing.T, variants []models.Variant, values ...string) *models.Variant {
	t.Helper()
	for i := range variants {
		matched := true
		for slot, want := range values {
			got := variants[i].SlotValue(slot)
			if got == nil || *got != want {
				matched = false
				break
			}
		}
		if matched {
			return &variants[i]
		}
	}
	t.Fatalf("variant %v not found among %d variants", values, len(variants))
	return nil
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestCreateOptionBuildsVariantMatrix(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "dunk-low")

	createTestOption(t, env, product.ID, "Size", "40", "41")

	variants := listProductVariants(t, env, product.ID)
	if len(variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(variants))
	}
	for i := range variants {
		if variants[i].SlotValue(1) != nil || variants[i].SlotValue(2) != nil {
			t.Fatalf("expected free slots to stay nil: %+v", variants[i])
		}
		if variants[i].SKU != product.SKU {
			t.Fatalf("expected variant to inherit product SKU, got %s", variants[i].SKU)
		}
	}
	variantBySlotValues(t, variants, "40")
	variantBySlotValues(t, variants, "41")
}

func TestAddSecondOptionRebuildsMatrixAndOrphansOffers(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "dunk-panda")
	createTestDefaultProfile(t, env)
	seller := createTestSeller(t, env, "seller@restock.test")

	createTestOption(t, env, product.ID, "Size", "40", "41")
	variants := listProductVariants(t, env, product.ID)
	offer := createTestOffer(t, env, seller.ID, variantBySlotValues(t, variants, "40").ID, 100)

	createTestOption(t, env, product.ID, "Color", "Black")

	variants = listProductVariants(t, env, product.ID)
	if len(variants) != 2 {
		t.Fatalf("expected 2 variants after rebuild, got %d", len(variants))
	}
	variantBySlotValues(t, variants, "40", "Black")
	variantBySlotValues(t, variants, "41", "Black")

	// 旧的单槽位变体已删除，其上的 Offer 转为 NO_MATCH 且不自动回挂
	reloaded, err := env.offers.GetByID(offer.ID)
	if err != nil {
		t.Fatalf("get offer failed: %v", err)
	}
	if reloaded.Status != constants.OfferStatusNoMatch {
		t.Fatalf("expected NO_MATCH, got %s", reloaded.Status)
	}
	if reloaded.VariantID != nil {
		t.Fatalf("expected variant reference cleared, got %v", *reloaded.VariantID)
	}
}

func TestCreateOptionLimit(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "air-max")

	createTestOption(t, env, product.ID, "Size", "40")
	createTestOption(t, env, product.ID, "Color", "Black")
	createTestOption(t, env, product.ID, "Material", "Leather")

	_, err := env.options.CreateOption(CreateOptionInput{
		ProductID: product.ID,
		Title:     "Region",
		Values:    []string{"EU"},
	})
	if !errors.Is(err, ErrOptionLimitReached) {
		t.Fatalf("expected ErrOptionLimitReached, got %v", err)
	}
}

func TestOptionValueRenamePropagatesToVariantsAndOffers(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "jordan-1")
	createTestDefaultProfile(t, env)
	seller := createTestSeller(t, env, "seller@restock.test")

	option := createTestOption(t, env, product.ID, "Size", "40", "41")
	variants := listProductVariants(t, env, product.ID)
	target := variantBySlotValues(t, variants, "40")

	activeOffer := createTestOffer(t, env, seller.ID, target.ID, 100)
	soldOffer := createTestOffer(t, env, seller.ID, target.ID, 110)
	soldStatus := constants.OfferStatusSold
	if _, err := env.offers.UpdateOffer(soldOffer.ID, UpdateOfferInput{Status: &soldStatus}); err != nil {
		t.Fatalf("mark offer sold failed: %v", err)
	}

	var valueID uint
	for _, value := range option.Values {
		if value.Title == "40" {
			valueID = value.ID
		}
	}
	if _, err := env.options.UpdateOption(option.ID, UpdateOptionInput{
		UpdateValues: []OptionValueUpdateInput{{ID: valueID, Title: strPtr("40.5")}},
	}); err != nil {
		t.Fatalf("rename option value failed: %v", err)
	}

	// 变体原地改写，不删除重建
	variants = listProductVariants(t, env, product.ID)
	renamed := variantBySlotValues(t, variants, "40.5")
	if renamed.ID != target.ID {
		t.Fatalf("expected variant %d to survive rename, got %d", target.ID, renamed.ID)
	}

	reloaded, err := env.offers.GetByID(activeOffer.ID)
	if err != nil {
		t.Fatalf("get offer failed: %v", err)
	}
	if reloaded.Status != constants.OfferStatusActive {
		t.Fatalf("expected offer to stay ACTIVE, got %s", reloaded.Status)
	}
	if reloaded.VariantTitle != "40.5" {
		t.Fatalf("expected variant title 40.5, got %s", reloaded.VariantTitle)
	}

	// 终态 Offer 的冗余标题冻结不动
	frozen, err := env.offers.GetByID(soldOffer.ID)
	if err != nil {
		t.Fatalf("get sold offer failed: %v", err)
	}
	if frozen.VariantTitle != "40" {
		t.Fatalf("expected sold offer title frozen at 40, got %s", frozen.VariantTitle)
	}
}

func TestDeleteOptionValueRemovesMatchingVariants(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "yeezy-350")
	createTestDefaultProfile(t, env)
	seller := createTestSeller(t, env, "seller@restock.test")

	option := createTestOption(t, env, product.ID, "Size", "40", "41")
	variants := listProductVariants(t, env, product.ID)
	kept := variantBySlotValues(t, variants, "40")
	doomed := variantBySlotValues(t, variants, "41")
	offer := createTestOffer(t, env, seller.ID, doomed.ID, 100)

	var valueID uint
	for _, value := range option.Values {
		if value.Title == "41" {
			valueID = value.ID
		}
	}
	if _, err := env.options.UpdateOption(option.ID, UpdateOptionInput{
		DeleteValueIDs: []uint{valueID},
	}); err != nil {
		t.Fatalf("delete option value failed: %v", err)
	}

	variants = listProductVariants(t, env, product.ID)
	if len(variants) != 1 {
		t.Fatalf("expected 1 variant, got %d", len(variants))
	}
	if variants[0].ID != kept.ID {
		t.Fatalf("expected variant %d to survive, got %d", kept.ID, variants[0].ID)
	}

	reloaded, err := env.offers.GetByID(offer.ID)
	if err != nil {
		t.Fatalf("get offer failed: %v", err)
	}
	if reloaded.Status != constants.OfferStatusNoMatch || reloaded.VariantID != nil {
		t.Fatalf("expected orphaned NO_MATCH offer, got %+v", reloaded)
	}
}

func TestDeleteOptionReslotsRemainingOptions(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "sb-dunk")
	createTestDefaultProfile(t, env)
	seller := createTestSeller(t, env, "seller@restock.test")

	size := createTestOption(t, env, product.ID, "Size", "40", "41")
	createTestOption(t, env, product.ID, "Color", "Black")

	variants := listProductVariants(t, env, product.ID)
	offer := createTestOffer(t, env, seller.ID, variants[0].ID, 100)

	if err := env.options.DeleteOption(size.ID); err != nil {
		t.Fatalf("delete option failed: %v", err)
	}

	remaining, err := env.options.ListByProduct(product.ID)
	if err != nil {
		t.Fatalf("list options failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Title != "Color" {
		t.Fatalf("unexpected remaining options: %+v", remaining)
	}
	if remaining[0].Slot != 0 || remaining[0].Position != 0 {
		t.Fatalf("expected Color reslotted to 0, got slot=%d position=%d", remaining[0].Slot, remaining[0].Position)
	}

	variants = listProductVariants(t, env, product.ID)
	if len(variants) != 1 {
		t.Fatalf("expected 1 rebuilt variant, got %d", len(variants))
	}
	variantBySlotValues(t, variants, "Black")

	// 槽位布局变更导致整体重建，存量 Offer 全部转为 NO_MATCH
	reloaded, err := env.offers.GetByID(offer.ID)
	if err != nil {
		t.Fatalf("get offer failed: %v", err)
	}
	if reloaded.Status != constants.OfferStatusNoMatch {
		t.Fatalf("expected NO_MATCH, got %s", reloaded.Status)
	}
}

func TestMatrixSyncIsIdempotent(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "blazer-mid")

	option := createTestOption(t, env, product.ID, "Size", "40", "41", "42")
	before := listProductVariants(t, env, product.ID)

	// 无实质变更的更新不应删除重建任何变体
	if _, err := env.options.UpdateOption(option.ID, UpdateOptionInput{}); err != nil {
		t.Fatalf("noop update failed: %v", err)
	}

	after := listProductVariants(t, env, product.ID)
	if len(after) != len(before) {
		t.Fatalf("expected %d variants, got %d", len(before), len(after))
	}
	for i := range before {
		if before[i].ID != after[i].ID {
			t.Fatalf("variant %d was recreated: %d != %d", i, before[i].ID, after[i].ID)
		}
	}
}

func TestUpdateOptionNegativePositionIsInvalidInput(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "dunk-low")
	option := createTestOption(t, env, product.ID, "Size", "40")

	neg := -1
	if _, err := env.options.UpdateOption(option.ID, UpdateOptionInput{Position: &neg}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDuplicateVariantTupleRejectedByDatabase(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "jordan-1-low")

	createTestOption(t, env, product.ID, "Size", "40")
	variants := listProductVariants(t, env, product.ID)
	if len(variants) != 1 {
		t.Fatalf("expected 1 variant, got %d", len(variants))
	}

	// 单规格元组的重复插入必须被唯一索引拦下，而不是靠应用层检查
	dup := models.Variant{ProductID: product.ID}
	dup.SetSlotValue(0, strPtr("40"))
	if err := env.db.Create(&dup).Error; err == nil {
		t.Fatalf("expected duplicate tuple insert to fail, got id %d", dup.ID)
	}

	variants = listProductVariants(t, env, product.ID)
	if len(variants) != 1 {
		t.Fatalf("expected 1 variant after rejected insert, got %d", len(variants))
	}
}

func TestThreeOptionCartesianProduct(t *testing.T) {
	env := setupCatalogServiceTest(t)
	product := createTestProduct(t, env, "af1-custom")

	createTestOption(t, env, product.ID, "Size", "40", "41")
	createTestOption(t, env, product.ID, "Color", "Black", "White", "Red")
	createTestOption(t, env, product.ID, "Material", "Leather", "Canvas")

	variants := listProductVariants(t, env, product.ID)
	if len(variants) != 12 {
		t.Fatalf("expected 2*3*2=12 variants, got %d", len(variants))
	}
	variantBySlotValues(t, variants, "41", "Red", "Canvas")
}
