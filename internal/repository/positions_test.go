package repository

import (
	"errors"
	"testing"

	"github.com/restock-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupPositionsTest(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Option{}, &models.OptionValue{}, &models.Image{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func createOptionAt(t *testing.T, db *gorm.DB, productID uint, title string, slot, position int) *models.Option {
	t.Helper()
	option := &models.Option{ProductID: productID, Title: title, Slot: slot, Position: position}
	if err := db.Create(option).Error; err != nil {
		t.Fatalf("create option failed: %v", err)
	}
	return option
}

func optionPositions(t *testing.T, db *gorm.DB, productID uint) map[string]int {
	t.Helper()
	var options []models.Option
	if err := db.Where("product_id = ?", productID).Find(&options).Error; err != nil {
		t.Fatalf("load options failed: %v", err)
	}
	got := make(map[string]int, len(options))
	for _, option := range options {
		got[option.Title] = option.Position
	}
	return got
}

func TestMoveToPositionSwapsOccupant(t *testing.T) {
	db := setupPositionsTest(t)
	repo := NewOptionRepository(db)

	const productID = 101
	createOptionAt(t, db, productID, "Size", 0, 0)
	color := createOptionAt(t, db, productID, "Color", 1, 1)
	createOptionAt(t, db, productID, "Material", 2, 2)

	// 换位：Color 移到 0，原 0 位的 Size 接收 Color 的旧位置
	if err := repo.MoveToPosition(productID, color.ID, 0); err != nil {
		t.Fatalf("move failed: %v", err)
	}

	got := optionPositions(t, db, productID)
	if got["Color"] != 0 || got["Size"] != 1 || got["Material"] != 2 {
		t.Fatalf("unexpected positions after swap: %v", got)
	}
}

func TestMoveToPositionNoOpOnSamePosition(t *testing.T) {
	db := setupPositionsTest(t)
	repo := NewOptionRepository(db)

	const productID = 102
	size := createOptionAt(t, db, productID, "Size", 0, 0)
	createOptionAt(t, db, productID, "Color", 1, 1)

	if err := repo.MoveToPosition(productID, size.ID, 0); err != nil {
		t.Fatalf("move failed: %v", err)
	}

	got := optionPositions(t, db, productID)
	if got["Size"] != 0 || got["Color"] != 1 {
		t.Fatalf("positions changed on no-op move: %v", got)
	}
}

func TestMoveToPositionScopedToParent(t *testing.T) {
	db := setupPositionsTest(t)
	repo := NewOptionRepository(db)

	const productID = 103
	const otherProductID = 104
	size := createOptionAt(t, db, productID, "Size", 0, 0)
	createOptionAt(t, db, productID, "Color", 1, 1)
	otherSize := createOptionAt(t, db, otherProductID, "Size", 0, 0)

	if err := repo.MoveToPosition(productID, size.ID, 1); err != nil {
		t.Fatalf("move failed: %v", err)
	}

	var reloaded models.Option
	if err := db.First(&reloaded, otherSize.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Position != 0 {
		t.Fatalf("sibling scope leaked: other product option moved to %d", reloaded.Position)
	}
}

func TestMoveToPositionRejectsNegativeTarget(t *testing.T) {
	db := setupPositionsTest(t)
	repo := NewOptionRepository(db)

	const productID = 105
	size := createOptionAt(t, db, productID, "Size", 0, 0)

	if err := repo.MoveToPosition(productID, size.ID, -1); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestCompactPositionsRenumbersDense(t *testing.T) {
	db := setupPositionsTest(t)
	repo := NewOptionRepository(db)

	const productID = 106
	createOptionAt(t, db, productID, "Size", 0, 0)
	createOptionAt(t, db, productID, "Color", 1, 3)
	createOptionAt(t, db, productID, "Material", 2, 7)

	if err := repo.CompactPositions(productID); err != nil {
		t.Fatalf("compact failed: %v", err)
	}

	got := optionPositions(t, db, productID)
	if got["Size"] != 0 || got["Color"] != 1 || got["Material"] != 2 {
		t.Fatalf("positions not dense after compact: %v", got)
	}
}

func TestImagePositionsIndependentPerOwner(t *testing.T) {
	db := setupPositionsTest(t)
	repo := NewImageRepository(db)

	productID := uint(107)
	variantID := uint(55)
	productImage := &models.Image{ProductID: &productID, Src: "p0.jpg", Position: 0}
	if err := repo.Create(productImage); err != nil {
		t.Fatalf("create product image failed: %v", err)
	}
	first := &models.Image{ProductID: &productID, VariantID: &variantID, Src: "v0.jpg", Position: 0}
	second := &models.Image{ProductID: &productID, VariantID: &variantID, Src: "v1.jpg", Position: 1}
	for _, image := range []*models.Image{first, second} {
		if err := repo.Create(image); err != nil {
			t.Fatalf("create variant image failed: %v", err)
		}
	}

	if err := repo.MoveToPosition(second, 0); err != nil {
		t.Fatalf("move failed: %v", err)
	}

	var reloadedFirst, reloadedProduct models.Image
	if err := db.First(&reloadedFirst, first.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if err := db.First(&reloadedProduct, productImage.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloadedFirst.Position != 1 {
		t.Fatalf("variant image swap failed, got position %d", reloadedFirst.Position)
	}
	if reloadedProduct.Position != 0 {
		t.Fatalf("product image scope leaked, got position %d", reloadedProduct.Position)
	}
}
