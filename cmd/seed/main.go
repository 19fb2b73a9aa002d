package main

import (
	"github.com/restock-next/internal/config"
	"github.com/restock-next/internal/constants"
	"github.com/restock-next/internal/logger"
	"github.com/restock-next/internal/models"
	"github.com/restock-next/internal/provider"
	"github.com/restock-next/internal/service"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	c := provider.NewContainer(cfg)

	// 默认交付档案
	if err := models.InitDefaultDeliveryProfile("Standard"); err != nil {
		stdLog.Fatalf("Failed to seed delivery profile: %v", err)
	}

	// 卖家与行情数据源用户
	seller, err := c.UserService.CreateUser(service.CreateUserInput{
		Email:       "seller@restock.local",
		DisplayName: "demo seller",
		Role:        constants.UserRoleSeller,
	})
	if err != nil {
		stdLog.Fatalf("Failed to seed seller: %v", err)
	}
	if _, err := c.UserService.GetOrCreateProvider("feed@restock.local"); err != nil {
		stdLog.Fatalf("Failed to seed provider: %v", err)
	}

	// 演示商品
	product, err := c.ProductService.CreateProduct(service.CreateProductInput{
		Handle:      "air-max-90",
		Title:       "Air Max 90",
		Description: "Classic runner in original colorways.",
		Vendor:      "nike",
		SKU:         "AM90",
		Tags:        []string{"sneakers", "classic"},
		Metafields: []service.MetafieldInput{
			{Key: constants.MetafieldKeyPriceFactor, Value: "1.15"},
			{Key: constants.MetafieldKeyPriceAmount, Value: "3"},
		},
	})
	if err != nil {
		stdLog.Fatalf("Failed to seed product: %v", err)
	}

	// 规格，创建后自动生成变体矩阵
	if _, err := c.OptionService.CreateOption(service.CreateOptionInput{
		ProductID: product.ID,
		Title:     "Size",
		Values:    []string{"40", "41", "42"},
	}); err != nil {
		stdLog.Fatalf("Failed to seed size option: %v", err)
	}
	if _, err := c.OptionService.CreateOption(service.CreateOptionInput{
		ProductID: product.ID,
		Title:     "Color",
		Values:    []string{"Black", "White"},
	}); err != nil {
		stdLog.Fatalf("Failed to seed color option: %v", err)
	}

	// 特性
	if _, err := c.FeatureService.CreateFeature(product.ID, "Materials", []service.FeatureValueState{
		{Key: "Upper", Value: "Leather and mesh"},
		{Key: "Sole", Value: "Rubber"},
	}); err != nil {
		stdLog.Fatalf("Failed to seed feature: %v", err)
	}

	// 示例 Offer
	variants, _, err := c.VariantService.ListByProduct(product.ID)
	if err != nil {
		stdLog.Fatalf("Failed to list variants: %v", err)
	}
	for i, variant := range variants {
		if i >= 2 {
			break
		}
		price := decimal.NewFromInt(int64(120 + i*5))
		if _, err := c.OfferService.CreateOffer(service.CreateOfferInput{
			UserID:     seller.ID,
			VariantID:  variant.ID,
			Price:      price,
			OfferPrice: price.Sub(decimal.NewFromInt(10)),
			Status:     constants.OfferStatusActive,
		}); err != nil {
			stdLog.Fatalf("Failed to seed offer: %v", err)
		}
	}

	stdLog.Printf("Seed finished: product=%d variants=%d", product.ID, len(variants))
}
