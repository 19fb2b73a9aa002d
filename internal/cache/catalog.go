package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/restock-next/internal/models"
)

const productDetailCacheTTL = 5 * time.Minute

func productDetailKey(productID uint) string {
	return fmt.Sprintf("catalog:product:%d", productID)
}

// GetProductDetail 获取商品详情快照
func GetProductDetail(ctx context.Context, productID uint) (*models.Product, bool, error) {
	if productID == 0 {
		return nil, false, nil
	}
	var product models.Product
	hit, err := GetJSON(ctx, productDetailKey(productID), &product)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &product, true, nil
}

// SetProductDetail 写入商品详情快照
func SetProductDetail(ctx context.Context, product *models.Product) error {
	if product == nil || product.ID == 0 {
		return nil
	}
	return SetJSON(ctx, productDetailKey(product.ID), product, productDetailCacheTTL)
}

// DelProductDetail 商品或其目录结构变更后失效详情快照
func DelProductDetail(ctx context.Context, productID uint) error {
	if productID == 0 {
		return nil
	}
	return Del(ctx, productDetailKey(productID))
}
