package public

import (
	"strconv"

	"github.com/restock-next/internal/cache"
	"github.com/restock-next/internal/constants"
	handlershared "github.com/restock-next/internal/http/handlers/shared"
	"github.com/restock-next/internal/http/response"
	"github.com/restock-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetProducts 公开商品列表，仅返回在售商品
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:          page,
		PageSize:      pageSize,
		Search:        c.Query("search"),
		Vendor:        c.Query("vendor"),
		OnlyAvailable: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product list failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// GetProduct 公开商品详情，走与后台相同的快照缓存
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if cached, hit, err := cache.GetProductDetail(c.Request.Context(), productID); err == nil && hit {
		if !cached.IsAvailable {
			respondError(c, response.CodeNotFound, "resource not found", nil)
			return
		}
		response.Success(c, cached)
		return
	}

	product, err := h.ProductService.GetDetail(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !product.IsAvailable {
		respondError(c, response.CodeNotFound, "resource not found", nil)
		return
	}
	if err := cache.SetProductDetail(c.Request.Context(), product); err != nil {
		handlershared.RequestLog(c).Warnw("product_detail_cache_set_failed", "product_id", productID, "error", err)
	}
	response.Success(c, product)
}

// GetVariantOffers 按变体列出在售 Offer，按价格升序
func (h *Handler) GetVariantOffers(c *gin.Context) {
	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.VariantService.GetByID(variantID); err != nil {
		respondServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	offers, total, err := h.OfferService.List(repository.OfferListFilter{
		Page:            page,
		PageSize:        pageSize,
		VariantID:       variantID,
		Status:          constants.OfferStatusActive,
		OrderByPriceAsc: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "offer list failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, offers, pagination)
}
