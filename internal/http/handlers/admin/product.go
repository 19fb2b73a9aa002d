package admin

import (
	"strconv"

	"github.com/restock-next/internal/cache"
	"github.com/restock-next/internal/http/response"
	"github.com/restock-next/internal/repository"
	"github.com/restock-next/internal/service"

	"github.com/gin-gonic/gin"
)

// MetafieldRequest 元字段请求
type MetafieldRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// MetafieldUpdateRequest 元字段子编辑请求
type MetafieldUpdateRequest struct {
	ID    uint    `json:"id" binding:"required"`
	Key   *string `json:"key"`
	Value *string `json:"value"`
}

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	Handle      string             `json:"handle" binding:"required"`
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Vendor      string             `json:"vendor"`
	SKU         string             `json:"sku"`
	Barcode     string             `json:"barcode"`
	Tags        []string           `json:"tags"`
	IsAvailable *bool              `json:"is_available"`
	Metafields  []MetafieldRequest `json:"metafields"`
}

// UpdateProductRequest 更新商品请求
type UpdateProductRequest struct {
	Handle             *string                  `json:"handle"`
	Title              *string                  `json:"title"`
	Description        *string                  `json:"description"`
	Vendor             *string                  `json:"vendor"`
	SKU                *string                  `json:"sku"`
	Barcode            *string                  `json:"barcode"`
	Tags               *[]string                `json:"tags"`
	IsAvailable        *bool                    `json:"is_available"`
	CreateMetafields   []MetafieldRequest       `json:"create_metafields"`
	UpdateMetafields   []MetafieldUpdateRequest `json:"update_metafields"`
	DeleteMetafieldIDs []uint                   `json:"delete_metafield_ids"`
}

// GetProducts 商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:          page,
		PageSize:      pageSize,
		Search:        c.Query("search"),
		Vendor:        c.Query("vendor"),
		OnlyAvailable: c.Query("only_available") == "true",
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

// GetProduct 商品详情（含规格、变体、特性、图片与元字段）
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if cached, hit, err := cache.GetProductDetail(c.Request.Context(), productID); err == nil && hit {
		response.Success(c, cached)
		return
	}

	product, err := h.ProductService.GetDetail(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := cache.SetProductDetail(c.Request.Context(), product); err != nil {
		requestLog(c).Warnw("product_detail_cache_set_failed", "product_id", productID, "error", err)
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	metafields := make([]service.MetafieldInput, 0, len(req.Metafields))
	for _, field := range req.Metafields {
		metafields = append(metafields, service.MetafieldInput{Key: field.Key, Value: field.Value})
	}

	product, err := h.ProductService.CreateProduct(service.CreateProductInput{
		Handle:      req.Handle,
		Title:       req.Title,
		Description: req.Description,
		Vendor:      req.Vendor,
		SKU:         req.SKU,
		Barcode:     req.Barcode,
		Tags:        req.Tags,
		IsAvailable: req.IsAvailable,
		Metafields:  metafields,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	input := service.UpdateProductInput{
		Handle:             req.Handle,
		Title:              req.Title,
		Description:        req.Description,
		Vendor:             req.Vendor,
		SKU:                req.SKU,
		Barcode:            req.Barcode,
		Tags:               req.Tags,
		IsAvailable:        req.IsAvailable,
		DeleteMetafieldIDs: req.DeleteMetafieldIDs,
	}
	for _, field := range req.CreateMetafields {
		input.CreateMetafields = append(input.CreateMetafields, service.MetafieldInput{Key: field.Key, Value: field.Value})
	}
	for _, field := range req.UpdateMetafields {
		input.UpdateMetafields = append(input.UpdateMetafields, service.MetafieldUpdateInput{
			ID:    field.ID,
			Key:   field.Key,
			Value: field.Value,
		})
	}

	product, err := h.ProductService.UpdateProduct(productID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.invalidateProductCache(c, productID)
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteProduct(productID); err != nil {
		respondServiceError(c, err)
		return
	}
	h.invalidateProductCache(c, productID)
	response.Success(c, nil)
}

// invalidateProductCache 商品目录结构变更后失效详情快照
func (h *Handler) invalidateProductCache(c *gin.Context, productID uint) {
	if err := cache.DelProductDetail(c.Request.Context(), productID); err != nil {
		// 快照自带 TTL 兜底，失效失败只记录
		requestLog(c).Warnw("product_detail_cache_del_failed", "product_id", productID, "error", err)
	}
}
