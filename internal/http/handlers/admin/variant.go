package admin

import (
	"github.com/restock-next/internal/constants"
	"github.com/restock-next/internal/http/response"
	"github.com/restock-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateVariantRequest 手工创建变体请求，values 按槽位顺序给出
type CreateVariantRequest struct {
	Values  []*string `json:"values"`
	SKU     string    `json:"sku"`
	Barcode string    `json:"barcode"`
}

// UpdateVariantRequest 更新变体请求
type UpdateVariantRequest struct {
	Values  *[]*string `json:"values"`
	SKU     *string    `json:"sku"`
	Barcode *string    `json:"barcode"`
}

func valuesToTuple(values []*string) ([constants.MaxProductOptions]*string, bool) {
	var tuple [constants.MaxProductOptions]*string
	if len(values) > constants.MaxProductOptions {
		return tuple, false
	}
	copy(tuple[:], values)
	return tuple, true
}

// GetVariants 商品变体列表，附带每个变体当前最低的在售价
func (h *Handler) GetVariants(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	variants, cheapest, err := h.VariantService.ListByProduct(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"variants": variants,
		"cheapest": cheapest,
	})
}

// CreateVariant 手工创建变体
func (h *Handler) CreateVariant(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	tuple, ok := valuesToTuple(req.Values)
	if !ok {
		respondError(c, response.CodeBadRequest, "too many option values", nil)
		return
	}

	variant, err := h.VariantService.CreateVariant(service.CreateVariantInput{
		ProductID: productID,
		Values:    tuple,
		SKU:       req.SKU,
		Barcode:   req.Barcode,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.invalidateProductCache(c, productID)
	response.Success(c, variant)
}

// UpdateVariant 更新变体
func (h *Handler) UpdateVariant(c *gin.Context) {
	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	input := service.UpdateVariantInput{
		SKU:     req.SKU,
		Barcode: req.Barcode,
	}
	if req.Values != nil {
		tuple, ok := valuesToTuple(*req.Values)
		if !ok {
			respondError(c, response.CodeBadRequest, "too many option values", nil)
			return
		}
		input.Values = &tuple
	}

	variant, err := h.VariantService.UpdateVariant(variantID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.invalidateProductCache(c, variant.ProductID)
	response.Success(c, variant)
}

// DeleteVariant 删除变体，关联的非终态 Offer 转入无匹配
func (h *Handler) DeleteVariant(c *gin.Context) {
	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	variant, err := h.VariantService.GetByID(variantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.VariantService.DeleteVariant(variantID); err != nil {
		respondServiceError(c, err)
		return
	}
	h.invalidateProductCache(c, variant.ProductID)
	response.Success(c, nil)
}
