package admin

import (
	"github.com/restock-next/internal/http/response"
	"github.com/restock-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddImageRequest 新增图片请求
type AddImageRequest struct {
	VariantID *uint  `json:"variant_id"`
	Src       string `json:"src" binding:"required"`
	Alt       string `json:"alt"`
}

// UpdateImageRequest 更新图片请求
type UpdateImageRequest struct {
	Alt      *string `json:"alt"`
	Position *int    `json:"position"`
}

// GetImages 商品图片列表
func (h *Handler) GetImages(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	images, err := h.ImageService.ListByProduct(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, images)
}

// AddImage 新增商品图片，可选绑定到变体
func (h *Handler) AddImage(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	image, err := h.ImageService.AddImage(service.AddImageInput{
		ProductID: productID,
		VariantID: req.VariantID,
		Src:       req.Src,
		Alt:       req.Alt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.invalidateProductCache(c, productID)
	response.Success(c, image)
}

// UpdateImage 更新图片
func (h *Handler) UpdateImage(c *gin.Context) {
	imageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	image, err := h.ImageService.UpdateImage(imageID, service.UpdateImageInput{
		Alt:      req.Alt,
		Position: req.Position,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if image.ProductID != nil {
		h.invalidateProductCache(c, *image.ProductID)
	}
	response.Success(c, image)
}

// RemoveImage 删除图片，剩余图片位置压实
func (h *Handler) RemoveImage(c *gin.Context) {
	imageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	image, err := h.ImageService.GetByID(imageID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.ImageService.RemoveImage(imageID); err != nil {
		respondServiceError(c, err)
		return
	}
	if image.ProductID != nil {
		h.invalidateProductCache(c, *image.ProductID)
	}
	response.Success(c, nil)
}
