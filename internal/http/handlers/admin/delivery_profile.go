package admin

import (
	"github.com/restock-next/internal/http/response"
	"github.com/restock-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateProfileRequest 创建交付档案请求
type CreateProfileRequest struct {
	Title     string `json:"title" binding:"required"`
	IsDefault bool   `json:"is_default"`
}

// UpdateProfileRequest 更新交付档案请求
type UpdateProfileRequest struct {
	Title     *string `json:"title"`
	IsDefault *bool   `json:"is_default"`
}

// GetDeliveryProfiles 交付档案列表
func (h *Handler) GetDeliveryProfiles(c *gin.Context) {
	profiles, err := h.DeliveryProfileService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "delivery profile list failed", err)
		return
	}
	response.Success(c, profiles)
}

// CreateDeliveryProfile 创建交付档案，设为默认时原默认档案让位
func (h *Handler) CreateDeliveryProfile(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	profile, err := h.DeliveryProfileService.Create(service.CreateProfileInput{
		Title:     req.Title,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, profile)
}

// UpdateDeliveryProfile 更新交付档案
func (h *Handler) UpdateDeliveryProfile(c *gin.Context) {
	profileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	profile, err := h.DeliveryProfileService.Update(profileID, service.UpdateProfileInput{
		Title:     req.Title,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, profile)
}

// DeleteDeliveryProfile 删除交付档案，默认档案与被引用档案不可删
func (h *Handler) DeleteDeliveryProfile(c *gin.Context) {
	profileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.DeliveryProfileService.Delete(profileID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
