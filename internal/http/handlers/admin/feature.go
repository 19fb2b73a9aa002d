package admin

import (
	"github.com/restock-next/internal/http/response"
	"github.com/restock-next/internal/service"

	"github.com/gin-gonic/gin"
)

// FeatureValueRequest 特性值请求，ID 为 0 表示新建
type FeatureValueRequest struct {
	ID    uint   `json:"id"`
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// CreateFeatureRequest 创建特性请求
type CreateFeatureRequest struct {
	Title  string                `json:"title" binding:"required"`
	Values []FeatureValueRequest `json:"values"`
}

// FeatureValueUpdateRequest 特性值子编辑请求
type FeatureValueUpdateRequest struct {
	ID       uint    `json:"id" binding:"required"`
	Key      *string `json:"key"`
	Value    *string `json:"value"`
	Position *int    `json:"position"`
}

// UpdateFeatureRequest 更新特性请求
type UpdateFeatureRequest struct {
	Title          *string                     `json:"title"`
	Position       *int                        `json:"position"`
	CreateValues   []FeatureValueRequest       `json:"create_values"`
	UpdateValues   []FeatureValueUpdateRequest `json:"update_values"`
	DeleteValueIDs []uint                      `json:"delete_value_ids"`
}

// FeatureStateRequest 特性期望态请求
type FeatureStateRequest struct {
	ID     uint                  `json:"id"`
	Title  string                `json:"title" binding:"required"`
	Values []FeatureValueRequest `json:"values"`
}

// ApplyFeatureStateRequest 声明式覆盖整棵特性树的请求
type ApplyFeatureStateRequest struct {
	Features []FeatureStateRequest `json:"features"`
}

func featureValueStates(values []FeatureValueRequest) []service.FeatureValueState {
	states := make([]service.FeatureValueState, 0, len(values))
	for _, value := range values {
		states = append(states, service.FeatureValueState{
			ID:    value.ID,
			Key:   value.Key,
			Value: value.Value,
		})
	}
	return states
}

// GetFeatures 商品特性列表
func (h *Handler) GetFeatures(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	features, err := h.FeatureService.ListByProduct(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, features)
}

// CreateFeature 创建特性
func (h *Handler) CreateFeature(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CreateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	feature, err := h.FeatureService.CreateFeature(productID, req.Title, featureValueStates(req.Values))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.invalidateProductCache(c, productID)
	response.Success(c, feature)
}

// UpdateFeature 更新特性
func (h *Handler) UpdateFeature(c *gin.Context) {
	featureID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	input := service.UpdateFeatureInput{
		Title:          req.Title,
		Position:       req.Position,
		CreateValues:   featureValueStates(req.CreateValues),
		DeleteValueIDs: req.DeleteValueIDs,
	}
	for _, value := range req.UpdateValues {
		input.UpdateValues = append(input.UpdateValues, service.FeatureValueUpdateInput{
			ID:       value.ID,
			Key:      value.Key,
			Value:    value.Value,
			Position: value.Position,
		})
	}

	feature, err := h.FeatureService.UpdateFeature(featureID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.invalidateProductCache(c, feature.ProductID)
	response.Success(c, feature)
}

// DeleteFeature 删除特性，剩余特性位置压实
func (h *Handler) DeleteFeature(c *gin.Context) {
	featureID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	feature, err := h.FeatureService.GetByID(featureID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.FeatureService.DeleteFeature(featureID); err != nil {
		respondServiceError(c, err)
		return
	}
	h.invalidateProductCache(c, feature.ProductID)
	response.Success(c, nil)
}

// ApplyFeatureState 按期望态整树同步特性，返回实际执行的差量
func (h *Handler) ApplyFeatureState(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ApplyFeatureStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	desired := make([]service.FeatureState, 0, len(req.Features))
	for _, feature := range req.Features {
		desired = append(desired, service.FeatureState{
			ID:     feature.ID,
			Title:  feature.Title,
			Values: featureValueStates(feature.Values),
		})
	}

	diff, err := h.FeatureService.ApplyFeatureState(productID, desired)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.invalidateProductCache(c, productID)
	response.Success(c, diff)
}
