package admin

import (
	"github.com/restock-next/internal/http/response"
	"github.com/restock-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOptionRequest 创建规格请求
type CreateOptionRequest struct {
	Title  string   `json:"title" binding:"required"`
	Values []string `json:"values" binding:"required,min=1"`
}

// OptionValueUpdateRequest 规格值子编辑请求
type OptionValueUpdateRequest struct {
	ID       uint    `json:"id" binding:"required"`
	Title    *string `json:"title"`
	Position *int    `json:"position"`
}

// UpdateOptionRequest 更新规格请求
type UpdateOptionRequest struct {
	Title          *string                    `json:"title"`
	Position       *int                       `json:"position"`
	CreateValues   []string                   `json:"create_values"`
	UpdateValues   []OptionValueUpdateRequest `json:"update_values"`
	DeleteValueIDs []uint                     `json:"delete_value_ids"`
}

// GetOptions 商品规格列表
func (h *Handler) GetOptions(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	options, err := h.OptionService.ListByProduct(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, options)
}

// CreateOption 创建规格并重建变体矩阵
func (h *Handler) CreateOption(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	option, err := h.OptionService.CreateOption(service.CreateOptionInput{
		ProductID: productID,
		Title:     req.Title,
		Values:    req.Values,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.invalidateProductCache(c, productID)
	response.Success(c, option)
}

// UpdateOption 更新规格，子编辑应用后统一重建矩阵
func (h *Handler) UpdateOption(c *gin.Context) {
	optionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	input := service.UpdateOptionInput{
		Title:          req.Title,
		Position:       req.Position,
		CreateValues:   req.CreateValues,
		DeleteValueIDs: req.DeleteValueIDs,
	}
	for _, value := range req.UpdateValues {
		input.UpdateValues = append(input.UpdateValues, service.OptionValueUpdateInput{
			ID:       value.ID,
			Title:    value.Title,
			Position: value.Position,
		})
	}

	option, err := h.OptionService.UpdateOption(optionID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.invalidateProductCache(c, option.ProductID)
	response.Success(c, option)
}

// DeleteOption 删除规格，剩余规格前移补位
func (h *Handler) DeleteOption(c *gin.Context) {
	optionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	option, err := h.OptionService.GetByID(optionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.OptionService.DeleteOption(optionID); err != nil {
		respondServiceError(c, err)
		return
	}
	h.invalidateProductCache(c, option.ProductID)
	response.Success(c, nil)
}
