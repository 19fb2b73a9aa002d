package admin

import (
	"strconv"
	"time"

	"github.com/restock-next/internal/http/response"
	"github.com/restock-next/internal/queue"
	"github.com/restock-next/internal/repository"
	"github.com/restock-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateOfferRequest 创建 Offer 请求
type CreateOfferRequest struct {
	UserID            uint            `json:"user_id" binding:"required"`
	VariantID         uint            `json:"variant_id" binding:"required"`
	Price             decimal.Decimal `json:"price" binding:"required"`
	OfferPrice        decimal.Decimal `json:"offer_price"`
	Status            string          `json:"status"`
	DeliveryProfileID *uint           `json:"delivery_profile_id"`
	Comment           string          `json:"comment"`
}

// UpdateOfferRequest 更新 Offer 请求（缺省字段不变更）
type UpdateOfferRequest struct {
	VariantID         *uint            `json:"variant_id"`
	Status            *string          `json:"status"`
	Price             *decimal.Decimal `json:"price"`
	OfferPrice        *decimal.Decimal `json:"offer_price"`
	DeliveryProfileID *uint            `json:"delivery_profile_id"`
	Comment           *string          `json:"comment"`
	OrderID           *uint            `json:"order_id"`
}

func queryUint(c *gin.Context, name string) uint {
	value, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}

func queryTime(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &parsed
}

// GetOffers Offer 列表
func (h *Handler) GetOffers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	offers, total, err := h.OfferService.List(repository.OfferListFilter{
		Page:              page,
		PageSize:          pageSize,
		UserID:            queryUint(c, "user_id"),
		ProductID:         queryUint(c, "product_id"),
		VariantID:         queryUint(c, "variant_id"),
		DeliveryProfileID: queryUint(c, "delivery_profile_id"),
		Status:            c.Query("status"),
		CreatedFrom:       queryTime(c, "created_from"),
		CreatedTo:         queryTime(c, "created_to"),
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

// GetOffer Offer 详情
func (h *Handler) GetOffer(c *gin.Context) {
	offerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	offer, err := h.OfferService.GetByID(offerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, offer)
}

// CreateOffer 创建 Offer
func (h *Handler) CreateOffer(c *gin.Context) {
	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	offer, err := h.OfferService.CreateOffer(service.CreateOfferInput{
		UserID:            req.UserID,
		VariantID:         req.VariantID,
		Price:             req.Price,
		OfferPrice:        req.OfferPrice,
		Status:            req.Status,
		DeliveryProfileID: req.DeliveryProfileID,
		Comment:           req.Comment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, offer)
}

// UpdateOffer 更新 Offer，状态流转由服务层把关
func (h *Handler) UpdateOffer(c *gin.Context) {
	offerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	offer, err := h.OfferService.UpdateOffer(offerID, service.UpdateOfferInput{
		VariantID:         req.VariantID,
		Status:            req.Status,
		Price:             req.Price,
		OfferPrice:        req.OfferPrice,
		DeliveryProfileID: req.DeliveryProfileID,
		Comment:           req.Comment,
		OrderID:           req.OrderID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, offer)
}

// DeleteOffer 删除 Offer
func (h *Handler) DeleteOffer(c *gin.Context) {
	offerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.OfferService.DeleteOffer(offerID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// ReconcileOffers 触发孤儿 Offer 回连，product_id 为 0 表示全量。
// 队列可用时投递异步任务，否则同步执行。
func (h *Handler) ReconcileOffers(c *gin.Context) {
	productID := queryUint(c, "product_id")

	if h.QueueClient != nil && h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueOfferReconcile(queue.OfferReconcilePayload{ProductID: productID}); err != nil {
			respondError(c, response.CodeInternal, "enqueue reconcile failed", err)
			return
		}
		response.SuccessWithMsg(c, "reconcile enqueued", nil)
		return
	}

	reattached, err := h.OfferService.ReconcileOrphans(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("offer_reconcile_done", "product_id", productID, "reattached", reattached)
	response.Success(c, gin.H{"reattached": reattached})
}
