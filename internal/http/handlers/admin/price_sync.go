package admin

import (
	"github.com/restock-next/internal/http/response"
	"github.com/restock-next/internal/queue"
	"github.com/restock-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PriceSyncRequest 行情价格批次提交请求，batch_id 缺省时服务端生成
type PriceSyncRequest struct {
	BatchID string                  `json:"batch_id"`
	Items   []service.PriceSyncItem `json:"items" binding:"required,min=1"`
}

// IngestPriceSync 接收行情价格批次。队列可用时异步处理，否则同步落库。
func (h *Handler) IngestPriceSync(c *gin.Context) {
	var req PriceSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if h.PriceSyncService == nil || !h.Config.PriceSync.Enabled {
		respondError(c, response.CodeBadRequest, "price sync is disabled", nil)
		return
	}

	batchID := req.BatchID
	if batchID == "" {
		batchID = uuid.NewString()
	}

	if h.QueueClient != nil && h.QueueClient.Enabled() {
		err := h.QueueClient.EnqueueOfferPriceSync(queue.OfferPriceSyncPayload{
			BatchID: batchID,
			Items:   req.Items,
		})
		if err != nil {
			respondError(c, response.CodeInternal, "enqueue price sync failed", err)
			return
		}
		requestLog(c).Infow("price_sync_enqueued", "batch_id", batchID, "items", len(req.Items))
		response.Success(c, gin.H{"batch_id": batchID, "queued": true})
		return
	}

	result, err := h.PriceSyncService.ApplyBatch(batchID, req.Items)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"batch_id": batchID,
		"queued":   false,
		"applied":  result.Applied,
		"skipped":  result.Skipped,
	})
}
