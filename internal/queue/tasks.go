package queue

import (
	"encoding/json"

	"github.com/restock-next/internal/constants"
	"github.com/restock-next/internal/service"

	"github.com/hibiken/asynq"
)

const (
	// TaskOfferPriceSync 行情价格批次任务
	TaskOfferPriceSync = constants.TaskOfferPriceSync
	// TaskOfferReconcile 孤儿 Offer 回收任务
	TaskOfferReconcile = constants.TaskOfferReconcile
)

// OfferPriceSyncPayload 行情价格批次任务载荷
type OfferPriceSyncPayload struct {
	BatchID string                  `json:"batch_id"`
	Items   []service.PriceSyncItem `json:"items"`
}

// OfferReconcilePayload 孤儿回收任务载荷，ProductID 为 0 表示全量
type OfferReconcilePayload struct {
	ProductID uint `json:"product_id"`
}

// NewOfferPriceSyncTask 创建行情价格批次任务
func NewOfferPriceSyncTask(payload OfferPriceSyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOfferPriceSync, body), nil
}

// NewOfferReconcileTask 创建孤儿回收任务
func NewOfferReconcileTask(payload OfferReconcilePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOfferReconcile, body), nil
}
