package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/restock-next/internal/cache"
	"github.com/restock-next/internal/logger"
	"github.com/restock-next/internal/provider"
	"github.com/restock-next/internal/queue"
	"github.com/restock-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOfferPriceSync, c.handleOfferPriceSync)
	mux.HandleFunc(queue.TaskOfferReconcile, c.handleOfferReconcile)
}

// batchLockTTL 把配置的锁时长换算为 Duration，非法值回退为 0 交由
// 缓存层使用兜底时长
func batchLockTTL(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func (c *Consumer) handleOfferPriceSync(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_price_sync_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OfferPriceSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_price_sync_unmarshal_failed", "error", err)
		return err
	}
	if len(payload.Items) == 0 {
		logger.Debugw("worker_price_sync_skip_empty_batch", "batch_id", payload.BatchID)
		return nil
	}
	if c.PriceSyncService == nil {
		logger.Warnw("worker_price_sync_skip_service_nil", "batch_id", payload.BatchID)
		return nil
	}

	// 同一批次可能被重复投递，用批次锁保证只处理一次
	if payload.BatchID != "" {
		ttl := batchLockTTL(c.Config.PriceSync.LockTTLSeconds)
		acquired, err := cache.TryLockBatch(ctx, payload.BatchID, ttl)
		if err != nil {
			logger.Warnw("worker_price_sync_lock_failed", "batch_id", payload.BatchID, "error", err)
			return err
		}
		if !acquired {
			logger.Debugw("worker_price_sync_skip_duplicate_batch", "batch_id", payload.BatchID)
			return nil
		}
	}

	result, err := c.PriceSyncService.ApplyBatch(payload.BatchID, payload.Items)
	if err != nil {
		if errors.Is(err, service.ErrPriceSyncDisabled) {
			logger.Debugw("worker_price_sync_skip_disabled", "batch_id", payload.BatchID)
			return nil
		}
		if payload.BatchID != "" {
			// 失败批次释放锁，让重试投递有机会重新处理
			if unlockErr := cache.UnlockBatch(ctx, payload.BatchID); unlockErr != nil {
				logger.Warnw("worker_price_sync_unlock_failed", "batch_id", payload.BatchID, "error", unlockErr)
			}
		}
		logger.Warnw("worker_price_sync_failed", "batch_id", payload.BatchID, "error", err)
		return err
	}
	logger.Infow("worker_price_sync_done",
		"batch_id", payload.BatchID,
		"applied", result.Applied,
		"skipped", result.Skipped,
	)
	return nil
}

func (c *Consumer) handleOfferReconcile(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_reconcile_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OfferReconcilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_reconcile_unmarshal_failed", "error", err)
		return err
	}
	if c.OfferService == nil {
		logger.Warnw("worker_reconcile_skip_service_nil", "product_id", payload.ProductID)
		return nil
	}
	affected, err := c.OfferService.ReconcileOrphans(payload.ProductID)
	if err != nil {
		logger.Warnw("worker_reconcile_failed", "product_id", payload.ProductID, "error", err)
		return err
	}
	if affected > 0 {
		logger.Infow("worker_reconcile_done", "product_id", payload.ProductID, "orphaned_offers", affected)
	}
	return nil
}
