package worker

import (
	"context"
	"testing"
	"time"

	"github.com/restock-next/internal/provider"
	"github.com/restock-next/internal/queue"

	"github.com/hibiken/asynq"
)

func TestBatchLockTTL(t *testing.T) {
	if got := batchLockTTL(0); got != 0 {
		t.Fatalf("expected 0 for unset config, got %v", got)
	}
	if got := batchLockTTL(-5); got != 0 {
		t.Fatalf("expected 0 for negative config, got %v", got)
	}
	if got := batchLockTTL(300); got != 5*time.Minute {
		t.Fatalf("expected 5m, got %v", got)
	}
}

func TestHandleOfferPriceSyncBadPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskOfferPriceSync, []byte("{not json"))
	if err := consumer.handleOfferPriceSync(context.Background(), task); err == nil {
		t.Fatalf("expected unmarshal error for malformed payload")
	}
}

func TestHandleOfferPriceSyncEmptyBatch(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task, err := queue.NewOfferPriceSyncTask(queue.OfferPriceSyncPayload{BatchID: "b-1"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOfferPriceSync(context.Background(), task); err != nil {
		t.Fatalf("empty batch must be skipped, got %v", err)
	}
}

func TestHandleOfferReconcileNilService(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task, err := queue.NewOfferReconcileTask(queue.OfferReconcilePayload{ProductID: 1})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOfferReconcile(context.Background(), task); err != nil {
		t.Fatalf("missing service must be skipped, got %v", err)
	}
}
