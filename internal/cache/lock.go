package cache

import (
	"context"
	"fmt"
	"time"
)

// 批次互斥锁的兜底时长，防止 worker 异常退出后锁永久占用
const defaultLockTTL = 5 * time.Minute

func batchLockKey(batchID string) string {
	return fmt.Sprintf("price_sync:lock:%s", batchID)
}

// TryLockBatch 为行情批次抢占处理锁。Redis 未启用时直接放行，
// 此时幂等性由覆盖式更新本身保证
func TryLockBatch(ctx context.Context, batchID string, ttl time.Duration) (bool, error) {
	if !Enabled() {
		return true, nil
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return redisClient.SetNX(ctx, buildKey(batchLockKey(batchID)), 1, ttl).Result()
}

// UnlockBatch 释放行情批次锁
func UnlockBatch(ctx context.Context, batchID string) error {
	return Del(ctx, batchLockKey(batchID))
}
