package cache

import (
	"context"
	"strings"
	"time"
)

func trackingKey(trackingNumber string) []string {
	return []string{"track", strings.TrimSpace(trackingNumber)}
}

// GetTracking 读取追踪结果缓存
func GetTracking(ctx context.Context, trackingNumber string, dest any) (bool, error) {
	if strings.TrimSpace(trackingNumber) == "" {
		return false, nil
	}
	return loadJSON(ctx, dest, trackingKey(trackingNumber)...)
}

// SetTracking 写入追踪结果缓存，ttl<=0 不缓存
func SetTracking(ctx context.Context, trackingNumber string, value any, ttl time.Duration) error {
	if strings.TrimSpace(trackingNumber) == "" || ttl <= 0 {
		return nil
	}
	return storeJSON(ctx, value, ttl, trackingKey(trackingNumber)...)
}

// DelTracking 运单变更后失效追踪缓存
func DelTracking(ctx context.Context, trackingNumber string) error {
	if strings.TrimSpace(trackingNumber) == "" {
		return nil
	}
	return evict(ctx, trackingKey(trackingNumber)...)
}
