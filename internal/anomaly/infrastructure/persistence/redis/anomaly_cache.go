package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wyfcoding/salesanalytics/internal/anomaly/domain"
)

// ActiveAnomalyCache 活跃异常列表的读缓存。
// 仅缓存默认 30 天窗口（仪表盘热点），其余窗口一律回源；
// 非默认窗口靠 TTL 过期，显式失效只删默认键。
type ActiveAnomalyCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewActiveAnomalyCache(client redis.UniversalClient) *ActiveAnomalyCache {
	return &ActiveAnomalyCache{
		client: client,
		ttl:    time.Minute,
	}
}

const defaultWindowDays = 30

func cacheKey(windowDays int) string {
	return fmt.Sprintf("anomaly:active:%d", windowDays)
}

func (c *ActiveAnomalyCache) Get(ctx context.Context, windowDays int) ([]*domain.Anomaly, bool) {
	if windowDays != defaultWindowDays {
		return nil, false
	}
	raw, err := c.client.Get(ctx, cacheKey(windowDays)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("anomaly cache read failed", "error", err)
		}
		return nil, false
	}
	var anomalies []*domain.Anomaly
	if err := json.Unmarshal(raw, &anomalies); err != nil {
		slog.Debug("anomaly cache decode failed", "error", err)
		return nil, false
	}
	return anomalies, true
}

func (c *ActiveAnomalyCache) Set(ctx context.Context, windowDays int, anomalies []*domain.Anomaly) {
	if windowDays != defaultWindowDays {
		return
	}
	raw, err := json.Marshal(anomalies)
	if err != nil {
		slog.Debug("anomaly cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, cacheKey(windowDays), raw, c.ttl).Err(); err != nil {
		slog.Debug("anomaly cache write failed", "error", err)
	}
}

func (c *ActiveAnomalyCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, cacheKey(defaultWindowDays)).Err(); err != nil {
		slog.Debug("anomaly cache invalidate failed", "error", err)
	}
}
