package domain

import (
	"context"
	"time"
)

// AnomalyRepository 异常日志仓储接口
// 记录只增不改，唯一允许的更新是一次性写入 dismissed_at。
type AnomalyRepository interface {
	// Save 插入新异常。违反 (channel_id, type, detected_at) 唯一约束时
	// 返回 ErrDuplicateAnomaly。
	Save(ctx context.Context, anomaly *Anomaly) error
	// GetByAnomalyID 按业务主键查询，不存在返回 ErrAnomalyNotFound。
	GetByAnomalyID(ctx context.Context, anomalyID string) (*Anomaly, error)
	// ListByDetectedAt 查询某一天的全部持久化异常（含已关闭），用于去重。
	ListByDetectedAt(ctx context.Context, day time.Time) ([]*Anomaly, error)
	// ListActive 查询 detected_at >= since 且未被关闭的异常，按创建时间倒序。
	ListActive(ctx context.Context, since time.Time) ([]*Anomaly, error)
	// Dismiss 软删除：仅当记录尚未关闭时写入 dismissed_at/dismissed_by。
	Dismiss(ctx context.Context, anomalyID, dismissedBy string, at time.Time) error
}

// ChannelCatalog 渠道目录协作方：检测只关心活跃渠道。
type ChannelCatalog interface {
	ListActive(ctx context.Context) ([]ActiveChannel, error)
}

// SalesSource 销售数据协作方：按日期区间提供逐渠道逐日销售额。
type SalesSource interface {
	ListInRange(ctx context.Context, start, end time.Time) ([]DailySale, error)
}

// ActiveAnomalyCache 活跃异常列表的读缓存（仪表盘热点路径）。
// 实现允许只缓存默认窗口，其余窗口直接返回未命中。
type ActiveAnomalyCache interface {
	Get(ctx context.Context, windowDays int) ([]*Anomaly, bool)
	Set(ctx context.Context, windowDays int, anomalies []*Anomaly)
	Invalidate(ctx context.Context)
}
