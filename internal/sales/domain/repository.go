package domain

import (
	"context"
	"time"
)

// SalesRepository 销售记录与目标仓储接口
type SalesRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// UpsertDailySale 按 (channel, sub_channel, date) 幂等写入
	UpsertDailySale(ctx context.Context, sale *DailySale) error
	// ListInRange 返回 [start, end) 内的全部销售记录
	ListInRange(ctx context.Context, start, end time.Time) ([]*DailySale, error)
	UpsertTarget(ctx context.Context, target *SalesTarget) error
	// GetTarget 不存在时返回 ErrTargetNotFound
	GetTarget(ctx context.Context, channelID string, year, month int) (*SalesTarget, error)
}
