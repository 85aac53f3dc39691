package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// WeekdayTotal 按星期几分组的销售合计（Weekday 为 time.Weekday 的整数值，0=周日）
type WeekdayTotal struct {
	Weekday int             `json:"weekday"`
	Total   decimal.Decimal `json:"total"`
	// Days 该星期几在范围内出现的天数，用于计算日均
	Days int64 `json:"days"`
}

// MonthTotal 某年按月分组的销售合计
type MonthTotal struct {
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// ChannelTypeTotal 按渠道类型分组的销售合计
type ChannelTypeTotal struct {
	ChannelType string          `json:"channel_type"`
	Total       decimal.Decimal `json:"total"`
}

// SalesAnalytics 只读聚合查询，由持久层以 GROUP BY 实现。
type SalesAnalytics interface {
	TotalsByWeekday(ctx context.Context, start, end time.Time) ([]WeekdayTotal, error)
	TotalsByMonth(ctx context.Context, year int) ([]MonthTotal, error)
	TotalsByChannelType(ctx context.Context, start, end time.Time) ([]ChannelTypeTotal, error)
	TotalForChannel(ctx context.Context, channelID string, start, end time.Time) (decimal.Decimal, error)
}
