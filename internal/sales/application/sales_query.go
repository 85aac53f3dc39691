package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/salesanalytics/internal/sales/domain"
)

var hundred = decimal.NewFromInt(100)

// SalesQueryService 处理销售数据的只读分析查询
// 分组聚合在持久层完成，百分比与均值运算在这里用 decimal 收口。
type SalesQueryService struct {
	repo      domain.SalesRepository
	analytics domain.SalesAnalytics
}

func NewSalesQueryService(repo domain.SalesRepository, analytics domain.SalesAnalytics) *SalesQueryService {
	return &SalesQueryService{
		repo:      repo,
		analytics: analytics,
	}
}

// ListSales 返回 [start, end) 内的销售记录。
func (q *SalesQueryService) ListSales(ctx context.Context, start, end time.Time) ([]DailySaleDTO, error) {
	sales, err := q.repo.ListInRange(ctx, domain.DateOf(start), domain.DateOf(end))
	if err != nil {
		return nil, err
	}
	dtos := make([]DailySaleDTO, len(sales))
	for i, s := range sales {
		dtos[i] = toDailySaleDTO(s)
	}
	return dtos, nil
}

// WeekdayPerformance 按星期几统计范围内的合计与日均。
func (q *SalesQueryService) WeekdayPerformance(ctx context.Context, start, end time.Time) ([]WeekdayPerformanceDTO, error) {
	totals, err := q.analytics.TotalsByWeekday(ctx, domain.DateOf(start), domain.DateOf(end))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by weekday: %w", err)
	}

	dtos := make([]WeekdayPerformanceDTO, len(totals))
	for i, t := range totals {
		average := decimal.Zero
		if t.Days > 0 {
			average = t.Total.Div(decimal.NewFromInt(t.Days)).Round(2)
		}
		dtos[i] = WeekdayPerformanceDTO{
			Weekday:      time.Weekday(t.Weekday).String(),
			Total:        t.Total.String(),
			Days:         t.Days,
			DailyAverage: average.String(),
		}
	}
	return dtos, nil
}

// MonthlySeasonality 某年按月合计，并给出相对年均值的指数（100 = 平均月份）。
func (q *SalesQueryService) MonthlySeasonality(ctx context.Context, year int) ([]SeasonalityDTO, error) {
	totals, err := q.analytics.TotalsByMonth(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by month: %w", err)
	}

	annual := decimal.Zero
	for _, t := range totals {
		annual = annual.Add(t.Total)
	}
	monthlyMean := decimal.Zero
	if len(totals) > 0 {
		monthlyMean = annual.Div(decimal.NewFromInt(int64(len(totals))))
	}

	dtos := make([]SeasonalityDTO, len(totals))
	for i, t := range totals {
		index := decimal.Zero
		if !monthlyMean.IsZero() {
			index = t.Total.Div(monthlyMean).Mul(hundred).Round(2)
		}
		dtos[i] = SeasonalityDTO{
			Month:    t.Month,
			Total:    t.Total.String(),
			IndexPct: index.String(),
		}
	}
	return dtos, nil
}

// Attribution 按渠道类型统计范围内的销售占比。
func (q *SalesQueryService) Attribution(ctx context.Context, start, end time.Time) ([]AttributionDTO, error) {
	totals, err := q.analytics.TotalsByChannelType(ctx, domain.DateOf(start), domain.DateOf(end))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by channel type: %w", err)
	}

	grandTotal := decimal.Zero
	for _, t := range totals {
		grandTotal = grandTotal.Add(t.Total)
	}

	dtos := make([]AttributionDTO, len(totals))
	for i, t := range totals {
		share := decimal.Zero
		if !grandTotal.IsZero() {
			share = t.Total.Div(grandTotal).Mul(hundred).Round(2)
		}
		dtos[i] = AttributionDTO{
			ChannelType: t.ChannelType,
			Total:       t.Total.String(),
			SharePct:    share.String(),
		}
	}
	return dtos, nil
}

// TargetAttainment 某渠道某年某月（Month 为 0 表示全年）的目标达成情况。
func (q *SalesQueryService) TargetAttainment(ctx context.Context, channelID string, year, month int) (*AttainmentDTO, error) {
	target, err := q.repo.GetTarget(ctx, channelID, year, month)
	if err != nil {
		if errors.Is(err, domain.ErrTargetNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load target: %w", err)
	}

	start, end := targetPeriod(year, month)
	actual, err := q.analytics.TotalForChannel(ctx, channelID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to sum sales for channel %s: %w", channelID, err)
	}

	pct := decimal.Zero
	if !target.TargetAmount.IsZero() {
		pct = actual.Div(target.TargetAmount).Mul(hundred).Round(2)
	}

	return &AttainmentDTO{
		ChannelID:     channelID,
		Year:          year,
		Month:         month,
		Target:        target.TargetAmount.String(),
		Actual:        actual.String(),
		AttainmentPct: pct.String(),
	}, nil
}

// targetPeriod 目标覆盖的日期区间 [start, end)。
func targetPeriod(year, month int) (time.Time, time.Time) {
	if month == 0 {
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
