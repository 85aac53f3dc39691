package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/salesanalytics/internal/sales/domain"
)

type fakeAnalytics struct {
	weekday     []domain.WeekdayTotal
	months      []domain.MonthTotal
	types       []domain.ChannelTypeTotal
	channelSums map[string]decimal.Decimal
}

func (f *fakeAnalytics) TotalsByWeekday(_ context.Context, _, _ time.Time) ([]domain.WeekdayTotal, error) {
	return f.weekday, nil
}

func (f *fakeAnalytics) TotalsByMonth(_ context.Context, _ int) ([]domain.MonthTotal, error) {
	return f.months, nil
}

func (f *fakeAnalytics) TotalsByChannelType(_ context.Context, _, _ time.Time) ([]domain.ChannelTypeTotal, error) {
	return f.types, nil
}

func (f *fakeAnalytics) TotalForChannel(_ context.Context, channelID string, _, _ time.Time) (decimal.Decimal, error) {
	return f.channelSums[channelID], nil
}

type fakeSalesRepo struct {
	sales   map[string]*domain.DailySale
	targets map[string]*domain.SalesTarget
}

func newFakeSalesRepo() *fakeSalesRepo {
	return &fakeSalesRepo{
		sales:   make(map[string]*domain.DailySale),
		targets: make(map[string]*domain.SalesTarget),
	}
}

func saleKey(s *domain.DailySale) string {
	return fmt.Sprintf("%s|%s|%s", s.ChannelID, s.SubChannelID, s.Date.Format("2006-01-02"))
}

func targetKey(channelID string, year, month int) string {
	return fmt.Sprintf("%s|%d|%d", channelID, year, month)
}

func (f *fakeSalesRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeSalesRepo) UpsertDailySale(_ context.Context, sale *domain.DailySale) error {
	copied := *sale
	f.sales[saleKey(sale)] = &copied
	return nil
}

func (f *fakeSalesRepo) ListInRange(_ context.Context, start, end time.Time) ([]*domain.DailySale, error) {
	var out []*domain.DailySale
	for _, s := range f.sales {
		if !s.Date.Before(start) && s.Date.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSalesRepo) UpsertTarget(_ context.Context, target *domain.SalesTarget) error {
	copied := *target
	f.targets[targetKey(target.ChannelID, target.Year, target.Month)] = &copied
	return nil
}

func (f *fakeSalesRepo) GetTarget(_ context.Context, channelID string, year, month int) (*domain.SalesTarget, error) {
	t, ok := f.targets[targetKey(channelID, year, month)]
	if !ok {
		return nil, domain.ErrTargetNotFound
	}
	return t, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWeekdayPerformanceComputesDailyAverage(t *testing.T) {
	analytics := &fakeAnalytics{
		weekday: []domain.WeekdayTotal{
			{Weekday: int(time.Monday), Total: dec("4000"), Days: 4},
			{Weekday: int(time.Saturday), Total: dec("9000"), Days: 4},
		},
	}
	query := NewSalesQueryService(newFakeSalesRepo(), analytics)

	result, err := query.WeekdayPerformance(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "Monday", result[0].Weekday)
	assert.Equal(t, "1000", result[0].DailyAverage)
	assert.Equal(t, "Saturday", result[1].Weekday)
	assert.Equal(t, "2250", result[1].DailyAverage)
}

func TestMonthlySeasonalityIndexAgainstMean(t *testing.T) {
	analytics := &fakeAnalytics{
		months: []domain.MonthTotal{
			{Month: 1, Total: dec("700")},
			{Month: 2, Total: dec("1300")},
		},
	}
	query := NewSalesQueryService(newFakeSalesRepo(), analytics)

	result, err := query.MonthlySeasonality(context.Background(), 2026)
	require.NoError(t, err)
	require.Len(t, result, 2)

	// 均值 1000：1 月 70，2 月 130
	assert.Equal(t, "70", result[0].IndexPct)
	assert.Equal(t, "130", result[1].IndexPct)
}

func TestAttributionSharesSumToHundred(t *testing.T) {
	analytics := &fakeAnalytics{
		types: []domain.ChannelTypeTotal{
			{ChannelType: "marketplace", Total: dec("6000")},
			{ChannelType: "social", Total: dec("4000")},
		},
	}
	query := NewSalesQueryService(newFakeSalesRepo(), analytics)

	result, err := query.Attribution(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "60", result[0].SharePct)
	assert.Equal(t, "40", result[1].SharePct)
}

func TestAttributionEmptyRangeYieldsNoShares(t *testing.T) {
	query := NewSalesQueryService(newFakeSalesRepo(), &fakeAnalytics{})

	result, err := query.Attribution(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestTargetAttainment(t *testing.T) {
	repo := newFakeSalesRepo()
	require.NoError(t, repo.UpsertTarget(context.Background(), &domain.SalesTarget{
		ChannelID:    "CH-1",
		Year:         2026,
		Month:        3,
		TargetAmount: dec("10000"),
	}))
	analytics := &fakeAnalytics{channelSums: map[string]decimal.Decimal{"CH-1": dec("7500")}}
	query := NewSalesQueryService(repo, analytics)

	result, err := query.TargetAttainment(context.Background(), "CH-1", 2026, 3)
	require.NoError(t, err)
	assert.Equal(t, "10000", result.Target)
	assert.Equal(t, "7500", result.Actual)
	assert.Equal(t, "75", result.AttainmentPct)
}

func TestTargetAttainmentMissingTarget(t *testing.T) {
	query := NewSalesQueryService(newFakeSalesRepo(), &fakeAnalytics{})

	_, err := query.TargetAttainment(context.Background(), "CH-404", 2026, 3)
	assert.ErrorIs(t, err, domain.ErrTargetNotFound)
}

func TestRecordDailySaleUpsertsSameKey(t *testing.T) {
	repo := newFakeSalesRepo()
	command := NewSalesCommandService(repo, nil)

	first, err := command.RecordDailySale(context.Background(), RecordDailySaleCommand{
		ChannelID:  "CH-1",
		Date:       "2026-03-14",
		Amount:     "1200.50",
		OrderCount: 30,
	})
	require.NoError(t, err)
	require.Len(t, repo.sales, 1)

	// 同键重复录入为修正，不产生第二条记录
	_, err = command.RecordDailySale(context.Background(), RecordDailySaleCommand{
		ChannelID:  "CH-1",
		Date:       "2026-03-14",
		Amount:     "1500.00",
		OrderCount: 35,
	})
	require.NoError(t, err)
	require.Len(t, repo.sales, 1)

	stored := repo.sales[saleKey(first)]
	assert.True(t, stored.Amount.Equal(dec("1500.00")))
	assert.Equal(t, 35, stored.OrderCount)
}

func TestRecordDailySaleRejectsNegativeAmount(t *testing.T) {
	command := NewSalesCommandService(newFakeSalesRepo(), nil)

	_, err := command.RecordDailySale(context.Background(), RecordDailySaleCommand{
		ChannelID: "CH-1",
		Date:      "2026-03-14",
		Amount:    "-10",
	})
	assert.ErrorIs(t, err, domain.ErrNegativeAmount)
}
