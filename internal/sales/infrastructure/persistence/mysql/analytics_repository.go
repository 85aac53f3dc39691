package mysql

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/salesanalytics/internal/sales/domain"
	"gorm.io/gorm"
)

// salesAnalytics 只读聚合查询的 MySQL 实现
type salesAnalytics struct {
	db *gorm.DB
}

func NewSalesAnalytics(db *gorm.DB) domain.SalesAnalytics {
	return &salesAnalytics{db: db}
}

func (r *salesAnalytics) TotalsByWeekday(ctx context.Context, start, end time.Time) ([]domain.WeekdayTotal, error) {
	// DAYOFWEEK 以 1=周日计数，减 1 对齐 time.Weekday
	var rows []domain.WeekdayTotal
	err := r.db.WithContext(ctx).
		Model(&DailySaleModel{}).
		Select("DAYOFWEEK(date) - 1 AS weekday, SUM(amount) AS total, COUNT(DISTINCT date) AS days").
		Where("date >= ? AND date < ?", start, end).
		Group("DAYOFWEEK(date)").
		Order("weekday asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *salesAnalytics) TotalsByMonth(ctx context.Context, year int) ([]domain.MonthTotal, error) {
	var rows []domain.MonthTotal
	err := r.db.WithContext(ctx).
		Model(&DailySaleModel{}).
		Select("MONTH(date) AS month, SUM(amount) AS total").
		Where("YEAR(date) = ?", year).
		Group("MONTH(date)").
		Order("month asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *salesAnalytics) TotalsByChannelType(ctx context.Context, start, end time.Time) ([]domain.ChannelTypeTotal, error) {
	var rows []domain.ChannelTypeTotal
	err := r.db.WithContext(ctx).
		Model(&DailySaleModel{}).
		Select("channels.type AS channel_type, SUM(daily_sales.amount) AS total").
		Joins("JOIN channels ON channels.channel_id = daily_sales.channel_id").
		Where("daily_sales.date >= ? AND daily_sales.date < ?", start, end).
		Group("channels.type").
		Order("total desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *salesAnalytics) TotalForChannel(ctx context.Context, channelID string, start, end time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&DailySaleModel{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("channel_id = ? AND date >= ? AND date < ?", channelID, start, end).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
