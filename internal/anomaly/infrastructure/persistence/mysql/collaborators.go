package mysql

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/salesanalytics/internal/anomaly/domain"
	"gorm.io/gorm"
)

// 渠道目录与销售数据协作方的只读实现。
// 检测服务与渠道/销售服务共享同一托管数据库，这里直接读对方的表，不经过其服务接口。

type channelCatalog struct {
	db *gorm.DB
}

func NewChannelCatalog(db *gorm.DB) domain.ChannelCatalog {
	return &channelCatalog{db: db}
}

func (c *channelCatalog) ListActive(ctx context.Context) ([]domain.ActiveChannel, error) {
	var rows []struct {
		ChannelID string
		Name      string
	}
	if err := c.db.WithContext(ctx).
		Table("channels").
		Select("channel_id", "name").
		Where("active = ?", true).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	channels := make([]domain.ActiveChannel, len(rows))
	for i, row := range rows {
		channels[i] = domain.ActiveChannel{ID: row.ChannelID, Name: row.Name}
	}
	return channels, nil
}

type salesSource struct {
	db *gorm.DB
}

func NewSalesSource(db *gorm.DB) domain.SalesSource {
	return &salesSource{db: db}
}

// ListInRange 返回区间内逐渠道逐日销售额，子渠道行合并到渠道粒度。
func (s *salesSource) ListInRange(ctx context.Context, start, end time.Time) ([]domain.DailySale, error) {
	var rows []struct {
		ChannelID string
		Date      time.Time
		Amount    string
	}
	if err := s.db.WithContext(ctx).
		Table("daily_sales").
		Select("channel_id, date, SUM(amount) AS amount").
		Where("date >= ? AND date <= ?", domain.DateOf(start), domain.DateOf(end)).
		Group("channel_id, date").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	sales := make([]domain.DailySale, len(rows))
	for i, row := range rows {
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			return nil, err
		}
		sales[i] = domain.DailySale{ChannelID: row.ChannelID, Date: row.Date, Amount: amount}
	}
	return sales, nil
}
