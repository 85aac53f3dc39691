package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/salesanalytics/internal/sales/domain"
	"gorm.io/gorm"
)

// DailySaleModel MySQL 日销售表映射
// (channel_id, sub_channel_id, date) 唯一，重复录入走 upsert。
type DailySaleModel struct {
	gorm.Model
	ChannelID    string          `gorm:"column:channel_id;type:varchar(32);uniqueIndex:idx_daily_sale_key;not null"`
	SubChannelID string          `gorm:"column:sub_channel_id;type:varchar(32);uniqueIndex:idx_daily_sale_key;not null;default:''"`
	Date         time.Time       `gorm:"column:date;type:date;uniqueIndex:idx_daily_sale_key;index;not null"`
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null"`
	OrderCount   int             `gorm:"column:order_count;default:0"`
}

func (DailySaleModel) TableName() string { return "daily_sales" }

// SalesTargetModel MySQL 销售目标表映射，month 为 0 表示年度目标。
type SalesTargetModel struct {
	gorm.Model
	ChannelID    string          `gorm:"column:channel_id;type:varchar(32);uniqueIndex:idx_sales_target_key;not null"`
	Year         int             `gorm:"column:year;uniqueIndex:idx_sales_target_key;not null"`
	Month        int             `gorm:"column:month;uniqueIndex:idx_sales_target_key;not null;default:0"`
	TargetAmount decimal.Decimal `gorm:"column:target_amount;type:decimal(20,2);not null"`
}

func (SalesTargetModel) TableName() string { return "sales_targets" }

// --- mapping helpers ---

func toDailySaleModel(s *domain.DailySale) *DailySaleModel {
	if s == nil {
		return nil
	}
	model := &DailySaleModel{
		ChannelID:    s.ChannelID,
		SubChannelID: s.SubChannelID,
		Date:         s.Date,
		Amount:       s.Amount,
		OrderCount:   s.OrderCount,
	}
	model.ID = s.ID
	return model
}

func toDailySale(m *DailySaleModel) *domain.DailySale {
	if m == nil {
		return nil
	}
	return &domain.DailySale{
		ID:           m.ID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		ChannelID:    m.ChannelID,
		SubChannelID: m.SubChannelID,
		Date:         m.Date,
		Amount:       m.Amount,
		OrderCount:   m.OrderCount,
	}
}

func toSalesTargetModel(t *domain.SalesTarget) *SalesTargetModel {
	if t == nil {
		return nil
	}
	model := &SalesTargetModel{
		ChannelID:    t.ChannelID,
		Year:         t.Year,
		Month:        t.Month,
		TargetAmount: t.TargetAmount,
	}
	model.ID = t.ID
	return model
}

func toSalesTarget(m *SalesTargetModel) *domain.SalesTarget {
	if m == nil {
		return nil
	}
	return &domain.SalesTarget{
		ID:           m.ID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		ChannelID:    m.ChannelID,
		Year:         m.Year,
		Month:        m.Month,
		TargetAmount: m.TargetAmount,
	}
}
