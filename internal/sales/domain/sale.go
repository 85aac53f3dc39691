// Package domain 销售录入与目标的领域模型
package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeAmount 销售金额不允许为负
	ErrNegativeAmount = errors.New("sale amount must not be negative")
	// ErrTargetNotFound 销售目标不存在
	ErrTargetNotFound = errors.New("sales target not found")
)

// DailySale 某渠道某自然日的销售记录
// 同一 (channel, sub_channel, date) 只有一条逻辑记录，重复录入为修正（upsert）。
type DailySale struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ChannelID string    `json:"channel_id"`
	// SubChannelID 可为空，表示渠道级汇总录入
	SubChannelID string          `json:"sub_channel_id"`
	Date         time.Time       `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	OrderCount   int             `json:"order_count"`
}

// Validate 校验销售记录的业务约束。
func (s *DailySale) Validate() error {
	if s.ChannelID == "" {
		return errors.New("channel id is required")
	}
	if s.Date.IsZero() {
		return errors.New("date is required")
	}
	if s.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if s.OrderCount < 0 {
		return errors.New("order count must not be negative")
	}
	return nil
}

// SalesTarget 渠道销售目标，Month 为 0 表示年度目标。
type SalesTarget struct {
	ID           uint            `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	ChannelID    string          `json:"channel_id"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	TargetAmount decimal.Decimal `json:"target_amount"`
}

// Validate 校验销售目标的业务约束。
func (t *SalesTarget) Validate() error {
	if t.ChannelID == "" {
		return errors.New("channel id is required")
	}
	if t.Year < 2000 || t.Year > 2200 {
		return errors.New("invalid year")
	}
	if t.Month < 0 || t.Month > 12 {
		return errors.New("invalid month")
	}
	if t.TargetAmount.IsNegative() {
		return errors.New("target amount must not be negative")
	}
	return nil
}

// DateOf 归一化到 UTC 零点，日粒度数据统一以此为键。
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
