package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// AnomalyType 异常类型（封闭集合，序列化为字符串存储）
type AnomalyType string

const (
	TypeAbruptDrop AnomalyType = "ABRUPT_DROP"
	TypeSalesSpike AnomalyType = "SALES_SPIKE"
	TypeNoSales    AnomalyType = "NO_SALES"
	// TypeGoalFar 预留类型：检测规则尚未产出该类型，仅保留在类型集合中。
	TypeGoalFar AnomalyType = "GOAL_FAR"
)

// Severity 异常严重级别
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityInfo     Severity = "INFO"
)

var (
	// ErrAnomalyNotFound 目标异常记录不存在
	ErrAnomalyNotFound = errors.New("anomaly not found")
	// ErrDuplicateAnomaly 同一 (channel, type, detected_at) 已存在持久化记录
	ErrDuplicateAnomaly = errors.New("anomaly already recorded for channel/type/day")
)

// DetectedAnomaly 检测阶段产出的候选异常（未持久化）
type DetectedAnomaly struct {
	ChannelID    string
	ChannelName  string
	Type         AnomalyType
	Severity     Severity
	Message      string
	CurrentValue decimal.Decimal
	// ExpectedValue 渠道 30 天基线均值
	ExpectedValue decimal.Decimal
	VariationPct  decimal.Decimal
	// DetectedAt 被评估的销售日（相对运行时刻的"昨天"）
	DetectedAt time.Time
}

// Key 去重标识
func (d DetectedAnomaly) Key() AnomalyKey {
	return AnomalyKey{ChannelID: d.ChannelID, Type: d.Type, DetectedAt: DateOf(d.DetectedAt)}
}

// AnomalyKey 持久化去重键 (channel, type, detected_at)
type AnomalyKey struct {
	ChannelID  string
	Type       AnomalyType
	DetectedAt time.Time
}

// Anomaly 持久化异常实体
// 生命周期：检测任务创建后不再变更，仅允许一次性设置 dismissed_at（软删除）。
type Anomaly struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// AnomalyID 业务主键，形如 ANM-<snowflake>
	AnomalyID     string          `json:"anomaly_id"`
	ChannelID     string          `json:"channel_id"`
	ChannelName   string          `json:"channel_name"`
	Type          AnomalyType     `json:"type"`
	Severity      Severity        `json:"severity"`
	Message       string          `json:"message"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	ExpectedValue decimal.Decimal `json:"expected_value"`
	VariationPct  decimal.Decimal `json:"variation_percentage"`
	DetectedAt    time.Time       `json:"detected_at"`
	DismissedAt   *time.Time      `json:"dismissed_at,omitempty"`
	DismissedBy   string          `json:"dismissed_by,omitempty"`
}

// Dismissed 是否已被用户关闭
func (a *Anomaly) Dismissed() bool {
	return a.DismissedAt != nil
}

// Key 去重标识
func (a *Anomaly) Key() AnomalyKey {
	return AnomalyKey{ChannelID: a.ChannelID, Type: a.Type, DetectedAt: DateOf(a.DetectedAt)}
}

// SeverityCounts 按严重级别的聚合计数
type SeverityCounts struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Info     int `json:"info"`
}

// CountBySeverity 对异常列表做纯聚合统计。
func CountBySeverity(anomalies []*Anomaly) SeverityCounts {
	counts := SeverityCounts{Total: len(anomalies)}
	for _, a := range anomalies {
		switch a.Severity {
		case SeverityCritical:
			counts.Critical++
		case SeverityHigh:
			counts.High++
		case SeverityMedium:
			counts.Medium++
		case SeverityInfo:
			counts.Info++
		}
	}
	return counts
}

// DateOf 归一化到日粒度（UTC 零点）。检测与去重均以日为单位比较。
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
