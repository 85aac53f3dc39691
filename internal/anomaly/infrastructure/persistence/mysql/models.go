package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/salesanalytics/internal/anomaly/domain"
	"gorm.io/gorm"
)

// AnomalyModel 异常日志数据库模型
// (channel_id, type, detected_at) 唯一索引兜底并发批次的先检查后插入竞争。
type AnomalyModel struct {
	gorm.Model
	AnomalyID     string     `gorm:"column:anomaly_id;type:varchar(32);uniqueIndex;not null"`
	ChannelID     string     `gorm:"column:channel_id;type:varchar(32);uniqueIndex:idx_anomaly_key;not null"`
	ChannelName   string     `gorm:"column:channel_name;type:varchar(100);not null"`
	Type          string     `gorm:"column:type;type:varchar(20);uniqueIndex:idx_anomaly_key;not null"`
	Severity      string     `gorm:"column:severity;type:varchar(20);not null"`
	Message       string     `gorm:"column:message;type:text"`
	CurrentValue  string     `gorm:"column:current_value;type:decimal(18,2);not null"`
	ExpectedValue string     `gorm:"column:expected_value;type:decimal(18,2);not null"`
	VariationPct  string     `gorm:"column:variation_percentage;type:decimal(10,4);not null"`
	DetectedAt    time.Time  `gorm:"column:detected_at;type:date;uniqueIndex:idx_anomaly_key;index;not null"`
	DismissedAt   *time.Time `gorm:"column:dismissed_at;index"`
	DismissedBy   string     `gorm:"column:dismissed_by;type:varchar(64)"`
}

func (AnomalyModel) TableName() string { return "sales_anomalies" }

// mapping helpers

func toAnomalyModel(a *domain.Anomaly) *AnomalyModel {
	if a == nil {
		return nil
	}
	return &AnomalyModel{
		Model: gorm.Model{
			ID:        a.ID,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		},
		AnomalyID:     a.AnomalyID,
		ChannelID:     a.ChannelID,
		ChannelName:   a.ChannelName,
		Type:          string(a.Type),
		Severity:      string(a.Severity),
		Message:       a.Message,
		CurrentValue:  a.CurrentValue.String(),
		ExpectedValue: a.ExpectedValue.String(),
		VariationPct:  a.VariationPct.String(),
		DetectedAt:    a.DetectedAt,
		DismissedAt:   a.DismissedAt,
		DismissedBy:   a.DismissedBy,
	}
}

func toAnomaly(m *AnomalyModel) (*domain.Anomaly, error) {
	if m == nil {
		return nil, nil
	}
	current, err := decimal.NewFromString(m.CurrentValue)
	if err != nil {
		return nil, err
	}
	expected, err := decimal.NewFromString(m.ExpectedValue)
	if err != nil {
		return nil, err
	}
	variation, err := decimal.NewFromString(m.VariationPct)
	if err != nil {
		return nil, err
	}
	return &domain.Anomaly{
		ID:            m.ID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		AnomalyID:     m.AnomalyID,
		ChannelID:     m.ChannelID,
		ChannelName:   m.ChannelName,
		Type:          domain.AnomalyType(m.Type),
		Severity:      domain.Severity(m.Severity),
		Message:       m.Message,
		CurrentValue:  current,
		ExpectedValue: expected,
		VariationPct:  variation,
		DetectedAt:    m.DetectedAt,
		DismissedAt:   m.DismissedAt,
		DismissedBy:   m.DismissedBy,
	}, nil
}
