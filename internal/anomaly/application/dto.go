package application

import (
	"time"

	"github.com/wyfcoding/salesanalytics/internal/anomaly/domain"
)

// AnomalyDTO 持久化异常的对外表示。金额与百分比以字符串传输避免精度损失。
type AnomalyDTO struct {
	AnomalyID     string     `json:"anomaly_id"`
	ChannelID     string     `json:"channel_id"`
	ChannelName   string     `json:"channel_name"`
	Type          string     `json:"type"`
	Severity      string     `json:"severity"`
	Message       string     `json:"message"`
	CurrentValue  string     `json:"current_value"`
	ExpectedValue string     `json:"expected_value"`
	VariationPct  string     `json:"variation_percentage"`
	DetectedAt    string     `json:"detected_at"`
	CreatedAt     time.Time  `json:"created_at"`
	DismissedAt   *time.Time `json:"dismissed_at,omitempty"`
	DismissedBy   string     `json:"dismissed_by,omitempty"`
}

// DetectedAnomalyDTO 实时预览产出的候选异常（未持久化，无业务主键）。
type DetectedAnomalyDTO struct {
	ChannelID     string `json:"channel_id"`
	ChannelName   string `json:"channel_name"`
	Type          string `json:"type"`
	Severity      string `json:"severity"`
	Message       string `json:"message"`
	CurrentValue  string `json:"current_value"`
	ExpectedValue string `json:"expected_value"`
	VariationPct  string `json:"variation_percentage"`
	DetectedAt    string `json:"detected_at"`
}

// RunSummary 一次批量检测的执行摘要。
type RunSummary struct {
	ProcessedChannels int `json:"processed_channels"`
	DetectedAnomalies int `json:"detected_anomalies"`
	NewAnomalies      int `json:"new_anomalies"`
}

// SummaryDTO 按严重级别的活跃异常计数。
type SummaryDTO struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Info     int `json:"info"`
}

const dateLayout = "2006-01-02"

func toAnomalyDTO(a *domain.Anomaly) AnomalyDTO {
	return AnomalyDTO{
		AnomalyID:     a.AnomalyID,
		ChannelID:     a.ChannelID,
		ChannelName:   a.ChannelName,
		Type:          string(a.Type),
		Severity:      string(a.Severity),
		Message:       a.Message,
		CurrentValue:  a.CurrentValue.String(),
		ExpectedValue: a.ExpectedValue.String(),
		VariationPct:  a.VariationPct.String(),
		DetectedAt:    a.DetectedAt.Format(dateLayout),
		CreatedAt:     a.CreatedAt,
		DismissedAt:   a.DismissedAt,
		DismissedBy:   a.DismissedBy,
	}
}

func toDetectedAnomalyDTO(d domain.DetectedAnomaly) DetectedAnomalyDTO {
	return DetectedAnomalyDTO{
		ChannelID:     d.ChannelID,
		ChannelName:   d.ChannelName,
		Type:          string(d.Type),
		Severity:      string(d.Severity),
		Message:       d.Message,
		CurrentValue:  d.CurrentValue.String(),
		ExpectedValue: d.ExpectedValue.String(),
		VariationPct:  d.VariationPct.String(),
		DetectedAt:    d.DetectedAt.Format(dateLayout),
	}
}
