package domain

import "time"

const (
	AnomalyDetectedEventType  = "anomaly.detected"
	AnomalyDismissedEventType = "anomaly.dismissed"
)

// AnomalyDetectedEvent 检测任务持久化新异常后发布
type AnomalyDetectedEvent struct {
	AnomalyID    string    `json:"anomaly_id"`
	ChannelID    string    `json:"channel_id"`
	ChannelName  string    `json:"channel_name"`
	Type         string    `json:"type"`
	Severity     string    `json:"severity"`
	Message      string    `json:"message"`
	VariationPct string    `json:"variation_percentage"`
	DetectedAt   time.Time `json:"detected_at"`
	OccurredOn   time.Time `json:"occurred_on"`
}

// AnomalyDismissedEvent 用户关闭异常后发布
type AnomalyDismissedEvent struct {
	AnomalyID   string    `json:"anomaly_id"`
	ChannelID   string    `json:"channel_id"`
	DismissedBy string    `json:"dismissed_by"`
	DismissedAt time.Time `json:"dismissed_at"`
	OccurredOn  time.Time `json:"occurred_on"`
}
