package domain

import "time"

const (
	// DailySaleRecordedEventType 销售录入事件，异常检测服务订阅该主题。
	DailySaleRecordedEventType = "sales.daily.recorded"
	TargetSetEventType         = "sales.target.set"
)

// DailySaleRecordedEvent 销售录入事件
type DailySaleRecordedEvent struct {
	ChannelID    string    `json:"channel_id"`
	SubChannelID string    `json:"sub_channel_id,omitempty"`
	Date         string    `json:"date"`
	Amount       string    `json:"amount"`
	OrderCount   int       `json:"order_count"`
	OccurredOn   time.Time `json:"occurred_on"`
}

// TargetSetEvent 销售目标设定事件
type TargetSetEvent struct {
	ChannelID    string    `json:"channel_id"`
	Year         int       `json:"year"`
	Month        int       `json:"month"`
	TargetAmount string    `json:"target_amount"`
	OccurredOn   time.Time `json:"occurred_on"`
}
