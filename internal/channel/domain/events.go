package domain

import "time"

const (
	ChannelCreatedEventType  = "channel.created"
	ChannelUpdatedEventType  = "channel.updated"
	ChannelArchivedEventType = "channel.archived"
)

// ChannelCreatedEvent 渠道创建事件
type ChannelCreatedEvent struct {
	ChannelID  string    `json:"channel_id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	CreatedAt  int64     `json:"created_at"`
	OccurredOn time.Time `json:"occurred_on"`
}

// ChannelUpdatedEvent 渠道更新事件
type ChannelUpdatedEvent struct {
	ChannelID  string    `json:"channel_id"`
	OldName    string    `json:"old_name"`
	NewName    string    `json:"new_name"`
	OldType    string    `json:"old_type"`
	NewType    string    `json:"new_type"`
	UpdatedAt  int64     `json:"updated_at"`
	OccurredOn time.Time `json:"occurred_on"`
}

// ChannelArchivedEvent 渠道归档事件
type ChannelArchivedEvent struct {
	ChannelID  string    `json:"channel_id"`
	Name       string    `json:"name"`
	ArchivedAt int64     `json:"archived_at"`
	OccurredOn time.Time `json:"occurred_on"`
}
