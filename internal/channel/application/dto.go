package application

import (
	"time"

	"github.com/wyfcoding/salesanalytics/internal/channel/domain"
)

// CreateChannelCommand 创建渠道命令
type CreateChannelCommand struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// UpdateChannelCommand 更新渠道命令
type UpdateChannelCommand struct {
	ChannelID string `json:"channel_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
}

// ArchiveChannelCommand 归档渠道命令
type ArchiveChannelCommand struct {
	ChannelID string `json:"channel_id"`
}

// CreateSubChannelCommand 创建子渠道命令
type CreateSubChannelCommand struct {
	ChannelID string `json:"channel_id"`
	Name      string `json:"name"`
}

// ChannelDTO 渠道对外表示
type ChannelDTO struct {
	ChannelID string    `json:"channel_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// SubChannelDTO 子渠道对外表示
type SubChannelDTO struct {
	SubChannelID string    `json:"sub_channel_id"`
	ChannelID    string    `json:"channel_id"`
	Name         string    `json:"name"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

func toChannelDTO(c *domain.Channel) ChannelDTO {
	return ChannelDTO{
		ChannelID: c.ChannelID,
		Name:      c.Name,
		Type:      string(c.Type),
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
	}
}

func toSubChannelDTO(s *domain.SubChannel) SubChannelDTO {
	return SubChannelDTO{
		SubChannelID: s.SubChannelID,
		ChannelID:    s.ChannelID,
		Name:         s.Name,
		Active:       s.Active,
		CreatedAt:    s.CreatedAt,
	}
}
