package domain

import (
	"errors"
	"time"
)

// ChannelType 渠道类型（封闭集合）
type ChannelType string

const (
	ChannelTypeMarketplace ChannelType = "marketplace"
	ChannelTypeStorefront  ChannelType = "storefront"
	ChannelTypeSocial      ChannelType = "social"
)

// ValidChannelType 校验渠道类型合法性。
func ValidChannelType(t ChannelType) bool {
	switch t {
	case ChannelTypeMarketplace, ChannelTypeStorefront, ChannelTypeSocial:
		return true
	}
	return false
}

var (
	// ErrChannelNotFound 渠道不存在
	ErrChannelNotFound = errors.New("channel not found")
)

// Channel 销售渠道实体
// 归档（Active=false）后不再参与异常检测，历史销售数据保留。
type Channel struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// ChannelID 业务主键，形如 CH-<snowflake>
	ChannelID string      `json:"channel_id"`
	Name      string      `json:"name"`
	Type      ChannelType `json:"type"`
	Active    bool        `json:"active"`
}

// SubChannel 子渠道实体（如同一市场平台下的不同店铺）
type SubChannel struct {
	ID           uint      `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	SubChannelID string    `json:"sub_channel_id"`
	ChannelID    string    `json:"channel_id"`
	Name         string    `json:"name"`
	Active       bool      `json:"active"`
}
