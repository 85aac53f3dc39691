package mysql

import (
	"github.com/wyfcoding/salesanalytics/internal/channel/domain"
	"gorm.io/gorm"
)

// ChannelModel MySQL 渠道表映射
type ChannelModel struct {
	gorm.Model
	ChannelID string `gorm:"column:channel_id;type:varchar(32);uniqueIndex;not null"`
	Name      string `gorm:"column:name;type:varchar(100);not null"`
	Type      string `gorm:"column:type;type:varchar(20);not null"`
	Active    bool   `gorm:"column:active;default:true;index"`
}

func (ChannelModel) TableName() string { return "channels" }

// SubChannelModel MySQL 子渠道表映射
type SubChannelModel struct {
	gorm.Model
	SubChannelID string `gorm:"column:sub_channel_id;type:varchar(32);uniqueIndex;not null"`
	ChannelID    string `gorm:"column:channel_id;type:varchar(32);index;not null"`
	Name         string `gorm:"column:name;type:varchar(100);not null"`
	Active       bool   `gorm:"column:active;default:true"`
}

func (SubChannelModel) TableName() string { return "sub_channels" }

// --- mapping helpers ---

func toChannelModel(c *domain.Channel) *ChannelModel {
	if c == nil {
		return nil
	}
	model := &ChannelModel{
		ChannelID: c.ChannelID,
		Name:      c.Name,
		Type:      string(c.Type),
		Active:    c.Active,
	}
	model.ID = c.ID
	return model
}

func toChannel(m *ChannelModel) *domain.Channel {
	if m == nil {
		return nil
	}
	return &domain.Channel{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		ChannelID: m.ChannelID,
		Name:      m.Name,
		Type:      domain.ChannelType(m.Type),
		Active:    m.Active,
	}
}

func toSubChannelModel(s *domain.SubChannel) *SubChannelModel {
	if s == nil {
		return nil
	}
	model := &SubChannelModel{
		SubChannelID: s.SubChannelID,
		ChannelID:    s.ChannelID,
		Name:         s.Name,
		Active:       s.Active,
	}
	model.ID = s.ID
	return model
}

func toSubChannel(m *SubChannelModel) *domain.SubChannel {
	if m == nil {
		return nil
	}
	return &domain.SubChannel{
		ID:           m.ID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		SubChannelID: m.SubChannelID,
		ChannelID:    m.ChannelID,
		Name:         m.Name,
		Active:       m.Active,
	}
}
