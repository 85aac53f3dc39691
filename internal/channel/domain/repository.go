package domain

import "context"

// ChannelRepository 渠道目录仓储接口
type ChannelRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	SaveChannel(ctx context.Context, channel *Channel) error
	// GetChannel 按业务主键查询，不存在返回 ErrChannelNotFound。
	GetChannel(ctx context.Context, channelID string) (*Channel, error)
	ListChannels(ctx context.Context, activeOnly bool) ([]*Channel, error)
	SaveSubChannel(ctx context.Context, subChannel *SubChannel) error
	ListSubChannels(ctx context.Context, channelID string) ([]*SubChannel, error)
}
