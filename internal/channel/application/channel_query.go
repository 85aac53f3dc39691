package application

import (
	"context"

	"github.com/wyfcoding/salesanalytics/internal/channel/domain"
)

// ChannelQueryService 处理渠道目录相关的查询操作
type ChannelQueryService struct {
	repo domain.ChannelRepository
}

func NewChannelQueryService(repo domain.ChannelRepository) *ChannelQueryService {
	return &ChannelQueryService{repo: repo}
}

// ListChannels 渠道列表，activeOnly 为 true 时只返回活跃渠道。
func (q *ChannelQueryService) ListChannels(ctx context.Context, activeOnly bool) ([]ChannelDTO, error) {
	channels, err := q.repo.ListChannels(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	dtos := make([]ChannelDTO, len(channels))
	for i, c := range channels {
		dtos[i] = toChannelDTO(c)
	}
	return dtos, nil
}

// GetChannel 按业务主键查询单个渠道
func (q *ChannelQueryService) GetChannel(ctx context.Context, channelID string) (*ChannelDTO, error) {
	channel, err := q.repo.GetChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	dto := toChannelDTO(channel)
	return &dto, nil
}

// ListSubChannels 渠道下的子渠道列表
func (q *ChannelQueryService) ListSubChannels(ctx context.Context, channelID string) ([]SubChannelDTO, error) {
	subChannels, err := q.repo.ListSubChannels(ctx, channelID)
	if err != nil {
		return nil, err
	}
	dtos := make([]SubChannelDTO, len(subChannels))
	for i, s := range subChannels {
		dtos[i] = toSubChannelDTO(s)
	}
	return dtos, nil
}
