// Package application 渠道目录服务的用例逻辑
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/idgen"
	"github.com/wyfcoding/pkg/messagequeue"
	"github.com/wyfcoding/salesanalytics/internal/channel/domain"
)

// ChannelCommandService 处理渠道目录相关的命令操作
// Writes 统一走 MySQL + Outbox 事件发布。
type ChannelCommandService struct {
	repo      domain.ChannelRepository
	publisher messagequeue.EventPublisher
}

func NewChannelCommandService(repo domain.ChannelRepository, publisher messagequeue.EventPublisher) *ChannelCommandService {
	return &ChannelCommandService{
		repo:      repo,
		publisher: publisher,
	}
}

// CreateChannel 创建渠道
func (s *ChannelCommandService) CreateChannel(ctx context.Context, cmd CreateChannelCommand) (*domain.Channel, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("channel name is required")
	}
	channelType := domain.ChannelType(cmd.Type)
	if !domain.ValidChannelType(channelType) {
		return nil, fmt.Errorf("invalid channel type: %s", cmd.Type)
	}

	channel := &domain.Channel{
		ChannelID: fmt.Sprintf("CH-%d", idgen.GenID()),
		Name:      cmd.Name,
		Type:      channelType,
		Active:    true,
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.SaveChannel(txCtx, channel); err != nil {
			return err
		}
		if s.publisher == nil {
			return nil
		}
		createdEvent := domain.ChannelCreatedEvent{
			ChannelID:  channel.ChannelID,
			Name:       channel.Name,
			Type:       string(channel.Type),
			CreatedAt:  time.Now().Unix(),
			OccurredOn: time.Now(),
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.ChannelCreatedEventType, channel.ChannelID, createdEvent)
	})
	if err != nil {
		return nil, err
	}

	return channel, nil
}

// UpdateChannel 更新渠道名称与类型
func (s *ChannelCommandService) UpdateChannel(ctx context.Context, cmd UpdateChannelCommand) (*domain.Channel, error) {
	channel, err := s.repo.GetChannel(ctx, cmd.ChannelID)
	if err != nil {
		return nil, err
	}

	channelType := domain.ChannelType(cmd.Type)
	if !domain.ValidChannelType(channelType) {
		return nil, fmt.Errorf("invalid channel type: %s", cmd.Type)
	}

	oldName := channel.Name
	oldType := channel.Type

	channel.Name = cmd.Name
	channel.Type = channelType

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.SaveChannel(txCtx, channel); err != nil {
			return err
		}
		if s.publisher == nil {
			return nil
		}
		updatedEvent := domain.ChannelUpdatedEvent{
			ChannelID:  channel.ChannelID,
			OldName:    oldName,
			NewName:    channel.Name,
			OldType:    string(oldType),
			NewType:    string(channel.Type),
			UpdatedAt:  time.Now().Unix(),
			OccurredOn: time.Now(),
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.ChannelUpdatedEventType, channel.ChannelID, updatedEvent)
	})
	if err != nil {
		return nil, err
	}

	return channel, nil
}

// ArchiveChannel 归档渠道（软删除），归档后不再参与异常检测。
func (s *ChannelCommandService) ArchiveChannel(ctx context.Context, cmd ArchiveChannelCommand) error {
	channel, err := s.repo.GetChannel(ctx, cmd.ChannelID)
	if err != nil {
		return err
	}
	if !channel.Active {
		return nil
	}

	channel.Active = false

	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.SaveChannel(txCtx, channel); err != nil {
			return err
		}
		if s.publisher == nil {
			return nil
		}
		archivedEvent := domain.ChannelArchivedEvent{
			ChannelID:  channel.ChannelID,
			Name:       channel.Name,
			ArchivedAt: time.Now().Unix(),
			OccurredOn: time.Now(),
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.ChannelArchivedEventType, channel.ChannelID, archivedEvent)
	})
}

// CreateSubChannel 在渠道下创建子渠道
func (s *ChannelCommandService) CreateSubChannel(ctx context.Context, cmd CreateSubChannelCommand) (*domain.SubChannel, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("sub channel name is required")
	}
	if _, err := s.repo.GetChannel(ctx, cmd.ChannelID); err != nil {
		return nil, err
	}

	subChannel := &domain.SubChannel{
		SubChannelID: fmt.Sprintf("SCH-%d", idgen.GenID()),
		ChannelID:    cmd.ChannelID,
		Name:         cmd.Name,
		Active:       true,
	}
	if err := s.repo.SaveSubChannel(ctx, subChannel); err != nil {
		return nil, err
	}
	return subChannel, nil
}
