// Package mysql 渠道目录的 MySQL 持久化实现
package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/salesanalytics/internal/channel/domain"
	"gorm.io/gorm"
)

type channelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) domain.ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextx.WithTx(ctx, tx)
		return fn(txCtx)
	})
}

func (r *channelRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func (r *channelRepository) SaveChannel(ctx context.Context, channel *domain.Channel) error {
	db := r.getDB(ctx)
	model := toChannelModel(channel)
	if model.ID == 0 {
		if err := db.WithContext(ctx).Create(model).Error; err != nil {
			return err
		}
		channel.ID = model.ID
		channel.CreatedAt = model.CreatedAt
		channel.UpdatedAt = model.UpdatedAt
		return nil
	}

	return db.WithContext(ctx).
		Model(&ChannelModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":   model.Name,
			"type":   model.Type,
			"active": model.Active,
		}).Error
}

func (r *channelRepository) GetChannel(ctx context.Context, channelID string) (*domain.Channel, error) {
	var model ChannelModel
	err := r.getDB(ctx).WithContext(ctx).Where("channel_id = ?", channelID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrChannelNotFound
	}
	if err != nil {
		return nil, err
	}
	return toChannel(&model), nil
}

func (r *channelRepository) ListChannels(ctx context.Context, activeOnly bool) ([]*domain.Channel, error) {
	query := r.getDB(ctx).WithContext(ctx).Model(&ChannelModel{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var models []*ChannelModel
	if err := query.Order("created_at asc").Find(&models).Error; err != nil {
		return nil, err
	}

	channels := make([]*domain.Channel, len(models))
	for i, m := range models {
		channels[i] = toChannel(m)
	}
	return channels, nil
}

func (r *channelRepository) SaveSubChannel(ctx context.Context, subChannel *domain.SubChannel) error {
	db := r.getDB(ctx)
	model := toSubChannelModel(subChannel)
	if model.ID == 0 {
		if err := db.WithContext(ctx).Create(model).Error; err != nil {
			return err
		}
		subChannel.ID = model.ID
		subChannel.CreatedAt = model.CreatedAt
		subChannel.UpdatedAt = model.UpdatedAt
		return nil
	}

	return db.WithContext(ctx).
		Model(&SubChannelModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":   model.Name,
			"active": model.Active,
		}).Error
}

func (r *channelRepository) ListSubChannels(ctx context.Context, channelID string) ([]*domain.SubChannel, error) {
	var models []*SubChannelModel
	err := r.getDB(ctx).WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("created_at asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	subChannels := make([]*domain.SubChannel, len(models))
	for i, m := range models {
		subChannels[i] = toSubChannel(m)
	}
	return subChannels, nil
}
