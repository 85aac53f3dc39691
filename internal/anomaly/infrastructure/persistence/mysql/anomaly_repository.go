// Package mysql 提供异常日志仓储及检测协作方数据源的 GORM 实现。
package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/salesanalytics/internal/anomaly/domain"
	"gorm.io/gorm"
)

type anomalyRepository struct {
	db *gorm.DB
}

func NewAnomalyRepository(db *gorm.DB) domain.AnomalyRepository {
	return &anomalyRepository{db: db}
}

func (r *anomalyRepository) Save(ctx context.Context, a *domain.Anomaly) error {
	model := toAnomalyModel(a)
	if model == nil {
		return nil
	}
	db := r.db.WithContext(ctx)
	if err := db.Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || r.keyExists(ctx, a.Key()) {
			return domain.ErrDuplicateAnomaly
		}
		return err
	}
	a.ID = model.ID
	a.CreatedAt = model.CreatedAt
	a.UpdatedAt = model.UpdatedAt
	return nil
}

// keyExists 插入失败后的兜底探测：驱动未翻译唯一键冲突时仍能识别重复。
func (r *anomalyRepository) keyExists(ctx context.Context, key domain.AnomalyKey) bool {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AnomalyModel{}).
		Where("channel_id = ? AND type = ? AND detected_at = ?", key.ChannelID, string(key.Type), key.DetectedAt).
		Count(&count).Error
	return err == nil && count > 0
}

func (r *anomalyRepository) GetByAnomalyID(ctx context.Context, anomalyID string) (*domain.Anomaly, error) {
	var model AnomalyModel
	err := r.db.WithContext(ctx).Where("anomaly_id = ?", anomalyID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAnomalyNotFound
		}
		return nil, err
	}
	return toAnomaly(&model)
}

func (r *anomalyRepository) ListByDetectedAt(ctx context.Context, day time.Time) ([]*domain.Anomaly, error) {
	var models []AnomalyModel
	if err := r.db.WithContext(ctx).
		Where("detected_at = ?", domain.DateOf(day)).
		Find(&models).Error; err != nil {
		return nil, err
	}
	return toAnomalies(models)
}

func (r *anomalyRepository) ListActive(ctx context.Context, since time.Time) ([]*domain.Anomaly, error) {
	var models []AnomalyModel
	if err := r.db.WithContext(ctx).
		Where("detected_at >= ? AND dismissed_at IS NULL", since).
		Order("created_at desc").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return toAnomalies(models)
}

func (r *anomalyRepository) Dismiss(ctx context.Context, anomalyID, dismissedBy string, at time.Time) error {
	// 仅更新尚未关闭的记录，首次关闭获胜
	return r.db.WithContext(ctx).
		Model(&AnomalyModel{}).
		Where("anomaly_id = ? AND dismissed_at IS NULL", anomalyID).
		Updates(map[string]any{
			"dismissed_at": at,
			"dismissed_by": dismissedBy,
		}).Error
}

func toAnomalies(models []AnomalyModel) ([]*domain.Anomaly, error) {
	res := make([]*domain.Anomaly, len(models))
	for i := range models {
		a, err := toAnomaly(&models[i])
		if err != nil {
			return nil, err
		}
		res[i] = a
	}
	return res, nil
}
