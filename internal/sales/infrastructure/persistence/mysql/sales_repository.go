// Package mysql 销售服务的 MySQL 持久化实现
package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/salesanalytics/internal/sales/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type salesRepository struct {
	db *gorm.DB
}

func NewSalesRepository(db *gorm.DB) domain.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextx.WithTx(ctx, tx)
		return fn(txCtx)
	})
}

func (r *salesRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func (r *salesRepository) UpsertDailySale(ctx context.Context, sale *domain.DailySale) error {
	model := toDailySaleModel(sale)
	err := r.getDB(ctx).WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "channel_id"},
			{Name: "sub_channel_id"},
			{Name: "date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "order_count", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return err
	}

	sale.ID = model.ID
	sale.CreatedAt = model.CreatedAt
	sale.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *salesRepository) ListInRange(ctx context.Context, start, end time.Time) ([]*domain.DailySale, error) {
	var models []*DailySaleModel
	err := r.getDB(ctx).WithContext(ctx).
		Where("date >= ? AND date < ?", start, end).
		Order("date asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	sales := make([]*domain.DailySale, len(models))
	for i, m := range models {
		sales[i] = toDailySale(m)
	}
	return sales, nil
}

func (r *salesRepository) UpsertTarget(ctx context.Context, target *domain.SalesTarget) error {
	model := toSalesTargetModel(target)
	err := r.getDB(ctx).WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "channel_id"},
			{Name: "year"},
			{Name: "month"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"target_amount", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return err
	}

	target.ID = model.ID
	target.CreatedAt = model.CreatedAt
	target.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *salesRepository) GetTarget(ctx context.Context, channelID string, year, month int) (*domain.SalesTarget, error) {
	var model SalesTargetModel
	err := r.getDB(ctx).WithContext(ctx).
		Where("channel_id = ? AND year = ? AND month = ?", channelID, year, month).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTargetNotFound
	}
	if err != nil {
		return nil, err
	}
	return toSalesTarget(&model), nil
}
