// Package application 销售服务的用例逻辑
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/messagequeue"
	"github.com/wyfcoding/salesanalytics/internal/sales/domain"
)

// SalesCommandService 处理销售录入与目标设定
type SalesCommandService struct {
	repo      domain.SalesRepository
	publisher messagequeue.EventPublisher
}

func NewSalesCommandService(repo domain.SalesRepository, publisher messagequeue.EventPublisher) *SalesCommandService {
	return &SalesCommandService{
		repo:      repo,
		publisher: publisher,
	}
}

// RecordDailySale 录入某渠道某日的销售额。
// 同键重复录入为修正写（upsert），每次成功写入都会发布 sales.daily.recorded 事件。
func (s *SalesCommandService) RecordDailySale(ctx context.Context, cmd RecordDailySaleCommand) (*domain.DailySale, error) {
	date, err := time.Parse(dateLayout, cmd.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", cmd.Date, err)
	}
	amount, err := decimal.NewFromString(cmd.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", cmd.Amount, err)
	}

	sale := &domain.DailySale{
		ChannelID:    cmd.ChannelID,
		SubChannelID: cmd.SubChannelID,
		Date:         domain.DateOf(date),
		Amount:       amount,
		OrderCount:   cmd.OrderCount,
	}
	if err := sale.Validate(); err != nil {
		return nil, err
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.UpsertDailySale(txCtx, sale); err != nil {
			return err
		}
		if s.publisher == nil {
			return nil
		}
		event := domain.DailySaleRecordedEvent{
			ChannelID:    sale.ChannelID,
			SubChannelID: sale.SubChannelID,
			Date:         sale.Date.Format(dateLayout),
			Amount:       sale.Amount.String(),
			OrderCount:   sale.OrderCount,
			OccurredOn:   time.Now(),
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.DailySaleRecordedEventType, sale.ChannelID, event)
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

// SetTarget 设定渠道目标，Month 为 0 表示年度目标，同键重复设定为覆盖。
func (s *SalesCommandService) SetTarget(ctx context.Context, cmd SetTargetCommand) (*domain.SalesTarget, error) {
	amount, err := decimal.NewFromString(cmd.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount %q: %w", cmd.TargetAmount, err)
	}

	target := &domain.SalesTarget{
		ChannelID:    cmd.ChannelID,
		Year:         cmd.Year,
		Month:        cmd.Month,
		TargetAmount: amount,
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.UpsertTarget(txCtx, target); err != nil {
			return err
		}
		if s.publisher == nil {
			return nil
		}
		event := domain.TargetSetEvent{
			ChannelID:    target.ChannelID,
			Year:         target.Year,
			Month:        target.Month,
			TargetAmount: target.TargetAmount.String(),
			OccurredOn:   time.Now(),
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.TargetSetEventType, target.ChannelID, event)
	})
	if err != nil {
		return nil, err
	}

	return target, nil
}
