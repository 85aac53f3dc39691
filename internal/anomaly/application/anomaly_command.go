package application

import (
	"context"
	"time"

	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue"
	"github.com/wyfcoding/salesanalytics/internal/anomaly/domain"
)

// DismissCommand 关闭异常命令
type DismissCommand struct {
	AnomalyID   string `json:"anomaly_id"`
	DismissedBy string `json:"dismissed_by"`
}

// AnomalyCommandService 处理异常记录的写操作。
// 异常由检测任务创建，此处仅暴露 dismiss 一种变更。
type AnomalyCommandService struct {
	repo      domain.AnomalyRepository
	cache     domain.ActiveAnomalyCache   // 可为 nil
	publisher messagequeue.EventPublisher // 可为 nil
	now       func() time.Time
}

func NewAnomalyCommandService(
	repo domain.AnomalyRepository,
	cache domain.ActiveAnomalyCache,
	publisher messagequeue.EventPublisher,
) *AnomalyCommandService {
	return &AnomalyCommandService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		now:       time.Now,
	}
}

// Dismiss 软删除指定异常。单向迁移：重复关闭是无副作用的空操作，
// 保留首次关闭的时间戳与操作人。目标不存在返回 domain.ErrAnomalyNotFound。
func (s *AnomalyCommandService) Dismiss(ctx context.Context, cmd DismissCommand) error {
	anomaly, err := s.repo.GetByAnomalyID(ctx, cmd.AnomalyID)
	if err != nil {
		return err
	}
	if anomaly.Dismissed() {
		return nil
	}

	dismissedAt := s.now()
	if err := s.repo.Dismiss(ctx, cmd.AnomalyID, cmd.DismissedBy, dismissedAt); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	if s.publisher != nil {
		event := domain.AnomalyDismissedEvent{
			AnomalyID:   anomaly.AnomalyID,
			ChannelID:   anomaly.ChannelID,
			DismissedBy: cmd.DismissedBy,
			DismissedAt: dismissedAt,
			OccurredOn:  time.Now(),
		}
		if err := s.publisher.Publish(ctx, domain.AnomalyDismissedEventType, anomaly.AnomalyID, event); err != nil {
			logging.Error(ctx, "Failed to publish anomaly dismissed event",
				"anomaly_id", anomaly.AnomalyID,
				"error", err,
			)
		}
	}
	return nil
}
