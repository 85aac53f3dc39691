// Package application 异常检测服务的用例逻辑
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/pkg/idgen"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue"
	"github.com/wyfcoding/salesanalytics/internal/anomaly/domain"
)

// DetectionService 执行检测-去重-持久化流水线。
//
// 两个执行上下文共用 domain.Detect：
//   - Run 由调度器（或手动触发接口）调用，负责写入；
//   - Preview 供交互路径做实时预览，只读不写。
type DetectionService struct {
	catalog   domain.ChannelCatalog
	source    domain.SalesSource
	repo      domain.AnomalyRepository
	cache     domain.ActiveAnomalyCache     // 可为 nil
	publisher messagequeue.EventPublisher   // 可为 nil
	now       func() time.Time
}

// NewDetectionService 创建检测服务实例。cache 与 publisher 允许为 nil。
func NewDetectionService(
	catalog domain.ChannelCatalog,
	source domain.SalesSource,
	repo domain.AnomalyRepository,
	cache domain.ActiveAnomalyCache,
	publisher messagequeue.EventPublisher,
) *DetectionService {
	return &DetectionService{
		catalog:   catalog,
		source:    source,
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		now:       time.Now,
	}
}

// Run 以调用时刻为基准评估"昨天"，对已持久化记录去重后仅插入新异常。
//
// 同一自然日内重复执行是幂等的：(channel, type, detected_at) 首次插入获胜。
// 单条插入失败只记录日志并继续，已插入的记录保留（无整体事务，下次调度自然重试缺口）。
// 目录或销售数据读取失败则本次执行中止，不产生任何写入。
func (s *DetectionService) Run(ctx context.Context) (*RunSummary, error) {
	channels, candidates, err := s.detect(ctx)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		ProcessedChannels: len(channels),
		DetectedAnomalies: len(candidates),
	}
	if len(candidates) == 0 {
		return summary, nil
	}

	yesterday := domain.DateOf(s.now()).AddDate(0, 0, -1)
	existing, err := s.repo.ListByDetectedAt(ctx, yesterday)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted anomalies for %s: %w", yesterday.Format(dateLayout), err)
	}
	seen := make(map[domain.AnomalyKey]struct{}, len(existing))
	for _, a := range existing {
		seen[a.Key()] = struct{}{}
	}

	for _, c := range candidates {
		key := c.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		anomaly := &domain.Anomaly{
			AnomalyID:     fmt.Sprintf("ANM-%d", idgen.GenID()),
			ChannelID:     c.ChannelID,
			ChannelName:   c.ChannelName,
			Type:          c.Type,
			Severity:      c.Severity,
			Message:       c.Message,
			CurrentValue:  c.CurrentValue,
			ExpectedValue: c.ExpectedValue,
			VariationPct:  c.VariationPct,
			DetectedAt:    c.DetectedAt,
		}
		if err := s.repo.Save(ctx, anomaly); err != nil {
			if errors.Is(err, domain.ErrDuplicateAnomaly) {
				// 并发批次先行插入，视同已存在
				continue
			}
			logging.Error(ctx, "Failed to persist anomaly",
				"channel_id", c.ChannelID,
				"type", c.Type,
				"error", err,
			)
			continue
		}
		summary.NewAnomalies++
		s.publishDetected(ctx, anomaly)
	}

	if summary.NewAnomalies > 0 && s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	logging.Info(ctx, "Anomaly detection run finished",
		"processed_channels", summary.ProcessedChannels,
		"detected_anomalies", summary.DetectedAnomalies,
		"new_anomalies", summary.NewAnomalies,
	)
	return summary, nil
}

// Preview 只读执行同一检测算法，供仪表盘实时预览。不做任何持久化。
func (s *DetectionService) Preview(ctx context.Context) ([]DetectedAnomalyDTO, error) {
	_, candidates, err := s.detect(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]DetectedAnomalyDTO, len(candidates))
	for i, c := range candidates {
		dtos[i] = toDetectedAnomalyDTO(c)
	}
	return dtos, nil
}

func (s *DetectionService) detect(ctx context.Context) ([]domain.ActiveChannel, []domain.DetectedAnomaly, error) {
	evalDate := s.now()
	yesterday := domain.DateOf(evalDate).AddDate(0, 0, -1)
	start := yesterday.AddDate(0, 0, -domain.BaselineDays)

	channels, err := s.catalog.ListActive(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load channel catalog: %w", err)
	}
	sales, err := s.source.ListInRange(ctx, start, yesterday)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load sales history: %w", err)
	}

	return channels, domain.Detect(channels, sales, evalDate), nil
}

func (s *DetectionService) publishDetected(ctx context.Context, a *domain.Anomaly) {
	if s.publisher == nil {
		return
	}
	event := domain.AnomalyDetectedEvent{
		AnomalyID:    a.AnomalyID,
		ChannelID:    a.ChannelID,
		ChannelName:  a.ChannelName,
		Type:         string(a.Type),
		Severity:     string(a.Severity),
		Message:      a.Message,
		VariationPct: a.VariationPct.String(),
		DetectedAt:   a.DetectedAt,
		OccurredOn:   time.Now(),
	}
	if err := s.publisher.Publish(ctx, domain.AnomalyDetectedEventType, a.AnomalyID, event); err != nil {
		logging.Error(ctx, "Failed to publish anomaly detected event",
			"anomaly_id", a.AnomalyID,
			"error", err,
		)
	}
}
