package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/salesanalytics/internal/anomaly/domain"
)

// DefaultWindowDays 活跃异常列表的默认回看窗口。
const DefaultWindowDays = 30

// AnomalyQueryService 处理异常相关的查询操作。
// 列表查询走缓存（命中时），持久层是权威数据源。
type AnomalyQueryService struct {
	repo  domain.AnomalyRepository
	cache domain.ActiveAnomalyCache // 可为 nil
	now   func() time.Time
}

func NewAnomalyQueryService(repo domain.AnomalyRepository, cache domain.ActiveAnomalyCache) *AnomalyQueryService {
	return &AnomalyQueryService{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

// ListActive 返回窗口期内未被关闭的持久化异常，按创建时间倒序。
func (q *AnomalyQueryService) ListActive(ctx context.Context, windowDays int) ([]AnomalyDTO, error) {
	anomalies, err := q.listActive(ctx, windowDays)
	if err != nil {
		return nil, err
	}
	dtos := make([]AnomalyDTO, len(anomalies))
	for i, a := range anomalies {
		dtos[i] = toAnomalyDTO(a)
	}
	return dtos, nil
}

// Summary 窗口期内活跃异常的严重级别分布。
func (q *AnomalyQueryService) Summary(ctx context.Context, windowDays int) (*SummaryDTO, error) {
	anomalies, err := q.listActive(ctx, windowDays)
	if err != nil {
		return nil, err
	}
	counts := domain.CountBySeverity(anomalies)
	return &SummaryDTO{
		Total:    counts.Total,
		Critical: counts.Critical,
		High:     counts.High,
		Medium:   counts.Medium,
		Info:     counts.Info,
	}, nil
}

func (q *AnomalyQueryService) listActive(ctx context.Context, windowDays int) ([]*domain.Anomaly, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	if q.cache != nil {
		if cached, ok := q.cache.Get(ctx, windowDays); ok {
			return cached, nil
		}
	}

	since := domain.DateOf(q.now()).AddDate(0, 0, -windowDays)
	anomalies, err := q.repo.ListActive(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list active anomalies: %w", err)
	}

	if q.cache != nil {
		q.cache.Set(ctx, windowDays, anomalies)
	}
	return anomalies, nil
}
