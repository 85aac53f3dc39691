package application

import (
	"context"
	"log/slog"
	"time"
)

// DetectionJob 定时批量检测任务。
// 概念上每日运行一次（凌晨结算前一天的数据），间隔可配置。
type DetectionJob struct {
	service  *DetectionService
	logger   *slog.Logger
	interval time.Duration
}

func NewDetectionJob(service *DetectionService, logger *slog.Logger, interval time.Duration) *DetectionJob {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &DetectionJob{
		service:  service,
		logger:   logger,
		interval: interval,
	}
}

func (j *DetectionJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("Anomaly detection job started", "interval", j.interval)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Anomaly detection job stopped")
			return
		case <-ticker.C:
			j.run(ctx)
		}
	}
}

func (j *DetectionJob) run(ctx context.Context) {
	summary, err := j.service.Run(ctx)
	if err != nil {
		// 本次执行中止，下个周期自然重试
		j.logger.Error("anomaly detection run failed", "error", err)
		return
	}
	j.logger.Info("anomaly detection run completed",
		"processed_channels", summary.ProcessedChannels,
		"detected_anomalies", summary.DetectedAnomalies,
		"new_anomalies", summary.NewAnomalies,
	)
}
