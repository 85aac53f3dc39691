package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/salesanalytics/internal/anomaly/domain"
)

// SalesEventHandler 消费销售录入事件。
// 仪表盘的告警卡片同时展示持久化列表与实时预览，销售数据变动后
// 强制下一次列表读取回源，避免缓存与预览口径不一致。
type SalesEventHandler struct {
	cache domain.ActiveAnomalyCache
}

func NewSalesEventHandler(cache domain.ActiveAnomalyCache) *SalesEventHandler {
	return &SalesEventHandler{cache: cache}
}

func (h *SalesEventHandler) HandleDailySaleRecorded(ctx context.Context, msg kafkago.Message) error {
	var event struct {
		ChannelID string `json:"channel_id"`
		Date      string `json:"date"`
		Amount    string `json:"amount"`
	}
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return err
	}

	slog.Debug("Handling daily sale recorded event",
		"channel_id", event.ChannelID,
		"date", event.Date,
	)

	h.cache.Invalidate(ctx)
	return nil
}

func (h *SalesEventHandler) Subscribe(ctx context.Context, consumer *kafka.Consumer) {
	consumer.Start(ctx, 1, h.HandleDailySaleRecorded)
}
