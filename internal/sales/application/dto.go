package application

import (
	"time"

	"github.com/wyfcoding/salesanalytics/internal/sales/domain"
)

const dateLayout = "2006-01-02"

// RecordDailySaleCommand 销售录入命令
type RecordDailySaleCommand struct {
	ChannelID    string `json:"channel_id"`
	SubChannelID string `json:"sub_channel_id"`
	Date         string `json:"date"`
	Amount       string `json:"amount"`
	OrderCount   int    `json:"order_count"`
}

// SetTargetCommand 销售目标设定命令
type SetTargetCommand struct {
	ChannelID    string `json:"channel_id"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	TargetAmount string `json:"target_amount"`
}

// DailySaleDTO 销售记录对外表示
type DailySaleDTO struct {
	ChannelID    string    `json:"channel_id"`
	SubChannelID string    `json:"sub_channel_id,omitempty"`
	Date         string    `json:"date"`
	Amount       string    `json:"amount"`
	OrderCount   int       `json:"order_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SalesTargetDTO 销售目标对外表示
type SalesTargetDTO struct {
	ChannelID    string `json:"channel_id"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	TargetAmount string `json:"target_amount"`
}

// WeekdayPerformanceDTO 星期几表现：范围内合计与日均
type WeekdayPerformanceDTO struct {
	Weekday      string `json:"weekday"`
	Total        string `json:"total"`
	Days         int64  `json:"days"`
	DailyAverage string `json:"daily_average"`
}

// SeasonalityDTO 月度季节性：月合计与相对年均值的指数（100 = 平均水平）
type SeasonalityDTO struct {
	Month    int    `json:"month"`
	Total    string `json:"total"`
	IndexPct string `json:"index_pct"`
}

// AttributionDTO 按渠道类型的销售占比
type AttributionDTO struct {
	ChannelType string `json:"channel_type"`
	Total       string `json:"total"`
	SharePct    string `json:"share_pct"`
}

// AttainmentDTO 目标达成情况
type AttainmentDTO struct {
	ChannelID     string `json:"channel_id"`
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	Target        string `json:"target"`
	Actual        string `json:"actual"`
	AttainmentPct string `json:"attainment_pct"`
}

func toDailySaleDTO(s *domain.DailySale) DailySaleDTO {
	return DailySaleDTO{
		ChannelID:    s.ChannelID,
		SubChannelID: s.SubChannelID,
		Date:         s.Date.Format(dateLayout),
		Amount:       s.Amount.String(),
		OrderCount:   s.OrderCount,
		UpdatedAt:    s.UpdatedAt,
	}
}

func toSalesTargetDTO(t *domain.SalesTarget) SalesTargetDTO {
	return SalesTargetDTO{
		ChannelID:    t.ChannelID,
		Year:         t.Year,
		Month:        t.Month,
		TargetAmount: t.TargetAmount.String(),
	}
}
