package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// 检测阈值。比较使用完整精度，只有消息文案做取整。
var (
	// dropThreshold 跌幅超过 30% 触发 ABRUPT_DROP
	dropThreshold = decimal.NewFromInt(-30)
	// criticalDropThreshold 跌幅超过 50% 升级为 CRITICAL
	criticalDropThreshold = decimal.NewFromInt(-50)
	// spikeThreshold 涨幅超过 100% 触发 SALES_SPIKE
	spikeThreshold = decimal.NewFromInt(100)

	hundred = decimal.NewFromInt(100)
	// noSalesVariation NO_SALES 固定输出 -100%，与计算值无关
	noSalesVariation = decimal.NewFromInt(-100)
)

// ActiveChannel 检测视角下的渠道目录条目。
type ActiveChannel struct {
	ID   string
	Name string
}

// DailySale 检测视角下的单日销售记录。
type DailySale struct {
	ChannelID string
	Date      time.Time
	Amount    decimal.Decimal
}

// BaselineDays 基线窗口长度（被测日之前的 30 个自然日）。
const BaselineDays = 30

// LookbackDays 销售数据拉取窗口：基线 30 天 + 被测的"昨天"。
const LookbackDays = BaselineDays + 1

// Detect 对所有活跃渠道执行昨日销售额与 30 天基线均值的统计比较。
//
// 纯函数：交互路径与批处理任务共用同一实现，保证两个执行上下文行为一致。
// 基线窗口为被测日（昨天）之前的 30 个自然日，不含被测日自身，避免自引用偏差。
// 基线窗口内没有任何记录的渠道被跳过（基线不可计算）。
// 基线均值为零的渠道不产生任何异常：变化率被钳制为 0，NO_SALES 要求均值为正。
func Detect(channels []ActiveChannel, sales []DailySale, evaluationDate time.Time) []DetectedAnomaly {
	evalDay := DateOf(evaluationDate)
	yesterday := evalDay.AddDate(0, 0, -1)
	baselineStart := yesterday.AddDate(0, 0, -BaselineDays)

	// (channelID, day) -> amount；同日多条记录合并计入
	amounts := make(map[string]map[time.Time]decimal.Decimal, len(channels))
	for _, s := range sales {
		day := DateOf(s.Date)
		byDay, ok := amounts[s.ChannelID]
		if !ok {
			byDay = make(map[time.Time]decimal.Decimal)
			amounts[s.ChannelID] = byDay
		}
		byDay[day] = byDay[day].Add(s.Amount)
	}

	var result []DetectedAnomaly
	for _, ch := range channels {
		byDay := amounts[ch.ID]

		baselineSum := decimal.Zero
		baselineCount := 0
		for day, amount := range byDay {
			if day.Before(baselineStart) || !day.Before(yesterday) {
				continue
			}
			baselineSum = baselineSum.Add(amount)
			baselineCount++
		}
		if baselineCount == 0 {
			// 历史不足，该渠道无法评估
			continue
		}
		baselineMean := baselineSum.Div(decimal.NewFromInt(int64(baselineCount)))

		yesterdayValue := decimal.Zero
		if v, ok := byDay[yesterday]; ok {
			yesterdayValue = v
		}

		variationPct := decimal.Zero
		if baselineMean.IsPositive() {
			variationPct = yesterdayValue.Sub(baselineMean).Div(baselineMean).Mul(hundred)
		}

		result = append(result, classify(ch, yesterdayValue, baselineMean, variationPct, yesterday)...)
	}
	return result
}

// classify 独立评估三条规则，一个渠道可同时产出多条异常。
func classify(ch ActiveChannel, yesterdayValue, baselineMean, variationPct decimal.Decimal, yesterday time.Time) []DetectedAnomaly {
	var out []DetectedAnomaly

	if variationPct.LessThan(dropThreshold) {
		severity := SeverityHigh
		if variationPct.LessThan(criticalDropThreshold) {
			severity = SeverityCritical
		}
		out = append(out, DetectedAnomaly{
			ChannelID:     ch.ID,
			ChannelName:   ch.Name,
			Type:          TypeAbruptDrop,
			Severity:      severity,
			Message:       fmt.Sprintf("%s caiu %s%% vs média de 30 dias", ch.Name, variationPct.Abs().Round(0)),
			CurrentValue:  yesterdayValue,
			ExpectedValue: baselineMean,
			VariationPct:  variationPct,
			DetectedAt:    yesterday,
		})
	}

	if variationPct.GreaterThan(spikeThreshold) {
		out = append(out, DetectedAnomaly{
			ChannelID:     ch.ID,
			ChannelName:   ch.Name,
			Type:          TypeSalesSpike,
			Severity:      SeverityInfo,
			Message:       fmt.Sprintf("%s teve pico de %s%% acima da média", ch.Name, variationPct.Round(0)),
			CurrentValue:  yesterdayValue,
			ExpectedValue: baselineMean,
			VariationPct:  variationPct,
			DetectedAt:    yesterday,
		})
	}

	if yesterdayValue.IsZero() && baselineMean.IsPositive() {
		out = append(out, DetectedAnomaly{
			ChannelID:     ch.ID,
			ChannelName:   ch.Name,
			Type:          TypeNoSales,
			Severity:      SeverityHigh,
			Message:       fmt.Sprintf("%s não registrou vendas ontem", ch.Name),
			CurrentValue:  yesterdayValue,
			ExpectedValue: baselineMean,
			VariationPct:  noSalesVariation,
			DetectedAt:    yesterday,
		})
	}

	return out
}
