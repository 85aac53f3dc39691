package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evalDate = time.Date(2026, 3, 15, 8, 30, 0, 0, time.UTC)

func channelA() ActiveChannel { return ActiveChannel{ID: "CH-1", Name: "Mercado Livre"} }

// buildSales 生成基线窗口内每天固定金额的销售记录，外加昨日金额。
func buildSales(ch ActiveChannel, baselineAmount, yesterdayAmount float64) []DailySale {
	yesterday := DateOf(evalDate).AddDate(0, 0, -1)
	sales := make([]DailySale, 0, BaselineDays+1)
	for i := 1; i <= BaselineDays; i++ {
		sales = append(sales, DailySale{
			ChannelID: ch.ID,
			Date:      yesterday.AddDate(0, 0, -i),
			Amount:    decimal.NewFromFloat(baselineAmount),
		})
	}
	if yesterdayAmount > 0 {
		sales = append(sales, DailySale{ChannelID: ch.ID, Date: yesterday, Amount: decimal.NewFromFloat(yesterdayAmount)})
	}
	return sales
}

func detectOne(t *testing.T, baselineAmount, yesterdayAmount float64) []DetectedAnomaly {
	t.Helper()
	ch := channelA()
	return Detect([]ActiveChannel{ch}, buildSales(ch, baselineAmount, yesterdayAmount), evalDate)
}

func TestDetect_AbruptDropHigh(t *testing.T) {
	// 基线均值 100，昨日 60 → -40%，HIGH
	anomalies := detectOne(t, 100, 60)

	require.Len(t, anomalies, 1)
	a := anomalies[0]
	assert.Equal(t, TypeAbruptDrop, a.Type)
	assert.Equal(t, SeverityHigh, a.Severity)
	assert.True(t, a.VariationPct.Equal(decimal.NewFromInt(-40)), "variation = %s", a.VariationPct)
	assert.True(t, a.ExpectedValue.Equal(decimal.NewFromInt(100)))
	assert.True(t, a.CurrentValue.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "Mercado Livre caiu 40% vs média de 30 dias", a.Message)
	assert.Equal(t, DateOf(evalDate).AddDate(0, 0, -1), a.DetectedAt)
}

func TestDetect_AbruptDropCritical(t *testing.T) {
	// 基线均值 100，昨日 40 → -60%，CRITICAL
	anomalies := detectOne(t, 100, 40)

	require.Len(t, anomalies, 1)
	assert.Equal(t, TypeAbruptDrop, anomalies[0].Type)
	assert.Equal(t, SeverityCritical, anomalies[0].Severity)
}

func TestDetect_DropBoundaryNotTriggered(t *testing.T) {
	// 恰好 -30% 不触发（阈值为严格小于）
	anomalies := detectOne(t, 100, 70)
	assert.Empty(t, anomalies)
}

func TestDetect_CriticalBoundaryStaysHigh(t *testing.T) {
	// 恰好 -50% 仍为 HIGH
	anomalies := detectOne(t, 100, 50)

	require.Len(t, anomalies, 1)
	assert.Equal(t, SeverityHigh, anomalies[0].Severity)
}

func TestDetect_SalesSpike(t *testing.T) {
	// 基线均值 50，昨日 120 → +140%，INFO
	anomalies := detectOne(t, 50, 120)

	require.Len(t, anomalies, 1)
	a := anomalies[0]
	assert.Equal(t, TypeSalesSpike, a.Type)
	assert.Equal(t, SeverityInfo, a.Severity)
	assert.True(t, a.VariationPct.Equal(decimal.NewFromInt(140)))
	assert.Equal(t, "Mercado Livre teve pico de 140% acima da média", a.Message)
}

func TestDetect_SpikeBoundaryNotTriggered(t *testing.T) {
	// 恰好 +100% 不触发
	anomalies := detectOne(t, 50, 100)
	assert.Empty(t, anomalies)
}

func TestDetect_NoSalesForcedVariation(t *testing.T) {
	// 基线均值 80，昨日无记录 → NO_SALES 固定 -100，同时命中跌幅规则
	anomalies := detectOne(t, 80, 0)

	require.Len(t, anomalies, 2)

	var noSales, drop *DetectedAnomaly
	for i := range anomalies {
		switch anomalies[i].Type {
		case TypeNoSales:
			noSales = &anomalies[i]
		case TypeAbruptDrop:
			drop = &anomalies[i]
		}
	}
	require.NotNil(t, noSales)
	require.NotNil(t, drop)

	assert.Equal(t, SeverityHigh, noSales.Severity)
	assert.True(t, noSales.VariationPct.Equal(decimal.NewFromInt(-100)))
	assert.Equal(t, "Mercado Livre não registrou vendas ontem", noSales.Message)
	assert.Equal(t, SeverityCritical, drop.Severity)
}

func TestDetect_EmptyBaselineSkipsChannel(t *testing.T) {
	ch := channelA()
	yesterday := DateOf(evalDate).AddDate(0, 0, -1)
	// 只有昨日有记录，基线窗口为空
	sales := []DailySale{{ChannelID: ch.ID, Date: yesterday, Amount: decimal.NewFromInt(500)}}

	anomalies := Detect([]ActiveChannel{ch}, sales, evalDate)
	assert.Empty(t, anomalies)
}

func TestDetect_NoRecordsAtAll(t *testing.T) {
	anomalies := Detect([]ActiveChannel{channelA()}, nil, evalDate)
	assert.Empty(t, anomalies)
}

func TestDetect_ZeroMeanBaselineIsSilent(t *testing.T) {
	ch := channelA()
	yesterday := DateOf(evalDate).AddDate(0, 0, -1)
	sales := []DailySale{
		{ChannelID: ch.ID, Date: yesterday.AddDate(0, 0, -3), Amount: decimal.Zero},
		{ChannelID: ch.ID, Date: yesterday.AddDate(0, 0, -2), Amount: decimal.Zero},
	}

	// 均值为零：变化率钳制为 0，NO_SALES 要求均值为正，全部静默
	anomalies := Detect([]ActiveChannel{ch}, sales, evalDate)
	assert.Empty(t, anomalies)
}

func TestDetect_YesterdayExcludedFromBaseline(t *testing.T) {
	ch := channelA()
	yesterday := DateOf(evalDate).AddDate(0, 0, -1)
	sales := []DailySale{
		{ChannelID: ch.ID, Date: yesterday.AddDate(0, 0, -1), Amount: decimal.NewFromInt(100)},
		// 昨日的暴涨不得拉高自身基线
		{ChannelID: ch.ID, Date: yesterday, Amount: decimal.NewFromInt(1000)},
	}

	anomalies := Detect([]ActiveChannel{ch}, sales, evalDate)
	require.Len(t, anomalies, 1)
	assert.Equal(t, TypeSalesSpike, anomalies[0].Type)
	assert.True(t, anomalies[0].ExpectedValue.Equal(decimal.NewFromInt(100)))
	assert.True(t, anomalies[0].VariationPct.Equal(decimal.NewFromInt(900)))
}

func TestDetect_RecordOutsideWindowIgnored(t *testing.T) {
	ch := channelA()
	yesterday := DateOf(evalDate).AddDate(0, 0, -1)
	sales := []DailySale{
		// 窗口外（31 天前）的记录不参与基线
		{ChannelID: ch.ID, Date: yesterday.AddDate(0, 0, -BaselineDays-1), Amount: decimal.NewFromInt(9999)},
		{ChannelID: ch.ID, Date: yesterday.AddDate(0, 0, -1), Amount: decimal.NewFromInt(100)},
		{ChannelID: ch.ID, Date: yesterday, Amount: decimal.NewFromInt(95)},
	}

	anomalies := Detect([]ActiveChannel{ch}, sales, evalDate)
	assert.Empty(t, anomalies)
}

func TestDetect_OnlyListedChannelsEvaluated(t *testing.T) {
	ch := channelA()
	other := ActiveChannel{ID: "CH-2", Name: "Loja Própria"}
	sales := buildSales(ch, 100, 10)

	// CH-1 不在活跃目录中，即使数据异常也不评估
	anomalies := Detect([]ActiveChannel{other}, sales, evalDate)
	assert.Empty(t, anomalies)
}

func TestCountBySeverity(t *testing.T) {
	anomalies := []*Anomaly{
		{Severity: SeverityCritical},
		{Severity: SeverityHigh},
		{Severity: SeverityHigh},
		{Severity: SeverityInfo},
	}

	counts := CountBySeverity(anomalies)
	assert.Equal(t, 4, counts.Total)
	assert.Equal(t, 1, counts.Critical)
	assert.Equal(t, 2, counts.High)
	assert.Equal(t, 0, counts.Medium)
	assert.Equal(t, 1, counts.Info)
}
