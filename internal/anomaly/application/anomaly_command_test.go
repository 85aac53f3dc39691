package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/salesanalytics/internal/anomaly/domain"
)

func seededRepo() *fakeAnomalyRepo {
	yesterday := domain.DateOf(testNow).AddDate(0, 0, -1)
	return &fakeAnomalyRepo{
		nextID: 1,
		anomalies: []*domain.Anomaly{
			{
				ID:          1,
				AnomalyID:   "ANM-1001",
				ChannelID:   "CH-1",
				ChannelName: "Mercado Livre",
				Type:        domain.TypeAbruptDrop,
				Severity:    domain.SeverityHigh,
				DetectedAt:  yesterday,
				CreatedAt:   testNow,
			},
		},
	}
}

func TestDismiss_SetsDismissedAt(t *testing.T) {
	repo := seededRepo()
	service := NewAnomalyCommandService(repo, nil, nil)
	dismissTime := testNow.Add(time.Hour)
	service.now = func() time.Time { return dismissTime }

	err := service.Dismiss(context.Background(), DismissCommand{AnomalyID: "ANM-1001", DismissedBy: "ana"})
	require.NoError(t, err)

	stored := repo.anomalies[0]
	require.NotNil(t, stored.DismissedAt)
	assert.Equal(t, dismissTime, *stored.DismissedAt)
	assert.Equal(t, "ana", stored.DismissedBy)
}

func TestDismiss_NotFound(t *testing.T) {
	service := NewAnomalyCommandService(seededRepo(), nil, nil)

	err := service.Dismiss(context.Background(), DismissCommand{AnomalyID: "ANM-9999"})
	assert.ErrorIs(t, err, domain.ErrAnomalyNotFound)
}

func TestDismiss_RepeatedIsNoOp(t *testing.T) {
	repo := seededRepo()
	service := NewAnomalyCommandService(repo, nil, nil)
	first := testNow.Add(time.Hour)
	service.now = func() time.Time { return first }

	require.NoError(t, service.Dismiss(context.Background(), DismissCommand{AnomalyID: "ANM-1001", DismissedBy: "ana"}))

	// 第二次关闭不报错，也不覆盖首次的时间戳与操作人
	service.now = func() time.Time { return first.Add(time.Hour) }
	require.NoError(t, service.Dismiss(context.Background(), DismissCommand{AnomalyID: "ANM-1001", DismissedBy: "bia"}))

	stored := repo.anomalies[0]
	assert.Equal(t, first, *stored.DismissedAt)
	assert.Equal(t, "ana", stored.DismissedBy)
}

func TestListActive_ExcludesDismissed(t *testing.T) {
	repo := seededRepo()
	yesterday := domain.DateOf(testNow).AddDate(0, 0, -1)
	dismissed := testNow
	repo.anomalies = append(repo.anomalies, &domain.Anomaly{
		ID:          2,
		AnomalyID:   "ANM-1002",
		ChannelID:   "CH-2",
		Type:        domain.TypeNoSales,
		Severity:    domain.SeverityHigh,
		DetectedAt:  yesterday,
		DismissedAt: &dismissed,
	})

	query := NewAnomalyQueryService(repo, nil)
	query.now = func() time.Time { return testNow }

	dtos, err := query.ListActive(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "ANM-1001", dtos[0].AnomalyID)
}

func TestListActive_WindowFiltersOldAnomalies(t *testing.T) {
	repo := seededRepo()
	repo.anomalies = append(repo.anomalies, &domain.Anomaly{
		ID:         2,
		AnomalyID:  "ANM-1002",
		ChannelID:  "CH-2",
		Type:       domain.TypeSalesSpike,
		Severity:   domain.SeverityInfo,
		DetectedAt: domain.DateOf(testNow).AddDate(0, 0, -45),
	})

	query := NewAnomalyQueryService(repo, nil)
	query.now = func() time.Time { return testNow }

	dtos, err := query.ListActive(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "ANM-1001", dtos[0].AnomalyID)
}

func TestSummary_CountsBySeverity(t *testing.T) {
	repo := seededRepo()
	yesterday := domain.DateOf(testNow).AddDate(0, 0, -1)
	repo.anomalies = append(repo.anomalies,
		&domain.Anomaly{ID: 2, AnomalyID: "ANM-1002", ChannelID: "CH-2", Type: domain.TypeNoSales, Severity: domain.SeverityHigh, DetectedAt: yesterday},
		&domain.Anomaly{ID: 3, AnomalyID: "ANM-1003", ChannelID: "CH-3", Type: domain.TypeAbruptDrop, Severity: domain.SeverityCritical, DetectedAt: yesterday},
	)

	query := NewAnomalyQueryService(repo, nil)
	query.now = func() time.Time { return testNow }

	summary, err := query.Summary(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Critical)
	assert.Equal(t, 2, summary.High)
	assert.Equal(t, 0, summary.Medium)
	assert.Equal(t, 0, summary.Info)
}
