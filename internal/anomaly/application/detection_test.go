package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/salesanalytics/internal/anomaly/domain"
)

var testNow = time.Date(2026, 3, 15, 3, 0, 0, 0, time.UTC)

type fakeCatalog struct {
	channels []domain.ActiveChannel
	err      error
}

func (f *fakeCatalog) ListActive(_ context.Context) ([]domain.ActiveChannel, error) {
	return f.channels, f.err
}

type fakeSource struct {
	sales []domain.DailySale
	err   error
}

func (f *fakeSource) ListInRange(_ context.Context, _, _ time.Time) ([]domain.DailySale, error) {
	return f.sales, f.err
}

type fakeAnomalyRepo struct {
	anomalies []*domain.Anomaly
	saveErrBy map[string]error // channelID -> 注入的 Save 错误
	nextID    uint
}

func (f *fakeAnomalyRepo) Save(_ context.Context, a *domain.Anomaly) error {
	if err, ok := f.saveErrBy[a.ChannelID]; ok {
		return err
	}
	for _, existing := range f.anomalies {
		if existing.Key() == a.Key() {
			return domain.ErrDuplicateAnomaly
		}
	}
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	stored := *a
	f.anomalies = append(f.anomalies, &stored)
	return nil
}

func (f *fakeAnomalyRepo) GetByAnomalyID(_ context.Context, anomalyID string) (*domain.Anomaly, error) {
	for _, a := range f.anomalies {
		if a.AnomalyID == anomalyID {
			return a, nil
		}
	}
	return nil, domain.ErrAnomalyNotFound
}

func (f *fakeAnomalyRepo) ListByDetectedAt(_ context.Context, day time.Time) ([]*domain.Anomaly, error) {
	var out []*domain.Anomaly
	for _, a := range f.anomalies {
		if domain.DateOf(a.DetectedAt).Equal(domain.DateOf(day)) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAnomalyRepo) ListActive(_ context.Context, since time.Time) ([]*domain.Anomaly, error) {
	var out []*domain.Anomaly
	for _, a := range f.anomalies {
		if !a.Dismissed() && !a.DetectedAt.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAnomalyRepo) Dismiss(_ context.Context, anomalyID, dismissedBy string, at time.Time) error {
	for _, a := range f.anomalies {
		if a.AnomalyID == anomalyID && !a.Dismissed() {
			a.DismissedAt = &at
			a.DismissedBy = dismissedBy
		}
	}
	return nil
}

// dropScenario 构造一个必然触发 ABRUPT_DROP 的数据集：基线 100/天，昨日 60。
func dropScenario() (*fakeCatalog, *fakeSource) {
	ch := domain.ActiveChannel{ID: "CH-1", Name: "Mercado Livre"}
	yesterday := domain.DateOf(testNow).AddDate(0, 0, -1)

	var sales []domain.DailySale
	for i := 1; i <= domain.BaselineDays; i++ {
		sales = append(sales, domain.DailySale{
			ChannelID: ch.ID,
			Date:      yesterday.AddDate(0, 0, -i),
			Amount:    decimal.NewFromInt(100),
		})
	}
	sales = append(sales, domain.DailySale{ChannelID: ch.ID, Date: yesterday, Amount: decimal.NewFromInt(60)})

	return &fakeCatalog{channels: []domain.ActiveChannel{ch}}, &fakeSource{sales: sales}
}

func newTestService(catalog *fakeCatalog, source *fakeSource, repo *fakeAnomalyRepo) *DetectionService {
	s := NewDetectionService(catalog, source, repo, nil, nil)
	s.now = func() time.Time { return testNow }
	return s
}

func TestRun_PersistsNewAnomalies(t *testing.T) {
	catalog, source := dropScenario()
	repo := &fakeAnomalyRepo{}

	summary, err := newTestService(catalog, source, repo).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ProcessedChannels)
	assert.Equal(t, 1, summary.DetectedAnomalies)
	assert.Equal(t, 1, summary.NewAnomalies)

	require.Len(t, repo.anomalies, 1)
	stored := repo.anomalies[0]
	assert.Equal(t, domain.TypeAbruptDrop, stored.Type)
	assert.Equal(t, domain.SeverityHigh, stored.Severity)
	assert.NotEmpty(t, stored.AnomalyID)
	assert.Nil(t, stored.DismissedAt)
}

func TestRun_IdempotentWithinSameDay(t *testing.T) {
	catalog, source := dropScenario()
	repo := &fakeAnomalyRepo{}
	service := newTestService(catalog, source, repo)

	_, err := service.Run(context.Background())
	require.NoError(t, err)

	// 同日重跑：候选照常产出，但不再插入新行
	summary, err := service.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.DetectedAnomalies)
	assert.Equal(t, 0, summary.NewAnomalies)
	assert.Len(t, repo.anomalies, 1)
}

func TestRun_AbortsWhenCatalogUnavailable(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("catalog down")}
	repo := &fakeAnomalyRepo{}

	_, err := newTestService(catalog, &fakeSource{}, repo).Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, repo.anomalies)
}

func TestRun_AbortsWhenSalesUnavailable(t *testing.T) {
	catalog, _ := dropScenario()
	repo := &fakeAnomalyRepo{}

	_, err := newTestService(catalog, &fakeSource{err: errors.New("sales down")}, repo).Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, repo.anomalies)
}

func TestRun_InsertFailureDoesNotBlockOthers(t *testing.T) {
	chA := domain.ActiveChannel{ID: "CH-1", Name: "Mercado Livre"}
	chB := domain.ActiveChannel{ID: "CH-2", Name: "Loja Própria"}
	yesterday := domain.DateOf(testNow).AddDate(0, 0, -1)

	var sales []domain.DailySale
	for i := 1; i <= domain.BaselineDays; i++ {
		day := yesterday.AddDate(0, 0, -i)
		sales = append(sales,
			domain.DailySale{ChannelID: chA.ID, Date: day, Amount: decimal.NewFromInt(100)},
			domain.DailySale{ChannelID: chB.ID, Date: day, Amount: decimal.NewFromInt(100)},
		)
	}
	sales = append(sales,
		domain.DailySale{ChannelID: chA.ID, Date: yesterday, Amount: decimal.NewFromInt(60)},
		domain.DailySale{ChannelID: chB.ID, Date: yesterday, Amount: decimal.NewFromInt(60)},
	)

	catalog := &fakeCatalog{channels: []domain.ActiveChannel{chA, chB}}
	repo := &fakeAnomalyRepo{saveErrBy: map[string]error{chA.ID: errors.New("write failed")}}

	summary, err := newTestService(catalog, &fakeSource{sales: sales}, repo).Run(context.Background())
	require.NoError(t, err)

	// CH-1 写入失败只跳过自身，CH-2 正常持久化
	assert.Equal(t, 2, summary.DetectedAnomalies)
	assert.Equal(t, 1, summary.NewAnomalies)
	require.Len(t, repo.anomalies, 1)
	assert.Equal(t, chB.ID, repo.anomalies[0].ChannelID)
}

func TestPreview_DoesNotPersist(t *testing.T) {
	catalog, source := dropScenario()
	repo := &fakeAnomalyRepo{}

	dtos, err := newTestService(catalog, source, repo).Preview(context.Background())
	require.NoError(t, err)

	require.Len(t, dtos, 1)
	assert.Equal(t, string(domain.TypeAbruptDrop), dtos[0].Type)
	assert.Empty(t, repo.anomalies)
}
