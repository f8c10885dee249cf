package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusgate/gatepass-api/internal/models"
	"github.com/campusgate/gatepass-api/internal/store"
	appErrors "github.com/campusgate/gatepass-api/pkg/errors"
)

type memoryCacheRepo struct {
	entries map[string][]byte
	sets    int
	deletes int
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	m.sets++
	return nil
}

func (m *memoryCacheRepo) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	m.deletes++
	return nil
}

func TestReportOverSeededRegister(t *testing.T) {
	st := store.New(zap.NewNop())
	svc := NewStatsService(st, nil, NewMetricsService(), nil, zap.NewNop())

	report, err := svc.Report(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 6, report.TotalRequests)
	assert.Equal(t, 3, report.ApprovedPasses)
	assert.Equal(t, 1, report.RejectedPasses)
	assert.Equal(t, 2, report.PendingPasses)
	assert.Equal(t, 50, report.ApprovalRate)

	require.Len(t, report.Weekly, 7)
	total := 0
	for _, bucket := range report.Weekly {
		total += bucket.Count
	}
	assert.Equal(t, report.TotalRequests, total)
}

func TestSummarizeEmptyRegister(t *testing.T) {
	report := Summarize(nil)

	assert.Equal(t, 0, report.TotalRequests)
	assert.Equal(t, 0, report.ApprovalRate)
	require.Len(t, report.Weekly, 7)
	assert.Equal(t, "Mon", report.Weekly[0].Day)
	assert.Equal(t, "Sun", report.Weekly[6].Day)
}

func TestSummarizeRoundsApprovalRate(t *testing.T) {
	passes := []models.Pass{
		{Status: models.PassStatusApproved},
		{Status: models.PassStatusApproved},
		{Status: models.PassStatusRejected},
	}
	report := Summarize(passes)

	// 2 of 3 approved rounds to 67.
	assert.Equal(t, 67, report.ApprovalRate)
}

func TestSummarizeBucketsByCreationWeekday(t *testing.T) {
	// 2026-08-31 is a Monday.
	monday := time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC)
	passes := []models.Pass{
		{Status: models.PassStatusPending, CreatedAt: monday},
		{Status: models.PassStatusPending, CreatedAt: monday},
		{Status: models.PassStatusPending, CreatedAt: monday.Add(48 * time.Hour)},
	}
	report := Summarize(passes)

	assert.Equal(t, 2, report.Weekly[0].Count) // Mon
	assert.Equal(t, 1, report.Weekly[2].Count) // Wed
}

func TestReportServesCachedCopy(t *testing.T) {
	st := store.New(zap.NewNop())
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, NewMetricsService(), time.Minute, zap.NewNop(), true)
	svc := NewStatsService(st, nil, NewMetricsService(), cache, zap.NewNop())

	first, err := svc.Report(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 1, repo.sets)

	// Mutating the register does not change a cached report.
	_, err = st.UpdatePassStatus(1, models.PassStatusApproved)
	require.NoError(t, err)

	second, err := svc.Report(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, first.ApprovedPasses, second.ApprovedPasses)
	assert.Equal(t, 1, repo.sets)
}

func TestDecisionInvalidatesStatsCache(t *testing.T) {
	st := store.New(zap.NewNop())
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, NewMetricsService(), time.Minute, zap.NewNop(), true)
	stats := NewStatsService(st, nil, NewMetricsService(), cache, zap.NewNop())
	passes := NewPassService(st, nil, nil, NewMetricsService(), cache, zap.NewNop())

	_, err := stats.Report(context.Background(), "")
	require.NoError(t, err)

	_, err = passes.SetPassDecision(context.Background(), "", 1, models.PassStatusApproved)
	require.NoError(t, err)
	require.Equal(t, 1, repo.deletes)

	report, err := stats.Report(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 4, report.ApprovedPasses)
}
