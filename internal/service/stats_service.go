package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/campusgate/gatepass-api/internal/models"
	"github.com/campusgate/gatepass-api/internal/store"
	"github.com/campusgate/gatepass-api/internal/upstream"
)

const statsCacheKey = "gatepass:stats:report"

// weekdayOrder fixes the dashboard chart to a Monday-first week.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// StatsService computes the admin analytics report over the pass
// register, with an optional Redis cache in front of the computation.
type StatsService struct {
	store    *store.Store
	upstream *upstream.Client
	metrics  *MetricsService
	cache    *CacheService
	logger   *zap.Logger
}

// NewStatsService constructs a StatsService.
func NewStatsService(st *store.Store, up *upstream.Client, metrics *MetricsService, cache *CacheService, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{store: st, upstream: up, metrics: metrics, cache: cache, logger: logger}
}

// Report returns the aggregate gate statistics. Cached copies are served
// when fresh; a reachable upstream is preferred over the local register.
func (s *StatsService) Report(ctx context.Context, token string) (*models.StatsReport, error) {
	var cached models.StatsReport
	if s.cache.Get(ctx, statsCacheKey, &cached) {
		return &cached, nil
	}

	if s.upstream.Enabled() {
		report, err := s.upstream.GetStats(ctx, token)
		if err == nil {
			s.cache.Set(ctx, statsCacheKey, report)
			return report, nil
		}
		if !upstream.IsTransportFailure(err) {
			return nil, err
		}
		s.fellBack("getStats", err)
	}

	report := Summarize(s.store.ListPasses())
	s.cache.Set(ctx, statsCacheKey, report)
	return report, nil
}

// Summarize aggregates a pass register into a stats report.
func Summarize(passes []models.Pass) *models.StatsReport {
	report := &models.StatsReport{GeneratedAt: time.Now().UTC()}

	byDay := make(map[time.Weekday]int, len(weekdayOrder))
	for _, p := range passes {
		report.TotalRequests++
		switch p.Status {
		case models.PassStatusApproved:
			report.ApprovedPasses++
		case models.PassStatusRejected:
			report.RejectedPasses++
		case models.PassStatusPending:
			report.PendingPasses++
		}
		byDay[p.CreatedAt.Weekday()]++
	}

	if report.TotalRequests > 0 {
		rate := float64(report.ApprovedPasses) / float64(report.TotalRequests) * 100
		report.ApprovalRate = int(math.Round(rate))
	}

	report.Weekly = make([]models.WeeklyBucket, 0, len(weekdayOrder))
	for _, day := range weekdayOrder {
		report.Weekly = append(report.Weekly, models.WeeklyBucket{
			Day:   day.String()[:3],
			Count: byDay[day],
		})
	}

	return report
}

func (s *StatsService) fellBack(op string, err error) {
	s.metrics.RecordFallback()
	s.logger.Warn("upstream unavailable, serving from local store",
		zap.String("operation", op),
		zap.Error(err))
}
