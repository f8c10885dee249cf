package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusgate/gatepass-api/internal/models"
	"github.com/campusgate/gatepass-api/internal/store"
	"github.com/campusgate/gatepass-api/internal/upstream"
)

// TeacherService serves the approver roster and its presence flag.
type TeacherService struct {
	store    *store.Store
	upstream *upstream.Client
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(st *store.Store, up *upstream.Client, metrics *MetricsService, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{store: st, upstream: up, metrics: metrics, logger: logger}
}

// List returns the full roster.
func (s *TeacherService) List(ctx context.Context, token string) ([]models.Teacher, error) {
	if s.upstream.Enabled() {
		teachers, err := s.upstream.ListTeachers(ctx, token)
		if err == nil {
			return teachers, nil
		}
		if !upstream.IsTransportFailure(err) {
			return nil, err
		}
		s.fellBack("listTeachers", err)
	}
	return s.store.ListTeachers(), nil
}

// ListPresent returns teachers currently available to approve passes.
func (s *TeacherService) ListPresent(ctx context.Context, token string) ([]models.Teacher, error) {
	if s.upstream.Enabled() {
		teachers, err := s.upstream.ListPresentTeachers(ctx, token)
		if err == nil {
			return teachers, nil
		}
		if !upstream.IsTransportFailure(err) {
			return nil, err
		}
		s.fellBack("listPresentTeachers", err)
	}
	return s.store.ListPresentTeachers(), nil
}

// TogglePresence flips a teacher's on-campus flag.
func (s *TeacherService) TogglePresence(ctx context.Context, token, teacherID string) (*models.Teacher, error) {
	if s.upstream.Enabled() {
		teacher, err := s.upstream.ToggleTeacherPresence(ctx, token, teacherID)
		if err == nil {
			return teacher, nil
		}
		if !upstream.IsTransportFailure(err) {
			return nil, err
		}
		s.fellBack("toggleTeacherPresence", err)
	}

	teacher, err := s.store.ToggleTeacherPresence(teacherID)
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (s *TeacherService) fellBack(op string, err error) {
	s.metrics.RecordFallback()
	s.logger.Warn("upstream unavailable, serving from local store",
		zap.String("operation", op),
		zap.Error(err))
}
