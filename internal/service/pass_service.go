package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusgate/gatepass-api/internal/models"
	"github.com/campusgate/gatepass-api/internal/store"
	"github.com/campusgate/gatepass-api/internal/upstream"
	appErrors "github.com/campusgate/gatepass-api/pkg/errors"
)

// PassService covers the student and faculty pass operations, forwarding
// to the upstream backend when one is reachable and otherwise serving the
// local record store. Both paths yield the same shapes.
type PassService struct {
	store     *store.Store
	upstream  *upstream.Client
	validator *validator.Validate
	metrics   *MetricsService
	cache     *CacheService
	logger    *zap.Logger
}

// NewPassService constructs a PassService.
func NewPassService(st *store.Store, up *upstream.Client, validate *validator.Validate, metrics *MetricsService, cache *CacheService, logger *zap.Logger) *PassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PassService{store: st, upstream: up, validator: validate, metrics: metrics, cache: cache, logger: logger}
}

// ListStudentPasses returns the pass history of one student.
func (s *PassService) ListStudentPasses(ctx context.Context, token, studentID string) ([]models.Pass, error) {
	if s.upstream.Enabled() {
		passes, err := s.upstream.ListStudentPasses(ctx, token)
		if err == nil {
			return passes, nil
		}
		if !upstream.IsTransportFailure(err) {
			return nil, err
		}
		s.fellBack("listStudentPasses", err)
	}
	return s.store.ListPassesByStudent(studentID), nil
}

// CreatePass validates and records a new pass request.
func (s *PassService) CreatePass(ctx context.Context, token string, req models.CreatePassRequest) (*models.Pass, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "student, teacher and reason are required")
	}

	if s.upstream.Enabled() {
		pass, err := s.upstream.CreatePass(ctx, token, req)
		if err == nil {
			return pass, nil
		}
		if !upstream.IsTransportFailure(err) {
			return nil, err
		}
		s.fellBack("createPassRequest", err)
	}

	pass := s.store.CreatePass(req)
	s.cache.Invalidate(ctx, statsCacheKey)
	return &pass, nil
}

// ListFacultyRequests returns the register for the approver view, with an
// optional status filter.
func (s *PassService) ListFacultyRequests(ctx context.Context, token string, status models.PassStatus) ([]models.Pass, error) {
	if status != "" && !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown status filter")
	}

	if s.upstream.Enabled() {
		passes, err := s.upstream.ListFacultyRequests(ctx, token, status)
		if err == nil {
			return passes, nil
		}
		if !upstream.IsTransportFailure(err) {
			return nil, err
		}
		s.fellBack("listFacultyRequests", err)
	}

	switch status {
	case "":
		return s.store.ListPasses(), nil
	case models.PassStatusPending:
		return s.store.ListPendingPasses(), nil
	default:
		all := s.store.ListPasses()
		out := make([]models.Pass, 0)
		for _, p := range all {
			if p.Status == status {
				out = append(out, p)
			}
		}
		return out, nil
	}
}

// SetPassDecision applies a faculty approve/reject decision.
func (s *PassService) SetPassDecision(ctx context.Context, token string, passID int, status models.PassStatus) (*models.Pass, error) {
	if !status.Decision() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be Approved or Rejected")
	}

	if s.upstream.Enabled() {
		pass, err := s.upstream.SetPassDecision(ctx, token, passID, status)
		if err == nil {
			s.metrics.RecordDecision(string(status))
			return pass, nil
		}
		if !upstream.IsTransportFailure(err) {
			return nil, err
		}
		s.fellBack("setPassDecision", err)
	}

	pass, err := s.store.UpdatePassStatus(passID, status)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordDecision(string(status))
	s.cache.Invalidate(ctx, statsCacheKey)
	return &pass, nil
}

func (s *PassService) fellBack(op string, err error) {
	s.metrics.RecordFallback()
	s.logger.Warn("upstream unavailable, serving from local store",
		zap.String("operation", op),
		zap.Error(err))
}
