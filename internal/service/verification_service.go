package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusgate/gatepass-api/internal/gate"
	"github.com/campusgate/gatepass-api/internal/models"
	"github.com/campusgate/gatepass-api/internal/store"
	"github.com/campusgate/gatepass-api/internal/upstream"
	appErrors "github.com/campusgate/gatepass-api/pkg/errors"
	"github.com/campusgate/gatepass-api/pkg/qrtoken"
)

// VerificationService covers the security-gate operations: QR scan,
// facial match outcome and the exit-status lookup.
type VerificationService struct {
	store     *store.Store
	upstream  *upstream.Client
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewVerificationService constructs a VerificationService.
func NewVerificationService(st *store.Store, up *upstream.Client, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *VerificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &VerificationService{store: st, upstream: up, validator: validate, metrics: metrics, logger: logger}
}

// SubmitQR records a QR scan against a pass. The scanned payload must
// decode and name the same pass the guard selected.
func (s *VerificationService) SubmitQR(ctx context.Context, token string, req models.QRVerifyRequest) (*models.Pass, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "pass_id and qr_data are required")
	}

	payload, err := qrtoken.Decode(req.QRData)
	if err != nil {
		s.metrics.RecordVerification("qr", false)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unrecognised qr payload")
	}
	if payload.PassID != req.PassID {
		s.metrics.RecordVerification("qr", false)
		return nil, appErrors.Clone(appErrors.ErrValidation, "qr code does not belong to this pass")
	}

	if s.upstream.Enabled() {
		pass, err := s.upstream.SubmitQRVerification(ctx, token, req)
		if err == nil {
			s.metrics.RecordVerification("qr", true)
			return pass, nil
		}
		if !upstream.IsTransportFailure(err) {
			s.metrics.RecordVerification("qr", false)
			return nil, err
		}
		s.fellBack("submitQrVerification", err)
	}

	pass, err := s.store.ApplyQRVerification(req.PassID)
	if err != nil {
		s.metrics.RecordVerification("qr", false)
		return nil, err
	}
	s.metrics.RecordVerification("qr", true)
	return &pass, nil
}

// SubmitFacial records the outcome of a facial check against a pass.
func (s *VerificationService) SubmitFacial(ctx context.Context, token string, passID int, verified bool) (*models.Pass, error) {
	if passID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pass id must be positive")
	}

	if s.upstream.Enabled() {
		pass, err := s.upstream.SubmitFacialVerification(ctx, token, passID, verified)
		if err == nil {
			s.metrics.RecordVerification("facial", verified)
			return pass, nil
		}
		if !upstream.IsTransportFailure(err) {
			return nil, err
		}
		s.fellBack("submitFacialVerification", err)
	}

	pass, err := s.store.ApplyFacialVerification(passID, verified)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordVerification("facial", verified)
	return &pass, nil
}

// ExitStatus reports whether security may permit physical exit.
func (s *VerificationService) ExitStatus(ctx context.Context, token string, passID int) (*models.ExitStatus, error) {
	if s.upstream.Enabled() {
		status, err := s.upstream.GetExitStatus(ctx, token, passID)
		if err == nil {
			return status, nil
		}
		if !upstream.IsTransportFailure(err) {
			return nil, err
		}
		s.fellBack("getExitStatus", err)
	}

	pass, err := s.store.GetPassByID(passID)
	if err != nil {
		return nil, err
	}

	return &models.ExitStatus{
		PassID:         pass.ID,
		StudentName:    pass.StudentName,
		Status:         pass.Status,
		QRVerified:     pass.QRVerified,
		FacialVerified: pass.FacialVerified,
		CanExit:        pass.CanExit,
		Verification:   gate.State(pass),
	}, nil
}

func (s *VerificationService) fellBack(op string, err error) {
	s.metrics.RecordFallback()
	s.logger.Warn("upstream unavailable, serving from local store",
		zap.String("operation", op),
		zap.Error(err))
}
