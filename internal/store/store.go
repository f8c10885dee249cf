// Package store is the single owner of the pass and teacher collections.
// Every mutation goes through one of its operations; each operation runs
// atomically under the store lock, so partial writes are never observable.
// Nothing here persists across restarts.
package store

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campusgate/gatepass-api/internal/gate"
	"github.com/campusgate/gatepass-api/internal/models"
	appErrors "github.com/campusgate/gatepass-api/pkg/errors"
	"github.com/campusgate/gatepass-api/pkg/qrtoken"
)

// Store holds the in-memory record collections.
type Store struct {
	mu          sync.RWMutex
	passes      []models.Pass
	teachers    []models.Teacher
	credentials []models.Credential
	logger      *zap.Logger
}

// New builds a store seeded with the demo roster and pass register.
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{logger: logger}
	s.Reset()
	return s
}

// Reset reseeds every collection. Used at construction and by test fixtures.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passes = seedPasses()
	s.teachers = seedTeachers()
	s.credentials = seedCredentials()
}

// ListPasses returns every pass in insertion order.
func (s *Store) ListPasses() []models.Pass {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Pass, len(s.passes))
	copy(out, s.passes)
	return out
}

// ListPassesByStudent filters the register by student id. An unknown
// student yields an empty slice, not an error.
func (s *Store) ListPassesByStudent(studentID string) []models.Pass {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Pass, 0)
	for _, p := range s.passes {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out
}

// ListPendingPasses returns passes still awaiting a faculty decision.
func (s *Store) ListPendingPasses() []models.Pass {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Pass, 0)
	for _, p := range s.passes {
		if p.Status == models.PassStatusPending {
			out = append(out, p)
		}
	}
	return out
}

// GetPassByID looks up a single pass.
func (s *Store) GetPassByID(id int) (models.Pass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.passIndex(id)
	if idx < 0 {
		return models.Pass{}, appErrors.Clone(appErrors.ErrNotFound, "pass not found")
	}
	return s.passes[idx], nil
}

// CreatePass appends a new pending pass. Ids are monotonic over the whole
// collection lifetime: max existing + 1, never reused. The store does not
// validate field content; that stays a caller concern.
func (s *Store) CreatePass(req models.CreatePassRequest) models.Pass {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxID := 0
	for _, p := range s.passes {
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	pass := models.Pass{
		ID:          maxID + 1,
		StudentID:   req.StudentID,
		StudentName: req.StudentName,
		TeacherID:   req.TeacherID,
		TeacherName: req.TeacherName,
		Reason:      req.Reason,
		Date:        req.Date,
		Time:        req.Time,
		Status:      models.PassStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	s.passes = append(s.passes, pass)
	s.logger.Info("pass created",
		zap.Int("pass_id", pass.ID),
		zap.String("student_id", pass.StudentID),
		zap.String("teacher_id", pass.TeacherID))
	return pass
}

// UpdatePassStatus applies a faculty decision. Approval mints the pass QR
// code exactly once. Re-applying the current terminal status is an
// idempotent no-op; flipping one terminal status to the other is refused.
func (s *Store) UpdatePassStatus(id int, status models.PassStatus) (models.Pass, error) {
	if !status.Decision() {
		return models.Pass{}, appErrors.Clone(appErrors.ErrValidation, "status must be Approved or Rejected")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.passIndex(id)
	if idx < 0 {
		return models.Pass{}, appErrors.Clone(appErrors.ErrNotFound, "pass not found")
	}

	pass := s.passes[idx]
	if pass.Status.Terminal() {
		if pass.Status == status {
			return pass, nil
		}
		return models.Pass{}, appErrors.Clone(appErrors.ErrInvalidState, "pass decision is final")
	}

	pass.Status = status
	if status == models.PassStatusApproved && pass.QRCode == "" {
		pass.QRCode = qrtoken.PassCode(pass.ID, time.Now().UTC())
	}
	s.passes[idx] = pass
	s.logger.Info("pass decision recorded",
		zap.Int("pass_id", pass.ID),
		zap.String("status", string(status)))
	return pass, nil
}

// ApplyQRVerification runs the gate's QR rule against a stored pass.
func (s *Store) ApplyQRVerification(id int) (models.Pass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.passIndex(id)
	if idx < 0 {
		return models.Pass{}, appErrors.Clone(appErrors.ErrNotFound, "pass not found")
	}

	updated, err := gate.ApplyQR(s.passes[idx])
	if err != nil {
		return models.Pass{}, err
	}
	s.passes[idx] = updated
	return updated, nil
}

// ApplyFacialVerification runs the gate's facial rule against a stored pass.
func (s *Store) ApplyFacialVerification(id int, match bool) (models.Pass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.passIndex(id)
	if idx < 0 {
		return models.Pass{}, appErrors.Clone(appErrors.ErrNotFound, "pass not found")
	}

	updated, err := gate.ApplyFacial(s.passes[idx], match)
	if err != nil {
		return models.Pass{}, err
	}
	s.passes[idx] = updated
	return updated, nil
}

// ListTeachers returns the full roster.
func (s *Store) ListTeachers() []models.Teacher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Teacher, len(s.teachers))
	copy(out, s.teachers)
	return out
}

// ListPresentTeachers filters the roster to teachers currently on campus.
func (s *Store) ListPresentTeachers() []models.Teacher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Teacher, 0)
	for _, t := range s.teachers {
		if t.IsPresent {
			out = append(out, t)
		}
	}
	return out
}

// ToggleTeacherPresence flips a teacher's presence flag.
func (s *Store) ToggleTeacherPresence(id string) (models.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.teachers {
		if t.ID == id {
			t.IsPresent = !t.IsPresent
			s.teachers[i] = t
			s.logger.Info("teacher presence toggled",
				zap.String("teacher_id", id),
				zap.Bool("is_present", t.IsPresent))
			return t, nil
		}
	}
	return models.Teacher{}, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
}

// FindCredential looks up a seeded login record.
func (s *Store) FindCredential(role models.UserRole, userID string) (models.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.credentials {
		if c.Role == role && c.UserID == userID {
			return c, true
		}
	}
	return models.Credential{}, false
}

// passIndex must be called with the lock held.
func (s *Store) passIndex(id int) int {
	for i, p := range s.passes {
		if p.ID == id {
			return i
		}
	}
	return -1
}
