package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusgate/gatepass-api/internal/middleware"
	"github.com/campusgate/gatepass-api/internal/models"
	"github.com/campusgate/gatepass-api/internal/service"
	"github.com/campusgate/gatepass-api/internal/store"
)

type testEnv struct {
	store    *store.Store
	student  *StudentHandler
	faculty  *FacultyHandler
	teacher  *TeacherHandler
	security *SecurityHandler
	stats    *StatsHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	st := store.New(logger)
	metrics := service.NewMetricsService()

	passes := service.NewPassService(st, nil, nil, metrics, nil, logger)
	teachers := service.NewTeacherService(st, nil, metrics, logger)
	verification := service.NewVerificationService(st, nil, nil, metrics, logger)
	stats := service.NewStatsService(st, nil, metrics, nil, logger)
	export := service.NewExportService(st, logger)

	return &testEnv{
		store:    st,
		student:  NewStudentHandler(passes),
		faculty:  NewFacultyHandler(passes),
		teacher:  NewTeacherHandler(teachers),
		security: NewSecurityHandler(verification),
		stats:    NewStatsHandler(stats, export),
	}
}

func testContext(t *testing.T, method, target string, body interface{}, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var envelope struct {
		Success bool                       `json:"success"`
		Data    map[string]json.RawMessage `json:"data"`
		Error   string                     `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "unexpected error: %s", envelope.Error)
	return envelope.Data
}

func TestStudentListPasses(t *testing.T) {
	env := newTestEnv(t)
	claims := &models.JWTClaims{UserID: "STU001", Role: models.RoleStudent, Name: "John Student"}

	c, w := testContext(t, http.MethodGet, "/api/v1/student/passes", nil, claims)
	env.student.ListPasses(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)

	var passes []models.Pass
	require.NoError(t, json.Unmarshal(data["passes"], &passes))
	require.Len(t, passes, 2)
	for _, p := range passes {
		assert.Equal(t, "STU001", p.StudentID)
	}
}

func TestStudentListPassesRequiresClaims(t *testing.T) {
	env := newTestEnv(t)

	c, w := testContext(t, http.MethodGet, "/api/v1/student/passes", nil, nil)
	env.student.ListPasses(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStudentRequestPassFillsIdentityFromClaims(t *testing.T) {
	env := newTestEnv(t)
	claims := &models.JWTClaims{UserID: "STU009", Role: models.RoleStudent, Name: "New Student"}

	c, w := testContext(t, http.MethodPost, "/api/v1/student/request", models.CreatePassRequest{
		TeacherID:   "T001",
		TeacherName: "Prof Jayshri Harde",
		Reason:      "Medical",
		Date:        "2026-08-31",
	}, claims)
	env.student.RequestPass(c)

	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w)

	var pass models.Pass
	require.NoError(t, json.Unmarshal(data["pass"], &pass))
	assert.Equal(t, 7, pass.ID)
	assert.Equal(t, "STU009", pass.StudentID)
	assert.Equal(t, "New Student", pass.StudentName)
	assert.Equal(t, models.PassStatusPending, pass.Status)
}

func TestStudentRequestPassRejectsMalformedBody(t *testing.T) {
	env := newTestEnv(t)
	claims := &models.JWTClaims{UserID: "STU009", Role: models.RoleStudent}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/student/request", bytes.NewBufferString(`{"reason":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, claims)

	env.student.RequestPass(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFacultyListRequestsWithFilter(t *testing.T) {
	env := newTestEnv(t)
	claims := &models.JWTClaims{UserID: "faculty@example.com", Role: models.RoleFaculty}

	c, w := testContext(t, http.MethodGet, "/api/v1/faculty/requests?status=Pending", nil, claims)
	env.faculty.ListRequests(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)

	var requests []models.Pass
	require.NoError(t, json.Unmarshal(data["requests"], &requests))
	require.Len(t, requests, 2)
	for _, p := range requests {
		assert.Equal(t, models.PassStatusPending, p.Status)
	}
}

func TestFacultyDecideApproves(t *testing.T) {
	env := newTestEnv(t)
	claims := &models.JWTClaims{UserID: "faculty@example.com", Role: models.RoleFaculty}

	c, w := testContext(t, http.MethodPut, "/api/v1/faculty/request/1", models.PassDecisionRequest{
		Status: models.PassStatusApproved,
	}, claims)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.faculty.Decide(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)

	var pass models.Pass
	require.NoError(t, json.Unmarshal(data["pass"], &pass))
	assert.Equal(t, models.PassStatusApproved, pass.Status)
	assert.NotEmpty(t, pass.QRCode)
}

func TestFacultyDecideRejectsTerminalPass(t *testing.T) {
	env := newTestEnv(t)
	claims := &models.JWTClaims{UserID: "faculty@example.com", Role: models.RoleFaculty}

	c, w := testContext(t, http.MethodPut, "/api/v1/faculty/request/6", models.PassDecisionRequest{
		Status: models.PassStatusApproved,
	}, claims)
	c.Params = gin.Params{{Key: "id", Value: "6"}}
	env.faculty.Decide(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFacultyDecideRejectsNonNumericID(t *testing.T) {
	env := newTestEnv(t)
	claims := &models.JWTClaims{UserID: "faculty@example.com", Role: models.RoleFaculty}

	c, w := testContext(t, http.MethodPut, "/api/v1/faculty/request/abc", models.PassDecisionRequest{
		Status: models.PassStatusApproved,
	}, claims)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	env.faculty.Decide(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeacherRosterEndpoints(t *testing.T) {
	env := newTestEnv(t)
	claims := &models.JWTClaims{UserID: "STU001", Role: models.RoleStudent}

	c, w := testContext(t, http.MethodGet, "/api/v1/teachers", nil, claims)
	env.teacher.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)

	var teachers []models.Teacher
	require.NoError(t, json.Unmarshal(data["teachers"], &teachers))
	assert.Len(t, teachers, 4)
}

func TestTeacherTogglePresence(t *testing.T) {
	env := newTestEnv(t)
	claims := &models.JWTClaims{UserID: "faculty@example.com", Role: models.RoleFaculty}

	c, w := testContext(t, http.MethodPut, "/api/v1/teachers/T001/presence", nil, claims)
	c.Params = gin.Params{{Key: "id", Value: "T001"}}
	env.teacher.TogglePresence(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)

	var teacher models.Teacher
	require.NoError(t, json.Unmarshal(data["teacher"], &teacher))
	assert.False(t, teacher.IsPresent)

	// The roster of present teachers shrinks accordingly.
	c2, w2 := testContext(t, http.MethodGet, "/api/v1/teachers/present", nil, claims)
	env.teacher.ListPresent(c2)
	require.Equal(t, http.StatusOK, w2.Code)

	var present []models.Teacher
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w2)["teachers"], &present))
	assert.Len(t, present, 3)
}

func TestTeacherTogglePresenceUnknownID(t *testing.T) {
	env := newTestEnv(t)
	claims := &models.JWTClaims{UserID: "faculty@example.com", Role: models.RoleFaculty}

	c, w := testContext(t, http.MethodPut, "/api/v1/teachers/T999/presence", nil, claims)
	c.Params = gin.Params{{Key: "id", Value: "T999"}}
	env.teacher.TogglePresence(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSecurityVerifyFlow(t *testing.T) {
	env := newTestEnv(t)
	claims := &models.JWTClaims{UserID: "security@example.com", Role: models.RoleSecurity}

	seeded, err := env.store.GetPassByID(4)
	require.NoError(t, err)

	c, w := testContext(t, http.MethodPost, "/api/v1/security/verify", models.QRVerifyRequest{
		PassID: 4,
		QRData: seeded.QRCode,
	}, claims)
	env.security.VerifyQR(c)
	require.Equal(t, http.StatusOK, w.Code)

	var pass models.Pass
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w)["pass"], &pass))
	assert.True(t, pass.QRVerified)
	assert.False(t, pass.CanExit)

	c2, w2 := testContext(t, http.MethodPut, "/api/v1/security/facial-verify/4", models.FacialVerifyRequest{
		Verified: true,
	}, claims)
	c2.Params = gin.Params{{Key: "id", Value: "4"}}
	env.security.VerifyFacial(c2)
	require.Equal(t, http.StatusOK, w2.Code)

	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w2)["pass"], &pass))
	assert.True(t, pass.CanExit)

	c3, w3 := testContext(t, http.MethodGet, "/api/v1/passes/4/exit-status", nil, claims)
	c3.Params = gin.Params{{Key: "id", Value: "4"}}
	env.security.ExitStatus(c3)
	require.Equal(t, http.StatusOK, w3.Code)

	var status models.ExitStatus
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w3)["exit_status"], &status))
	assert.True(t, status.CanExit)
	assert.Equal(t, models.VerificationBoth, status.Verification)
}

func TestSecurityVerifyQROnPendingPass(t *testing.T) {
	env := newTestEnv(t)
	claims := &models.JWTClaims{UserID: "security@example.com", Role: models.RoleSecurity}

	c, w := testContext(t, http.MethodPost, "/api/v1/security/verify", models.QRVerifyRequest{
		PassID: 1,
		QRData: "QR_PASS_1_1700000000000",
	}, claims)
	env.security.VerifyQR(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminStats(t *testing.T) {
	env := newTestEnv(t)
	claims := &models.JWTClaims{UserID: "hod@example.com", Role: models.RoleAdmin}

	c, w := testContext(t, http.MethodGet, "/api/v1/admin/stats", nil, claims)
	env.stats.Stats(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Success bool               `json:"success"`
		Data    models.StatsReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	assert.Equal(t, 6, envelope.Data.TotalRequests)
	assert.Equal(t, 50, envelope.Data.ApprovalRate)
	assert.Len(t, envelope.Data.Weekly, 7)
}

func TestAdminExportCSV(t *testing.T) {
	env := newTestEnv(t)
	claims := &models.JWTClaims{UserID: "hod@example.com", Role: models.RoleAdmin}

	c, w := testContext(t, http.MethodGet, "/api/v1/admin/export?format=csv", nil, claims)
	env.stats.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "John Student")
}

func TestAdminExportUnknownFormat(t *testing.T) {
	env := newTestEnv(t)
	claims := &models.JWTClaims{UserID: "hod@example.com", Role: models.RoleAdmin}

	c, w := testContext(t, http.MethodGet, "/api/v1/admin/export?format=xlsx", nil, claims)
	env.stats.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
