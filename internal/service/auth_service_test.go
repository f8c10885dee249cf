package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusgate/gatepass-api/internal/models"
	"github.com/campusgate/gatepass-api/internal/store"
	"github.com/campusgate/gatepass-api/pkg/config"
	appErrors "github.com/campusgate/gatepass-api/pkg/errors"
)

func newAuthService(t *testing.T, openMode bool) *AuthService {
	t.Helper()
	cfg := config.AuthConfig{
		JWTSecret:  "test-secret",
		Expiration: time.Hour,
		Issuer:     "gatepass-api-test",
		OpenMode:   openMode,
	}
	return NewAuthService(store.New(zap.NewNop()), nil, nil, zap.NewNop(), cfg)
}

func TestLoginWithSeededCredentials(t *testing.T) {
	svc := newAuthService(t, false)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Role:     models.RoleStudent,
		UserID:   "student@example.com",
		Password: "password",
	})
	require.NoError(t, err)
	assert.Equal(t, "John Student", res.Name)
	assert.Equal(t, models.RoleStudent, res.Role)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, int64(3600), res.ExpiresIn)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newAuthService(t, false)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Role:     models.RoleStudent,
		UserID:   "student@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestLoginRejectsMissingFields(t *testing.T) {
	svc := newAuthService(t, true)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Role:   models.RoleStudent,
		UserID: "student@example.com",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
	assert.Equal(t, "please enter credentials", appErr.Message)
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	svc := newAuthService(t, true)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Role:     "janitor",
		UserID:   "someone@example.com",
		Password: "password",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestLoginOpenModeAcceptsUnknownUser(t *testing.T) {
	svc := newAuthService(t, true)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Role:     models.RoleSecurity,
		UserID:   "anyone@example.com",
		Password: "whatever",
	})
	require.NoError(t, err)
	assert.Equal(t, "Security User", res.Name)
}

func TestLoginOpenModePrefersSeededName(t *testing.T) {
	svc := newAuthService(t, true)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Role:     models.RoleFaculty,
		UserID:   "faculty@example.com",
		Password: "password",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Faculty", res.Name)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc := newAuthService(t, false)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Role:     models.RoleAdmin,
		UserID:   "hod@example.com",
		Password: "password",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "hod@example.com", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "Prof. HOD", claims.Name)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc := newAuthService(t, false)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := newAuthService(t, false)
	res, err := issuer.Login(context.Background(), models.LoginRequest{
		Role:     models.RoleStudent,
		UserID:   "student@example.com",
		Password: "password",
	})
	require.NoError(t, err)

	verifier := NewAuthService(store.New(zap.NewNop()), nil, nil, zap.NewNop(), config.AuthConfig{
		JWTSecret:  "other-secret",
		Expiration: time.Hour,
	})
	_, err = verifier.ValidateToken(res.Token)
	require.Error(t, err)
}
