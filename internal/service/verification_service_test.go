package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusgate/gatepass-api/internal/models"
	"github.com/campusgate/gatepass-api/internal/store"
	appErrors "github.com/campusgate/gatepass-api/pkg/errors"
)

func newVerificationService() (*VerificationService, *store.Store) {
	st := store.New(zap.NewNop())
	svc := NewVerificationService(st, nil, nil, NewMetricsService(), zap.NewNop())
	return svc, st
}

func TestSubmitQRVerifiesApprovedPass(t *testing.T) {
	svc, st := newVerificationService()

	pass, err := st.GetPassByID(4)
	require.NoError(t, err)
	require.Equal(t, models.PassStatusApproved, pass.Status)
	require.False(t, pass.QRVerified)

	verified, err := svc.SubmitQR(context.Background(), "", models.QRVerifyRequest{
		PassID: 4,
		QRData: pass.QRCode,
	})
	require.NoError(t, err)
	assert.True(t, verified.QRVerified)
	assert.False(t, verified.CanExit)
}

func TestSubmitQRRejectsMismatchedPass(t *testing.T) {
	svc, st := newVerificationService()

	other, err := st.GetPassByID(3)
	require.NoError(t, err)

	_, err = svc.SubmitQR(context.Background(), "", models.QRVerifyRequest{
		PassID: 4,
		QRData: other.QRCode,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestSubmitQRRejectsGarbagePayload(t *testing.T) {
	svc, _ := newVerificationService()

	_, err := svc.SubmitQR(context.Background(), "", models.QRVerifyRequest{
		PassID: 4,
		QRData: "definitely not a qr code",
	})
	require.Error(t, err)
}

func TestSubmitQRRefusesPendingPass(t *testing.T) {
	svc, _ := newVerificationService()

	_, err := svc.SubmitQR(context.Background(), "", models.QRVerifyRequest{
		PassID: 1,
		QRData: "QR_PASS_1_1700000000000",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErr.Code)
}

func TestSubmitFacialCompletesExitGate(t *testing.T) {
	svc, st := newVerificationService()

	pass, err := st.GetPassByID(4)
	require.NoError(t, err)
	_, err = svc.SubmitQR(context.Background(), "", models.QRVerifyRequest{PassID: 4, QRData: pass.QRCode})
	require.NoError(t, err)

	verified, err := svc.SubmitFacial(context.Background(), "", 4, true)
	require.NoError(t, err)
	assert.True(t, verified.FacialVerified)
	assert.True(t, verified.CanExit)
	require.NotNil(t, verified.FacialCheckedAt)
}

func TestSubmitFacialFailureBlocksExit(t *testing.T) {
	svc, _ := newVerificationService()

	verified, err := svc.SubmitFacial(context.Background(), "", 3, false)
	require.NoError(t, err)
	assert.False(t, verified.FacialVerified)
	assert.False(t, verified.CanExit)
	require.NotNil(t, verified.FacialCheckedAt)
}

func TestSubmitFacialRejectsBadID(t *testing.T) {
	svc, _ := newVerificationService()

	_, err := svc.SubmitFacial(context.Background(), "", 0, true)
	require.Error(t, err)
}

func TestExitStatusStates(t *testing.T) {
	svc, _ := newVerificationService()

	cases := []struct {
		name    string
		passID  int
		canExit bool
		state   models.VerificationState
	}{
		{"fully verified", 3, true, models.VerificationBoth},
		{"unverified approved", 4, false, models.VerificationNone},
		{"rejected", 6, false, models.VerificationNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, err := svc.ExitStatus(context.Background(), "", tc.passID)
			require.NoError(t, err)
			assert.Equal(t, tc.canExit, status.CanExit)
			assert.Equal(t, tc.state, status.Verification)
		})
	}
}

func TestExitStatusUnknownPass(t *testing.T) {
	svc, _ := newVerificationService()

	_, err := svc.ExitStatus(context.Background(), "", 999)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
