// Package gate holds the dual-verification rule deciding exit eligibility.
// Its functions are pure over a Pass value and never touch the pass status;
// persistence belongs to the record store.
package gate

import (
	"time"

	"github.com/campusgate/gatepass-api/internal/models"
	appErrors "github.com/campusgate/gatepass-api/pkg/errors"
)

// ApplyQR records that the pass QR code was scanned at the gate. The pass
// must already be approved.
func ApplyQR(p models.Pass) (models.Pass, error) {
	if p.Status != models.PassStatusApproved {
		return p, appErrors.Clone(appErrors.ErrInvalidState, "pass is not approved for verification")
	}
	p.QRVerified = true
	p.CanExit = p.QRVerified && p.FacialVerified
	return p, nil
}

// ApplyFacial records the outcome of a facial check. A negative match
// clears any earlier positive one; the check itself is still stamped on
// the pass so the audit trail survives.
func ApplyFacial(p models.Pass, match bool) (models.Pass, error) {
	if p.Status != models.PassStatusApproved {
		return p, appErrors.Clone(appErrors.ErrInvalidState, "pass is not approved for verification")
	}
	now := time.Now().UTC()
	p.FacialVerified = match
	p.FacialCheckedAt = &now
	p.CanExit = p.QRVerified && p.FacialVerified
	return p, nil
}

// State reports the verification sub-state of a pass. Both is the only
// state in which exit is permitted.
func State(p models.Pass) models.VerificationState {
	switch {
	case p.QRVerified && p.FacialVerified:
		return models.VerificationBoth
	case p.QRVerified:
		return models.VerificationQROnly
	case p.FacialVerified:
		return models.VerificationFacialOnly
	default:
		return models.VerificationNone
	}
}
