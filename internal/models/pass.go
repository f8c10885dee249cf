package models

import "time"

// PassStatus is the approval state of a gate pass.
type PassStatus string

const (
	PassStatusPending  PassStatus = "Pending"
	PassStatusApproved PassStatus = "Approved"
	PassStatusRejected PassStatus = "Rejected"
)

// Valid returns true when the status is a supported value.
func (s PassStatus) Valid() bool {
	switch s {
	case PassStatusPending, PassStatusApproved, PassStatusRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status can no longer change.
func (s PassStatus) Terminal() bool {
	return s == PassStatusApproved || s == PassStatusRejected
}

// Decision reports whether the status is a valid faculty decision.
func (s PassStatus) Decision() bool {
	return s == PassStatusApproved || s == PassStatusRejected
}

// VerificationState is the dual-verification sub-state of an approved pass.
type VerificationState string

const (
	VerificationNone       VerificationState = "NoneVerified"
	VerificationQROnly     VerificationState = "QROnly"
	VerificationFacialOnly VerificationState = "FacialOnly"
	VerificationBoth       VerificationState = "Both"
)

// Pass is a student's request for, and record of, permission to exit campus.
type Pass struct {
	ID          int        `json:"id"`
	StudentID   string     `json:"student_id"`
	StudentName string     `json:"student_name"`
	TeacherID   string     `json:"teacher_id"`
	TeacherName string     `json:"teacher_name"`
	Reason      string     `json:"reason"`
	Date        string     `json:"date"`
	Time        string     `json:"time,omitempty"`
	Status      PassStatus `json:"status"`
	// QRCode is set exactly once, at the Pending -> Approved transition.
	QRCode         string     `json:"qr_code,omitempty"`
	QRVerified     bool       `json:"qr_verified"`
	FacialVerified bool       `json:"facial_verified"`
	CanExit        bool       `json:"can_exit"`
	// FacialCheckedAt records that a facial check happened even when the
	// match was negative and FacialVerified was cleared.
	FacialCheckedAt *time.Time `json:"facial_checked_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CreatePassRequest is the student payload for a new pass request.
type CreatePassRequest struct {
	StudentID   string `json:"student_id" validate:"required"`
	StudentName string `json:"student_name"`
	TeacherID   string `json:"teacher_id" validate:"required"`
	TeacherName string `json:"teacher_name"`
	Reason      string `json:"reason" validate:"required"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// PassDecisionRequest is the faculty approve/reject payload.
type PassDecisionRequest struct {
	Status PassStatus `json:"status" validate:"required"`
}

// QRVerifyRequest carries a scanned QR payload targeted at a pass.
type QRVerifyRequest struct {
	PassID int    `json:"pass_id" validate:"required,gt=0"`
	QRData string `json:"qr_data" validate:"required"`
}

// FacialVerifyRequest carries the match outcome of a facial check.
type FacialVerifyRequest struct {
	Verified bool `json:"verified"`
}

// ExitStatus is the security-gate view of a pass.
type ExitStatus struct {
	PassID         int               `json:"pass_id"`
	StudentName    string            `json:"student_name"`
	Status         PassStatus        `json:"status"`
	QRVerified     bool              `json:"qr_verified"`
	FacialVerified bool              `json:"facial_verified"`
	CanExit        bool              `json:"can_exit"`
	Verification   VerificationState `json:"verification"`
}
