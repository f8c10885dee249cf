package models

import "time"

// GateStats aggregates the pass register for the admin dashboard.
type GateStats struct {
	TotalRequests  int `json:"totalRequests"`
	ApprovedPasses int `json:"approvedPasses"`
	RejectedPasses int `json:"rejectedPasses"`
	PendingPasses  int `json:"pendingPasses"`
	// ApprovalRate is round(approved/total*100); zero when the register
	// is empty.
	ApprovalRate int `json:"approvalRate"`
}

// WeeklyBucket counts passes created on one weekday.
type WeeklyBucket struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// StatsReport is the full analytics payload.
type StatsReport struct {
	GateStats
	Weekly      []WeeklyBucket `json:"weekly"`
	GeneratedAt time.Time      `json:"generated_at"`
}
