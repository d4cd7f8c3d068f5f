package domain

import "time"

// SweepError records a single failed record inside a sweep without aborting it.
type SweepError struct {
	TransactionID string `json:"transaction_id"`
	StudentID     string `json:"student_id,omitempty"`
	Stage         string `json:"stage"` // "overdue_refresh" or "deduction"
	Message       string `json:"message"`
}

// SweepReport is the aggregate result of one full pass over all tracked
// transactions. Per-record failures land in Errors; the sweep itself only
// fails when the candidate set cannot be fetched.
type SweepReport struct {
	StartedAt      time.Time    `json:"started_at"`
	FinishedAt     time.Time    `json:"finished_at"`
	Processed      int          `json:"processed"`
	OverdueFlagged int          `json:"overdue_flagged"`
	Deducted       int          `json:"deducted"`
	PointsDeducted int          `json:"points_deducted"`
	Suspended      int          `json:"suspended"`
	Banned         int          `json:"banned"`
	Errors         []SweepError `json:"errors,omitempty"`
}

type SweepStatusResponse struct {
	Running    bool         `json:"running"`
	LastRun    *time.Time   `json:"last_run,omitempty"`
	NextRun    *time.Time   `json:"next_run,omitempty"`
	LastReport *SweepReport `json:"last_report,omitempty"`
}
