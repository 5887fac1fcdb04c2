package deadline

import (
	"time"
)

// ScanResult summarises one pass over the open approvals
type ScanResult struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Checked    int       `json:"checked"`
	Flagged    int       `json:"flagged"` // Overdue notices sent in this pass
	Error      string    `json:"error,omitempty"`
}

// SchedulerStatus is reported by GET /api/deadlines
type SchedulerStatus struct {
	Schedule string      `json:"schedule"`
	Running  bool        `json:"running"`
	NextRun  *time.Time  `json:"next_run,omitempty"`
	LastScan *ScanResult `json:"last_scan,omitempty"`
}
