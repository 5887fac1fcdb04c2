package approval

import "errors"

var (
	ErrApprovalNotFound  = errors.New("document approval not found")
	ErrStageNotFound     = errors.New("stage approval not found")
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrWorkflowInactive  = errors.New("workflow is not active")
	ErrAlreadySubmitted  = errors.New("document already has an open approval")
	ErrApprovalClosed    = errors.New("document approval is already completed")
	ErrStageNotCurrent   = errors.New("stage is not the current stage")
	ErrAlreadyDecided    = errors.New("stage approval was already decided")
	ErrNotAuthorized     = errors.New("not authorized to decide this stage")
	ErrReasonRequired    = errors.New("rejection reason is required")
	ErrInvalidFilter     = errors.New("invalid filter")

	// ErrVersionConflict is returned by UpdateApproval when the stored
	// version no longer matches the expected one.
	ErrVersionConflict = errors.New("document approval was modified concurrently")
)
