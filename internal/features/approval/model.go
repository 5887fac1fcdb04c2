package approval

import (
	"time"
)

type ApprovalStatus string

const (
	StatusPending    ApprovalStatus = "pending"
	StatusInProgress ApprovalStatus = "in_progress"
	StatusApproved   ApprovalStatus = "approved"
	StatusRejected   ApprovalStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed
func (s ApprovalStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// DocumentApproval tracks one submitted document through its workflow
type DocumentApproval struct {
	ID              string            `bson:"_id" json:"id"`
	DocumentID      string            `bson:"document_id" json:"document_id"`
	DocumentType    string            `bson:"document_type" json:"document_type"`
	ProjectID       string            `bson:"project_id,omitempty" json:"project_id,omitempty"`
	DocumentTitle   string            `bson:"document_title,omitempty" json:"document_title,omitempty"`
	Metadata        map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
	WorkflowID      string            `bson:"workflow_id" json:"workflow_id"`
	CurrentStageID  string            `bson:"current_stage_id" json:"current_stage_id"`
	Status          ApprovalStatus    `bson:"status" json:"status"`
	SubmittedBy     string            `bson:"submitted_by" json:"submitted_by"`
	SubmittedAt     time.Time         `bson:"submitted_at" json:"submitted_at"`
	Notes           string            `bson:"notes,omitempty" json:"notes,omitempty"`
	StageStartedAt  time.Time         `bson:"stage_started_at" json:"stage_started_at"`
	CompletedAt     *time.Time        `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CompletedBy     string            `bson:"completed_by,omitempty" json:"completed_by,omitempty"`
	RejectionReason string            `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	OverdueStageID  string            `bson:"overdue_stage_id,omitempty" json:"overdue_stage_id,omitempty"` // Stage an overdue notice was sent for
	Version         int64             `bson:"version" json:"version"`
	UpdatedAt       time.Time         `bson:"updated_at" json:"updated_at"`
}

// StageApproval is the decision row for one stage of one document approval
type StageApproval struct {
	ID                 string         `bson:"_id" json:"id"`
	DocumentApprovalID string         `bson:"document_approval_id" json:"document_approval_id"`
	StageID            string         `bson:"stage_id" json:"stage_id"`
	StageOrder         int            `bson:"stage_order" json:"stage_order"`
	Position           int            `bson:"position" json:"position"` // Index of the stage in the workflow definition
	StageName          string         `bson:"stage_name" json:"stage_name"`
	ApproverID         string         `bson:"approver_id,omitempty" json:"approver_id,omitempty"` // Assigned approver, empty means any holder of RequiredRole
	RequiredRole       string         `bson:"required_role,omitempty" json:"required_role,omitempty"`
	Status             ApprovalStatus `bson:"status" json:"status"`
	DecidedBy          string         `bson:"decided_by,omitempty" json:"decided_by,omitempty"`
	DecidedAt          *time.Time     `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
	Comments           string         `bson:"comments,omitempty" json:"comments,omitempty"`
	Signature          []byte         `bson:"signature,omitempty" json:"signature,omitempty"`
}

// ApprovalDetail is a document approval together with its stage rows
type ApprovalDetail struct {
	DocumentApproval
	Stages []StageApproval `json:"stages"`
}

// SubmitInput is the payload for submitting a document
type SubmitInput struct {
	WorkflowID    string            `json:"workflow_id,omitempty"` // Optional, resolved from document_type when empty
	DocumentID    string            `json:"document_id"`
	DocumentType  string            `json:"document_type"`
	ProjectID     string            `json:"project_id,omitempty"`
	DocumentTitle string            `json:"document_title,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Notes         string            `json:"notes,omitempty"`
}

// DecisionInput carries an approver's comments and optional signature
type DecisionInput struct {
	Comments  string `json:"comments,omitempty"`
	Signature []byte `json:"signature,omitempty"`
}

// RejectInput requires a reason in addition to the decision fields
type RejectInput struct {
	Reason string `json:"reason"`
	DecisionInput
}

// ApprovalFilter narrows ListApprovals. Empty fields match everything.
type ApprovalFilter struct {
	Status     ApprovalStatus
	DocumentID string
	ProjectID  string
	WorkflowID string
}

// PendingItem is a stage row an actor can decide now
type PendingItem struct {
	Stage    StageApproval    `json:"stage"`
	Approval DocumentApproval `json:"approval"`
}
