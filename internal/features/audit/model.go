package audit

import (
	"time"
)

type AuditAction string

const (
	ActionWorkflowCreated     AuditAction = "workflow.created"
	ActionWorkflowActivated   AuditAction = "workflow.activated"
	ActionWorkflowDeactivated AuditAction = "workflow.deactivated"

	ActionApprovalSubmitted AuditAction = "approval.submitted"
	ActionStageApproved     AuditAction = "approval.stage_approved"
	ActionApprovalAdvanced  AuditAction = "approval.advanced"
	ActionApprovalCompleted AuditAction = "approval.completed"
	ActionApprovalRejected  AuditAction = "approval.rejected"
)

// Entities an audit entry can point at
const (
	EntityWorkflow = "approval_workflows"
	EntityApproval = "document_approvals"
)

// Change is the before and after value of one field
type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        string            `bson:"_id" json:"id"`
	Action    AuditAction       `bson:"action" json:"action"`
	Entity    string            `bson:"entity" json:"entity"`
	RecordID  string            `bson:"record_id" json:"record_id"`
	ActorID   string            `bson:"actor_id" json:"actor_id"` // "system" for automatic steps
	Changes   map[string]Change `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time         `bson:"timestamp" json:"timestamp"`
}

// AuditFilter narrows ListLogs. Empty fields match everything.
type AuditFilter struct {
	Entity   string
	RecordID string
	ActorID  string
	Action   AuditAction
}
