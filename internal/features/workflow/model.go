package workflow

import (
	"time"
)

// ApprovalWorkflow defines the ordered stages a document type goes through.
// Stages are fixed once the workflow is created; Active is the only mutable flag.
type ApprovalWorkflow struct {
	ID           string          `bson:"_id" json:"id"`
	Name         string          `bson:"name" json:"name"`
	DocumentType string          `bson:"document_type" json:"document_type"`
	ProjectID    string          `bson:"project_id,omitempty" json:"project_id,omitempty"` // Empty applies to every project
	Active       bool            `bson:"active" json:"active"`
	Stages       []WorkflowStage `bson:"stages" json:"stages"` // Sorted by (Order, definition position)
	CreatedBy    string          `bson:"created_by" json:"created_by"`
	CreatedAt    time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at" json:"updated_at"`
}

// WorkflowStage is a single step. Stages sharing an Order form a parallel
// group and must all be approved before the workflow moves on; every member
// of a group carries Parallel, a stage alone at its order may leave it unset.
type WorkflowStage struct {
	ID                   string `bson:"id" json:"id"`
	WorkflowID           string `bson:"workflow_id" json:"workflow_id"`
	Order                int    `bson:"order" json:"order"`
	Name                 string `bson:"name" json:"name"`
	RequiredRole         string `bson:"required_role" json:"required_role"`
	ApproverID           string `bson:"approver_id,omitempty" json:"approver_id,omitempty"` // Pinned approver
	Parallel             bool   `bson:"parallel" json:"parallel"`
	AutoApprove          bool   `bson:"auto_approve" json:"auto_approve"`
	AutoApproveCondition string `bson:"auto_approve_condition,omitempty" json:"auto_approve_condition,omitempty"` // tengo script setting `result`
	DeadlineHours        int    `bson:"deadline_hours" json:"deadline_hours"`                                     // 0 means no deadline
}

// Deadline returns when a stage entered at startedAt becomes overdue
func (s WorkflowStage) Deadline(startedAt time.Time) (time.Time, bool) {
	if s.DeadlineHours <= 0 || startedAt.IsZero() {
		return time.Time{}, false
	}
	return startedAt.Add(time.Duration(s.DeadlineHours) * time.Hour), true
}

// Stage looks up a stage by id
func (w *ApprovalWorkflow) Stage(id string) (WorkflowStage, bool) {
	for _, s := range w.Stages {
		if s.ID == id {
			return s, true
		}
	}
	return WorkflowStage{}, false
}

// FirstStage returns the first stage of the lowest order
func (w *ApprovalWorkflow) FirstStage() (WorkflowStage, bool) {
	if len(w.Stages) == 0 {
		return WorkflowStage{}, false
	}
	return w.Stages[0], true
}

// StagesAt returns the stages sharing order
func (w *ApprovalWorkflow) StagesAt(order int) []WorkflowStage {
	var stages []WorkflowStage
	for _, s := range w.Stages {
		if s.Order == order {
			stages = append(stages, s)
		}
	}
	return stages
}

// CreateWorkflowInput is the admin payload for a new workflow
type CreateWorkflowInput struct {
	Name         string       `json:"name"`
	DocumentType string       `json:"document_type"`
	ProjectID    string       `json:"project_id,omitempty"`
	Active       *bool        `json:"active,omitempty"` // Defaults to true
	Stages       []StageInput `json:"stages"`
}

type StageInput struct {
	Order                int    `json:"order"`
	Name                 string `json:"name"`
	RequiredRole         string `json:"required_role"`
	ApproverID           string `json:"approver_id,omitempty"`
	Parallel             bool   `json:"parallel"`
	AutoApprove          bool   `json:"auto_approve"`
	AutoApproveCondition string `json:"auto_approve_condition,omitempty"`
	DeadlineHours        int    `json:"deadline_hours"`
}

// WorkflowFilter narrows ListWorkflows. Nil/empty fields match everything.
type WorkflowFilter struct {
	DocumentType string
	ProjectID    string
	Active       *bool
}
