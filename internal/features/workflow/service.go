package workflow

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	common_models "go-approvals/internal/common/models"
	"go-approvals/internal/features/audit"
	"go-approvals/pkg/condition"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WorkflowService interface {
	CreateWorkflow(ctx context.Context, actor common_models.Actor, input CreateWorkflowInput) (*ApprovalWorkflow, error)
	GetWorkflow(ctx context.Context, id string) (*ApprovalWorkflow, error)
	ListWorkflows(ctx context.Context, filter WorkflowFilter) ([]ApprovalWorkflow, error)
	SetWorkflowActive(ctx context.Context, actor common_models.Actor, id string, active bool) (*ApprovalWorkflow, error)

	// ResolveWorkflow picks the active workflow for a document type, preferring
	// one scoped to projectID over a global one.
	ResolveWorkflow(ctx context.Context, documentType, projectID string) (*ApprovalWorkflow, error)
}

type WorkflowServiceImpl struct {
	Repo   WorkflowRepository
	Audit  audit.AuditService
	Logger *zap.Logger
	Now    func() time.Time
}

func NewWorkflowService(repo WorkflowRepository, auditService audit.AuditService, logger *zap.Logger) WorkflowService {
	return &WorkflowServiceImpl{
		Repo:   repo,
		Audit:  auditService,
		Logger: logger,
		Now:    time.Now,
	}
}

func (s *WorkflowServiceImpl) CreateWorkflow(ctx context.Context, actor common_models.Actor, input CreateWorkflowInput) (*ApprovalWorkflow, error) {
	if err := validateWorkflow(input); err != nil {
		return nil, err
	}

	now := s.Now().UTC()
	active := true
	if input.Active != nil {
		active = *input.Active
	}

	wf := &ApprovalWorkflow{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		DocumentType: strings.TrimSpace(input.DocumentType),
		ProjectID:    strings.TrimSpace(input.ProjectID),
		Active:       active,
		CreatedBy:    actor.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	stages := slices.Clone(input.Stages)
	slices.SortStableFunc(stages, func(a, b StageInput) int {
		return cmp.Compare(a.Order, b.Order)
	})
	for _, in := range stages {
		wf.Stages = append(wf.Stages, WorkflowStage{
			ID:                   uuid.NewString(),
			WorkflowID:           wf.ID,
			Order:                in.Order,
			Name:                 strings.TrimSpace(in.Name),
			RequiredRole:         strings.TrimSpace(in.RequiredRole),
			ApproverID:           strings.TrimSpace(in.ApproverID),
			Parallel:             in.Parallel,
			AutoApprove:          in.AutoApprove,
			AutoApproveCondition: in.AutoApproveCondition,
			DeadlineHours:        in.DeadlineHours,
		})
	}

	if err := s.Repo.Create(ctx, wf); err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	s.Logger.Info("Workflow created",
		zap.String("workflow_id", wf.ID),
		zap.String("document_type", wf.DocumentType),
		zap.Int("stages", len(wf.Stages)),
		zap.String("actor_id", actor.UserID),
	)

	_ = s.Audit.LogChange(ctx, audit.ActionWorkflowCreated, audit.EntityWorkflow, wf.ID, actor.UserID, map[string]audit.Change{
		"document_type": {New: wf.DocumentType},
		"project_id":    {New: wf.ProjectID},
		"stages":        {New: len(wf.Stages)},
		"active":        {New: wf.Active},
	})
	return wf, nil
}

func (s *WorkflowServiceImpl) GetWorkflow(ctx context.Context, id string) (*ApprovalWorkflow, error) {
	wf, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, ErrWorkflowNotFound
	}
	return wf, nil
}

func (s *WorkflowServiceImpl) ListWorkflows(ctx context.Context, filter WorkflowFilter) ([]ApprovalWorkflow, error) {
	return s.Repo.List(ctx, filter)
}

func (s *WorkflowServiceImpl) SetWorkflowActive(ctx context.Context, actor common_models.Actor, id string, active bool) (*ApprovalWorkflow, error) {
	old, err := s.GetWorkflow(ctx, id)
	if err != nil {
		return nil, err
	}

	found, err := s.Repo.SetActive(ctx, id, active, s.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrWorkflowNotFound
	}

	s.Logger.Info("Workflow active flag changed",
		zap.String("workflow_id", id),
		zap.Bool("active", active),
		zap.String("actor_id", actor.UserID),
	)

	action := audit.ActionWorkflowDeactivated
	if active {
		action = audit.ActionWorkflowActivated
	}
	_ = s.Audit.LogChange(ctx, action, audit.EntityWorkflow, id, actor.UserID, map[string]audit.Change{
		"active": {Old: old.Active, New: active},
	})
	return s.GetWorkflow(ctx, id)
}

func (s *WorkflowServiceImpl) ResolveWorkflow(ctx context.Context, documentType, projectID string) (*ApprovalWorkflow, error) {
	active := true
	candidates, err := s.Repo.List(ctx, WorkflowFilter{DocumentType: documentType, Active: &active})
	if err != nil {
		return nil, err
	}

	// Candidates come newest first
	var global *ApprovalWorkflow
	for i := range candidates {
		wf := &candidates[i]
		if projectID != "" && wf.ProjectID == projectID {
			return wf, nil
		}
		if wf.ProjectID == "" && global == nil {
			global = wf
		}
	}
	if global == nil {
		return nil, ErrNoActiveWorkflow
	}
	return global, nil
}

func validateWorkflow(input CreateWorkflowInput) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidWorkflow, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(input.Name) == "" {
		return invalid("name is required")
	}
	if strings.TrimSpace(input.DocumentType) == "" {
		return invalid("document_type is required")
	}
	if len(input.Stages) == 0 {
		return invalid("at least one stage is required")
	}

	orders := make([]int, 0, len(input.Stages))
	for i, st := range input.Stages {
		if strings.TrimSpace(st.Name) == "" {
			return invalid("stage %d: name is required", i+1)
		}
		if st.Order < 1 {
			return invalid("stage %q: order must be >= 1", st.Name)
		}
		if strings.TrimSpace(st.RequiredRole) == "" && strings.TrimSpace(st.ApproverID) == "" {
			return invalid("stage %q: required_role or approver_id is required", st.Name)
		}
		if st.DeadlineHours < 0 {
			return invalid("stage %q: deadline_hours must not be negative", st.Name)
		}
		if st.AutoApproveCondition != "" {
			if !st.AutoApprove {
				return invalid("stage %q: auto_approve_condition requires auto_approve", st.Name)
			}
			if _, err := condition.Compile(st.AutoApproveCondition); err != nil {
				return invalid("stage %q: %v", st.Name, err)
			}
		}
		orders = append(orders, st.Order)
	}

	// Distinct orders must run 1..K so advancement never skips a stage
	shared := make(map[int]int, len(orders))
	for _, o := range orders {
		shared[o]++
	}
	for _, st := range input.Stages {
		if shared[st.Order] > 1 && !st.Parallel {
			return invalid("stage %q shares order %d and must be marked parallel", st.Name, st.Order)
		}
	}
	slices.Sort(orders)
	orders = slices.Compact(orders)
	for i, o := range orders {
		if o != i+1 {
			return invalid("stage orders must be contiguous from 1, missing order %d", i+1)
		}
	}
	return nil
}
