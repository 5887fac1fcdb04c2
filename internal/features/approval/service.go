package approval

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	common_models "go-approvals/internal/common/models"
	"go-approvals/internal/features/audit"
	"go-approvals/internal/features/notification"
	"go-approvals/internal/features/workflow"
	"go-approvals/pkg/condition"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Advancement re-reads and retries this many times when another writer
// updates the same document approval in between.
const maxAdvanceAttempts = 5

type ApprovalService interface {
	Submit(ctx context.Context, actor common_models.Actor, input SubmitInput) (*ApprovalDetail, error)
	ApproveStage(ctx context.Context, actor common_models.Actor, stageApprovalID string, input DecisionInput) (*ApprovalDetail, error)
	RejectStage(ctx context.Context, actor common_models.Actor, stageApprovalID string, input RejectInput) (*ApprovalDetail, error)
	GetApproval(ctx context.Context, id string) (*ApprovalDetail, error)
	ListApprovals(ctx context.Context, filter ApprovalFilter) ([]DocumentApproval, error)
	ListPendingForApprover(ctx context.Context, actor common_models.Actor) ([]PendingItem, error)
}

type ApprovalServiceImpl struct {
	Repo      ApprovalRepository
	Workflows workflow.WorkflowService
	Notifier  notification.Notifier
	Audit     audit.AuditService
	Logger    *zap.Logger
	Now       func() time.Time

	conditions sync.Map // stage id -> *condition.Condition, stages never change after creation
}

func NewApprovalService(repo ApprovalRepository, workflows workflow.WorkflowService, notifier notification.Notifier, auditService audit.AuditService, logger *zap.Logger) ApprovalService {
	return &ApprovalServiceImpl{
		Repo:      repo,
		Workflows: workflows,
		Notifier:  notifier,
		Audit:     auditService,
		Logger:    logger,
		Now:       time.Now,
	}
}

func (s *ApprovalServiceImpl) Submit(ctx context.Context, actor common_models.Actor, input SubmitInput) (*ApprovalDetail, error) {
	input.DocumentID = strings.TrimSpace(input.DocumentID)
	input.DocumentType = strings.TrimSpace(input.DocumentType)
	if input.DocumentID == "" || input.DocumentType == "" {
		return nil, fmt.Errorf("%w: document_id and document_type are required", ErrInvalidSubmission)
	}

	wf, err := s.workflowFor(ctx, input)
	if err != nil {
		return nil, err
	}
	first, ok := wf.FirstStage()
	if !ok {
		return nil, fmt.Errorf("%w: workflow %s has no stages", ErrInvalidSubmission, wf.ID)
	}

	open, err := s.Repo.FindOpenByDocument(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrAlreadySubmitted
	}

	now := s.Now().UTC()
	approval := &DocumentApproval{
		ID:             uuid.NewString(),
		DocumentID:     input.DocumentID,
		DocumentType:   input.DocumentType,
		ProjectID:      strings.TrimSpace(input.ProjectID),
		DocumentTitle:  strings.TrimSpace(input.DocumentTitle),
		Metadata:       maps.Clone(input.Metadata),
		WorkflowID:     wf.ID,
		CurrentStageID: first.ID,
		Status:         StatusInProgress,
		SubmittedBy:    actor.UserID,
		SubmittedAt:    now,
		Notes:          input.Notes,
		StageStartedAt: now,
		Version:        1,
		UpdatedAt:      now,
	}

	rows := make([]StageApproval, 0, len(wf.Stages))
	for i, st := range wf.Stages {
		rows = append(rows, StageApproval{
			ID:                 uuid.NewString(),
			DocumentApprovalID: approval.ID,
			StageID:            st.ID,
			StageOrder:         st.Order,
			Position:           i,
			StageName:          st.Name,
			ApproverID:         st.ApproverID,
			RequiredRole:       st.RequiredRole,
			Status:             StatusPending,
		})
	}

	if err := s.Repo.CreateApproval(ctx, approval, rows); err != nil {
		if errors.Is(err, ErrAlreadySubmitted) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create document approval: %w", err)
	}

	s.Logger.Info("Document submitted for approval",
		zap.String("document_approval_id", approval.ID),
		zap.String("document_id", approval.DocumentID),
		zap.String("workflow_id", wf.ID),
		zap.Int("stages", len(rows)),
		zap.String("actor_id", actor.UserID),
	)
	s.record(ctx, audit.ActionApprovalSubmitted, approval.ID, actor.UserID, map[string]audit.Change{
		"document_id": {New: approval.DocumentID},
		"workflow_id": {New: wf.ID},
		"status":      {New: string(StatusInProgress)},
	})

	event, err := s.advance(ctx, approval.ID, wf, common_models.SystemActor)
	if err != nil {
		return nil, err
	}
	if event == nil {
		ev := notification.NewEvent(notification.EventRequest, approval.ID, first.ID)
		event = &ev
	}
	s.notify(ctx, *event)

	return s.GetApproval(ctx, approval.ID)
}

func (s *ApprovalServiceImpl) workflowFor(ctx context.Context, input SubmitInput) (*workflow.ApprovalWorkflow, error) {
	if input.WorkflowID == "" {
		return s.Workflows.ResolveWorkflow(ctx, input.DocumentType, strings.TrimSpace(input.ProjectID))
	}

	wf, err := s.Workflows.GetWorkflow(ctx, input.WorkflowID)
	if err != nil {
		return nil, err
	}
	if !wf.Active {
		return nil, ErrWorkflowInactive
	}
	if wf.DocumentType != input.DocumentType {
		return nil, fmt.Errorf("%w: workflow %s handles %q documents", ErrInvalidSubmission, wf.ID, wf.DocumentType)
	}
	if wf.ProjectID != "" && wf.ProjectID != strings.TrimSpace(input.ProjectID) {
		return nil, fmt.Errorf("%w: workflow %s belongs to project %q", ErrInvalidSubmission, wf.ID, wf.ProjectID)
	}
	return wf, nil
}

func (s *ApprovalServiceImpl) ApproveStage(ctx context.Context, actor common_models.Actor, stageApprovalID string, input DecisionInput) (*ApprovalDetail, error) {
	row, approval, err := s.loadForDecision(ctx, actor, stageApprovalID)
	if err != nil {
		return nil, err
	}

	switch row.Status {
	case StatusRejected:
		return nil, ErrAlreadyDecided
	case StatusPending:
		if err := s.ensureCurrent(ctx, approval, row); err != nil {
			return nil, err
		}

		now := s.Now().UTC()
		row.Status = StatusApproved
		row.DecidedBy = actor.UserID
		row.DecidedAt = &now
		row.Comments = input.Comments
		row.Signature = input.Signature

		decided, err := s.Repo.DecideStage(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("failed to record approval: %w", err)
		}
		if !decided {
			// Someone else decided first; a concurrent approval is harmless
			fresh, err := s.Repo.GetStage(ctx, row.ID)
			if err != nil {
				return nil, err
			}
			if fresh == nil || fresh.Status != StatusApproved {
				return nil, ErrAlreadyDecided
			}
		} else {
			s.Logger.Info("Stage approved",
				zap.String("document_approval_id", approval.ID),
				zap.String("stage_approval_id", row.ID),
				zap.String("stage", row.StageName),
				zap.String("actor_id", actor.UserID),
			)
			s.record(ctx, audit.ActionStageApproved, approval.ID, actor.UserID, stageChange(row))
		}
	}

	// Approved rows fall through so a retried request repairs a parent whose
	// advancement was interrupted.
	wf, err := s.Workflows.GetWorkflow(ctx, approval.WorkflowID)
	if err != nil {
		return nil, err
	}
	event, err := s.advance(ctx, approval.ID, wf, actor.UserID)
	if err != nil {
		return nil, err
	}
	if event != nil {
		s.notify(ctx, *event)
	}

	return s.GetApproval(ctx, approval.ID)
}

func (s *ApprovalServiceImpl) RejectStage(ctx context.Context, actor common_models.Actor, stageApprovalID string, input RejectInput) (*ApprovalDetail, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	row, approval, err := s.loadForDecision(ctx, actor, stageApprovalID)
	if err != nil {
		return nil, err
	}

	switch row.Status {
	case StatusApproved:
		return nil, ErrAlreadyDecided
	case StatusPending:
		if err := s.ensureCurrent(ctx, approval, row); err != nil {
			return nil, err
		}

		now := s.Now().UTC()
		row.Status = StatusRejected
		row.DecidedBy = actor.UserID
		row.DecidedAt = &now
		row.Comments = input.Comments
		row.Signature = input.Signature

		decided, err := s.Repo.DecideStage(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("failed to record rejection: %w", err)
		}
		if !decided {
			fresh, err := s.Repo.GetStage(ctx, row.ID)
			if err != nil {
				return nil, err
			}
			if fresh == nil || fresh.Status != StatusRejected {
				return nil, ErrAlreadyDecided
			}
		}
	}

	// A rejected row on an open parent means an earlier call stopped before
	// closing it; finishing the job here is safe.
	if err := s.closeRejected(ctx, approval.ID, actor.UserID, reason); err != nil {
		return nil, err
	}

	s.Logger.Info("Document approval rejected",
		zap.String("document_approval_id", approval.ID),
		zap.String("stage_approval_id", row.ID),
		zap.String("stage", row.StageName),
		zap.String("actor_id", actor.UserID),
	)
	s.notify(ctx, notification.NewEvent(notification.EventRejected, approval.ID, row.StageID))

	return s.GetApproval(ctx, approval.ID)
}

func (s *ApprovalServiceImpl) closeRejected(ctx context.Context, approvalID, actorID, reason string) error {
	for attempt := 0; attempt < maxAdvanceAttempts; attempt++ {
		approval, err := s.Repo.GetApproval(ctx, approvalID)
		if err != nil {
			return err
		}
		if approval == nil {
			return ErrApprovalNotFound
		}
		if approval.Status.IsTerminal() {
			return ErrApprovalClosed
		}

		now := s.Now().UTC()
		approval.Status = StatusRejected
		approval.RejectionReason = reason
		approval.CompletedAt = &now
		approval.CompletedBy = actorID
		approval.UpdatedAt = now

		previous := approval.Status
		err = s.Repo.UpdateApproval(ctx, approval, approval.Version)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to reject document approval: %w", err)
		}

		s.record(ctx, audit.ActionApprovalRejected, approval.ID, actorID, map[string]audit.Change{
			"status":           {Old: string(previous), New: string(StatusRejected)},
			"rejection_reason": {New: reason},
		})
		return nil
	}
	return ErrVersionConflict
}

// loadForDecision loads a stage row and its open parent and checks that the
// actor may decide it.
func (s *ApprovalServiceImpl) loadForDecision(ctx context.Context, actor common_models.Actor, stageApprovalID string) (*StageApproval, *DocumentApproval, error) {
	row, err := s.Repo.GetStage(ctx, stageApprovalID)
	if err != nil {
		return nil, nil, err
	}
	if row == nil {
		return nil, nil, ErrStageNotFound
	}

	approval, err := s.Repo.GetApproval(ctx, row.DocumentApprovalID)
	if err != nil {
		return nil, nil, err
	}
	if approval == nil {
		return nil, nil, ErrApprovalNotFound
	}
	if approval.Status.IsTerminal() {
		return nil, nil, ErrApprovalClosed
	}
	if !canDecide(actor, *row) {
		return nil, nil, ErrNotAuthorized
	}
	return row, approval, nil
}

func (s *ApprovalServiceImpl) ensureCurrent(ctx context.Context, approval *DocumentApproval, row *StageApproval) error {
	rows, err := s.Repo.ListStages(ctx, approval.ID)
	if err != nil {
		return err
	}
	current, ok := orderOf(rows, approval.CurrentStageID)
	if !ok || row.StageOrder != current {
		return ErrStageNotCurrent
	}
	return nil
}

// advance moves the approval forward while every row at the current order is
// approved, auto-approving rows as their order becomes current. It returns the
// event for the state it lands in, or nil when nothing moved.
func (s *ApprovalServiceImpl) advance(ctx context.Context, approvalID string, wf *workflow.ApprovalWorkflow, actorID string) (*notification.Event, error) {
	var event *notification.Event
	conflicts := 0

	for {
		approval, err := s.Repo.GetApproval(ctx, approvalID)
		if err != nil {
			return event, err
		}
		if approval == nil {
			return event, ErrApprovalNotFound
		}
		if approval.Status.IsTerminal() {
			return event, nil
		}

		rows, err := s.Repo.ListStages(ctx, approval.ID)
		if err != nil {
			return event, err
		}
		current, ok := orderOf(rows, approval.CurrentStageID)
		if !ok {
			return event, fmt.Errorf("current stage %s of %s has no stage approval", approval.CurrentStageID, approval.ID)
		}

		if err := s.autoApprove(ctx, approval, wf, rows, current); err != nil {
			return event, err
		}
		if !allApproved(rows, current) {
			return event, nil
		}

		now := s.Now().UTC()
		expected := approval.Version
		previousStage := approval.CurrentStageID
		var next notification.Event
		if nextRow, found := firstAfter(rows, current); found {
			approval.CurrentStageID = nextRow.StageID
			approval.StageStartedAt = now
			approval.OverdueStageID = ""
			next = notification.NewEvent(notification.EventRequest, approval.ID, nextRow.StageID)
		} else {
			approval.Status = StatusApproved
			approval.CompletedAt = &now
			approval.CompletedBy = actorID
			next = notification.NewEvent(notification.EventCompleted, approval.ID, "")
		}
		approval.UpdatedAt = now

		err = s.Repo.UpdateApproval(ctx, approval, expected)
		if errors.Is(err, ErrVersionConflict) {
			conflicts++
			if conflicts >= maxAdvanceAttempts {
				return event, err
			}
			s.Logger.Debug("Retrying advancement after concurrent update", zap.String("document_approval_id", approval.ID))
			continue
		}
		if err != nil {
			return event, fmt.Errorf("failed to advance document approval: %w", err)
		}

		event = &next
		if approval.Status == StatusApproved {
			s.Logger.Info("Document approval completed", zap.String("document_approval_id", approval.ID))
			s.record(ctx, audit.ActionApprovalCompleted, approval.ID, actorID, map[string]audit.Change{
				"status": {Old: string(StatusInProgress), New: string(StatusApproved)},
			})
			return event, nil
		}
		s.record(ctx, audit.ActionApprovalAdvanced, approval.ID, actorID, map[string]audit.Change{
			"current_stage_id": {Old: previousStage, New: approval.CurrentStageID},
		})
	}
}

// autoApprove decides pending rows at order whose stage approves itself.
// rows is updated in place.
func (s *ApprovalServiceImpl) autoApprove(ctx context.Context, approval *DocumentApproval, wf *workflow.ApprovalWorkflow, rows []StageApproval, order int) error {
	for i := range rows {
		row := &rows[i]
		if row.StageOrder != order || row.Status != StatusPending {
			continue
		}
		stage, ok := wf.Stage(row.StageID)
		if !ok || !stage.AutoApprove {
			continue
		}

		pass, err := s.evaluateCondition(ctx, stage, approval)
		if err != nil {
			// Left for a human approver
			s.Logger.Warn("Auto-approve condition failed",
				zap.String("document_approval_id", approval.ID),
				zap.String("stage_id", stage.ID),
				zap.Error(err),
			)
			continue
		}
		if !pass {
			continue
		}

		now := s.Now().UTC()
		decision := *row
		decision.Status = StatusApproved
		decision.DecidedBy = common_models.SystemActor
		decision.DecidedAt = &now
		decision.Comments = "auto-approved"

		decided, err := s.Repo.DecideStage(ctx, &decision)
		if err != nil {
			return fmt.Errorf("failed to auto-approve stage: %w", err)
		}
		if decided {
			*row = decision
			s.Logger.Info("Stage auto-approved",
				zap.String("document_approval_id", approval.ID),
				zap.String("stage", row.StageName),
			)
			s.record(ctx, audit.ActionStageApproved, approval.ID, common_models.SystemActor, stageChange(row))
			continue
		}

		fresh, err := s.Repo.GetStage(ctx, row.ID)
		if err != nil {
			return err
		}
		if fresh != nil {
			*row = *fresh
		}
	}
	return nil
}

func (s *ApprovalServiceImpl) evaluateCondition(ctx context.Context, stage workflow.WorkflowStage, approval *DocumentApproval) (bool, error) {
	if stage.AutoApproveCondition == "" {
		return true, nil
	}

	var cond *condition.Condition
	if cached, ok := s.conditions.Load(stage.ID); ok {
		cond = cached.(*condition.Condition)
	} else {
		compiled, err := condition.Compile(stage.AutoApproveCondition)
		if err != nil {
			return false, err
		}
		s.conditions.Store(stage.ID, compiled)
		cond = compiled
	}

	return cond.Evaluate(ctx, condition.Input{
		DocumentType: approval.DocumentType,
		ProjectID:    approval.ProjectID,
		Metadata:     approval.Metadata,
	})
}

// record writes an audit entry for a document approval. Write failures are
// logged by the audit service and never fail the decision.
func (s *ApprovalServiceImpl) record(ctx context.Context, action audit.AuditAction, approvalID, actorID string, changes map[string]audit.Change) {
	_ = s.Audit.LogChange(ctx, action, audit.EntityApproval, approvalID, actorID, changes)
}

func stageChange(row *StageApproval) map[string]audit.Change {
	return map[string]audit.Change{
		"stage_approval_id": {New: row.ID},
		"stage":             {New: row.StageName},
		"status":            {Old: string(StatusPending), New: string(StatusApproved)},
	}
}

func (s *ApprovalServiceImpl) notify(ctx context.Context, event notification.Event) {
	// Delivery failures are already logged per sink
	if err := s.Notifier.Notify(ctx, event); err != nil {
		s.Logger.Debug("Approval event not fully delivered",
			zap.String("type", string(event.Type)),
			zap.String("document_approval_id", event.DocumentApprovalID),
		)
	}
}

func (s *ApprovalServiceImpl) GetApproval(ctx context.Context, id string) (*ApprovalDetail, error) {
	approval, err := s.Repo.GetApproval(ctx, id)
	if err != nil {
		return nil, err
	}
	if approval == nil {
		return nil, ErrApprovalNotFound
	}

	rows, err := s.Repo.ListStages(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ApprovalDetail{DocumentApproval: *approval, Stages: rows}, nil
}

func (s *ApprovalServiceImpl) ListApprovals(ctx context.Context, filter ApprovalFilter) ([]DocumentApproval, error) {
	return s.Repo.ListApprovals(ctx, filter)
}

func (s *ApprovalServiceImpl) ListPendingForApprover(ctx context.Context, actor common_models.Actor) ([]PendingItem, error) {
	approvals, err := s.Repo.ListApprovals(ctx, ApprovalFilter{Status: StatusInProgress})
	if err != nil {
		return nil, err
	}
	items := []PendingItem{}
	if len(approvals) == 0 {
		return items, nil
	}

	ids := make([]string, len(approvals))
	for i, a := range approvals {
		ids[i] = a.ID
	}
	rows, err := s.Repo.ListStages(ctx, ids...)
	if err != nil {
		return nil, err
	}

	byApproval := make(map[string][]StageApproval, len(approvals))
	for _, r := range rows {
		byApproval[r.DocumentApprovalID] = append(byApproval[r.DocumentApprovalID], r)
	}

	for _, a := range approvals {
		stages := byApproval[a.ID]
		current, ok := orderOf(stages, a.CurrentStageID)
		if !ok {
			continue
		}
		for _, r := range stages {
			if r.StageOrder == current && r.Status == StatusPending && canDecide(actor, r) {
				items = append(items, PendingItem{Stage: r, Approval: a})
			}
		}
	}
	return items, nil
}

// canDecide: admins always, a pinned approver only themselves, otherwise
// any holder of the required role.
func canDecide(actor common_models.Actor, row StageApproval) bool {
	if actor.IsAdmin() {
		return true
	}
	if row.ApproverID != "" {
		return actor.UserID == row.ApproverID
	}
	return actor.HasRole(row.RequiredRole)
}

func orderOf(rows []StageApproval, stageID string) (int, bool) {
	for _, r := range rows {
		if r.StageID == stageID {
			return r.StageOrder, true
		}
	}
	return 0, false
}

func allApproved(rows []StageApproval, order int) bool {
	for _, r := range rows {
		if r.StageOrder == order && r.Status != StatusApproved {
			return false
		}
	}
	return true
}

// firstAfter returns the first row of the smallest order above order. rows
// must be sorted by order and position.
func firstAfter(rows []StageApproval, order int) (StageApproval, bool) {
	for _, r := range rows {
		if r.StageOrder > order {
			return r, true
		}
	}
	return StageApproval{}, false
}
