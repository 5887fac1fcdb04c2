package approval

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	common_models "go-approvals/internal/common/models"
	"go-approvals/internal/features/audit"
	"go-approvals/internal/features/notification"
	"go-approvals/internal/features/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.Event
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event notification.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) types() []notification.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notification.EventType, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

func (n *recordingNotifier) last() notification.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[len(n.events)-1]
}

type fixture struct {
	svc       *ApprovalServiceImpl
	repo      *MemoryApprovalRepository
	workflows workflow.WorkflowService
	notifier  *recordingNotifier
	audits    audit.AuditService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	audits := audit.NewAuditService(audit.NewMemoryAuditRepository(), zap.NewNop())
	workflows := workflow.NewWorkflowService(workflow.NewMemoryWorkflowRepository(), audits, zap.NewNop())
	repo := NewMemoryApprovalRepository()
	notifier := &recordingNotifier{}
	svc := NewApprovalService(repo, workflows, notifier, audits, zap.NewNop()).(*ApprovalServiceImpl)
	return &fixture{svc: svc, repo: repo, workflows: workflows, notifier: notifier, audits: audits}
}

// trail returns the audit entries of one document approval, oldest first.
func (f *fixture) trail(t *testing.T, approvalID string) []audit.AuditLog {
	t.Helper()
	logs, err := f.audits.ListLogs(context.Background(), audit.AuditFilter{
		Entity:   audit.EntityApproval,
		RecordID: approvalID,
	}, 1, 100)
	require.NoError(t, err)
	slices.Reverse(logs)
	return logs
}

func actions(logs []audit.AuditLog) []audit.AuditAction {
	out := make([]audit.AuditAction, len(logs))
	for i, l := range logs {
		out[i] = l.Action
	}
	return out
}

var (
	admin        = common_models.Actor{UserID: "admin-1", Roles: []string{common_models.RoleAdmin}}
	siteEngineer = common_models.Actor{UserID: "se-1", Roles: []string{"site_engineer"}}
	architect    = common_models.Actor{UserID: "arch-1", Roles: []string{"architect"}}
	submitter    = common_models.Actor{UserID: "sub-1", Roles: []string{"contractor"}}
)

func (f *fixture) createWorkflow(t *testing.T, documentType string, stages ...workflow.StageInput) *workflow.ApprovalWorkflow {
	t.Helper()
	wf, err := f.workflows.CreateWorkflow(context.Background(), admin, workflow.CreateWorkflowInput{
		Name:         documentType + " review",
		DocumentType: documentType,
		Stages:       stages,
	})
	require.NoError(t, err)
	return wf
}

func (f *fixture) twoStage(t *testing.T) *workflow.ApprovalWorkflow {
	return f.createWorkflow(t, "drawing",
		workflow.StageInput{Order: 1, Name: "A", RequiredRole: "site_engineer"},
		workflow.StageInput{Order: 2, Name: "B", RequiredRole: "architect"},
	)
}

func (f *fixture) submit(t *testing.T, documentID, documentType string) *ApprovalDetail {
	t.Helper()
	detail, err := f.svc.Submit(context.Background(), submitter, SubmitInput{
		DocumentID:   documentID,
		DocumentType: documentType,
	})
	require.NoError(t, err)
	return detail
}

func rowFor(t *testing.T, detail *ApprovalDetail, stageName string) StageApproval {
	t.Helper()
	for _, r := range detail.Stages {
		if r.StageName == stageName {
			return r
		}
	}
	t.Fatalf("no stage row named %q", stageName)
	return StageApproval{}
}

func TestSubmitCreatesOneRowPerStage(t *testing.T) {
	f := newFixture(t)
	wf := f.createWorkflow(t, "submittal",
		workflow.StageInput{Order: 1, Name: "QA", RequiredRole: "qa"},
		workflow.StageInput{Order: 2, Name: "Structural", RequiredRole: "engineer", Parallel: true},
		workflow.StageInput{Order: 2, Name: "MEP", RequiredRole: "engineer", Parallel: true},
	)

	detail := f.submit(t, "doc-1", "submittal")

	assert.Equal(t, StatusInProgress, detail.Status)
	assert.Equal(t, wf.ID, detail.WorkflowID)
	assert.Equal(t, wf.Stages[0].ID, detail.CurrentStageID)
	assert.Equal(t, "sub-1", detail.SubmittedBy)
	require.Len(t, detail.Stages, 3)
	for i, r := range detail.Stages {
		assert.Equal(t, StatusPending, r.Status)
		assert.Equal(t, wf.Stages[i].ID, r.StageID)
		assert.Equal(t, wf.Stages[i].Order, r.StageOrder)
	}

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, notification.EventRequest, f.notifier.last().Type)
	assert.Equal(t, detail.ID, f.notifier.last().DocumentApprovalID)
	assert.Equal(t, wf.Stages[0].ID, f.notifier.last().StageID)
}

func TestTwoStageApproveFlow(t *testing.T) {
	f := newFixture(t)
	wf := f.twoStage(t)
	ctx := context.Background()
	detail := f.submit(t, "doc-1", "drawing")

	detail, err := f.svc.ApproveStage(ctx, siteEngineer, rowFor(t, detail, "A").ID, DecisionInput{Comments: "ok"})
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, detail.Status)
	assert.Equal(t, wf.Stages[1].ID, detail.CurrentStageID)
	assert.Equal(t, "se-1", rowFor(t, detail, "A").DecidedBy)
	assert.Equal(t, "ok", rowFor(t, detail, "A").Comments)
	assert.Nil(t, detail.CompletedAt)

	detail, err = f.svc.ApproveStage(ctx, architect, rowFor(t, detail, "B").ID, DecisionInput{Signature: []byte("sig")})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, detail.Status)
	require.NotNil(t, detail.CompletedAt)
	assert.Equal(t, "arch-1", detail.CompletedBy)
	assert.Equal(t, []byte("sig"), rowFor(t, detail, "B").Signature)

	assert.Equal(t, []notification.EventType{
		notification.EventRequest, notification.EventRequest, notification.EventCompleted,
	}, f.notifier.types())
}

func TestTwoStageRejectFlow(t *testing.T) {
	f := newFixture(t)
	f.twoStage(t)
	ctx := context.Background()
	detail := f.submit(t, "doc-1", "drawing")

	detail, err := f.svc.RejectStage(ctx, siteEngineer, rowFor(t, detail, "A").ID, RejectInput{Reason: "missing signature"})
	require.NoError(t, err)

	assert.Equal(t, StatusRejected, detail.Status)
	assert.Equal(t, "missing signature", detail.RejectionReason)
	assert.Equal(t, "se-1", detail.CompletedBy)
	require.NotNil(t, detail.CompletedAt)
	assert.Equal(t, StatusRejected, rowFor(t, detail, "A").Status)
	assert.Equal(t, StatusPending, rowFor(t, detail, "B").Status)

	assert.Equal(t, notification.EventRejected, f.notifier.last().Type)
	assert.Equal(t, rowFor(t, detail, "A").StageID, f.notifier.last().StageID)
}

func TestTerminalApprovalIsClosed(t *testing.T) {
	f := newFixture(t)
	f.twoStage(t)
	ctx := context.Background()
	detail := f.submit(t, "doc-1", "drawing")

	_, err := f.svc.RejectStage(ctx, siteEngineer, rowFor(t, detail, "A").ID, RejectInput{Reason: "wrong revision"})
	require.NoError(t, err)

	_, err = f.svc.ApproveStage(ctx, admin, rowFor(t, detail, "B").ID, DecisionInput{})
	assert.ErrorIs(t, err, ErrApprovalClosed)
	_, err = f.svc.RejectStage(ctx, admin, rowFor(t, detail, "A").ID, RejectInput{Reason: "again"})
	assert.ErrorIs(t, err, ErrApprovalClosed)

	stored, err := f.svc.GetApproval(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, stored.Status)
	assert.Equal(t, "wrong revision", stored.RejectionReason)
	assert.Equal(t, StatusPending, rowFor(t, stored, "B").Status)
}

func TestDecisionGuards(t *testing.T) {
	f := newFixture(t)
	f.createWorkflow(t, "rfi",
		workflow.StageInput{Order: 1, Name: "A", RequiredRole: "site_engineer"},
		workflow.StageInput{Order: 2, Name: "Pinned", RequiredRole: "architect", ApproverID: "arch-2"},
	)
	ctx := context.Background()
	detail := f.submit(t, "rfi-1", "rfi")
	a := rowFor(t, detail, "A")
	pinned := rowFor(t, detail, "Pinned")

	_, err := f.svc.ApproveStage(ctx, admin, pinned.ID, DecisionInput{})
	assert.ErrorIs(t, err, ErrStageNotCurrent)

	_, err = f.svc.ApproveStage(ctx, architect, a.ID, DecisionInput{})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = f.svc.RejectStage(ctx, siteEngineer, a.ID, RejectInput{Reason: "  "})
	assert.ErrorIs(t, err, ErrReasonRequired)

	_, err = f.svc.ApproveStage(ctx, siteEngineer, "missing", DecisionInput{})
	assert.ErrorIs(t, err, ErrStageNotFound)

	_, err = f.svc.ApproveStage(ctx, siteEngineer, a.ID, DecisionInput{})
	require.NoError(t, err)

	// Holding the role is not enough once an approver is pinned
	_, err = f.svc.ApproveStage(ctx, architect, pinned.ID, DecisionInput{})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	pinnedArchitect := common_models.Actor{UserID: "arch-2"}
	detail, err = f.svc.ApproveStage(ctx, pinnedArchitect, pinned.ID, DecisionInput{})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, detail.Status)
}

func TestApproveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	wf := f.twoStage(t)
	ctx := context.Background()
	detail := f.submit(t, "doc-1", "drawing")
	a := rowFor(t, detail, "A")

	first, err := f.svc.ApproveStage(ctx, siteEngineer, a.ID, DecisionInput{Comments: "first"})
	require.NoError(t, err)
	eventsAfterFirst := len(f.notifier.events)

	again, err := f.svc.ApproveStage(ctx, siteEngineer, a.ID, DecisionInput{Comments: "second"})
	require.NoError(t, err)
	assert.Equal(t, wf.Stages[1].ID, again.CurrentStageID)
	assert.Equal(t, first.Version, again.Version)
	assert.Equal(t, "first", rowFor(t, again, "A").Comments)
	assert.Len(t, f.notifier.events, eventsAfterFirst)

	// An approved row cannot be turned into a rejection
	_, err = f.svc.RejectStage(ctx, siteEngineer, a.ID, RejectInput{Reason: "changed my mind"})
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestParallelGroupNeedsEveryRow(t *testing.T) {
	f := newFixture(t)
	wf := f.createWorkflow(t, "change_order",
		workflow.StageInput{Order: 1, Name: "Cost", RequiredRole: "qs", Parallel: true},
		workflow.StageInput{Order: 1, Name: "Design", RequiredRole: "architect", Parallel: true},
		workflow.StageInput{Order: 2, Name: "Owner", RequiredRole: "owner"},
	)
	ctx := context.Background()
	qs := common_models.Actor{UserID: "qs-1", Roles: []string{"qs"}}
	detail := f.submit(t, "co-1", "change_order")

	detail, err := f.svc.ApproveStage(ctx, qs, rowFor(t, detail, "Cost").ID, DecisionInput{})
	require.NoError(t, err)
	assert.Equal(t, wf.Stages[0].ID, detail.CurrentStageID, "group is not complete yet")

	detail, err = f.svc.ApproveStage(ctx, architect, rowFor(t, detail, "Design").ID, DecisionInput{})
	require.NoError(t, err)
	assert.Equal(t, wf.Stages[2].ID, detail.CurrentStageID)
	assert.Equal(t, StatusInProgress, detail.Status)
}

func TestRejectingAnyRowRejectsParent(t *testing.T) {
	f := newFixture(t)
	f.createWorkflow(t, "change_order",
		workflow.StageInput{Order: 1, Name: "Cost", RequiredRole: "qs", Parallel: true},
		workflow.StageInput{Order: 1, Name: "Design", RequiredRole: "architect", Parallel: true},
	)
	ctx := context.Background()
	detail := f.submit(t, "co-1", "change_order")

	_, err := f.svc.ApproveStage(ctx, admin, rowFor(t, detail, "Cost").ID, DecisionInput{})
	require.NoError(t, err)

	detail, err = f.svc.RejectStage(ctx, architect, rowFor(t, detail, "Design").ID, RejectInput{Reason: "clash with ducting"})
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, detail.Status)
	assert.Equal(t, StatusApproved, rowFor(t, detail, "Cost").Status, "other rows are left as they were")
}

func TestConcurrentApprovalsAdvanceOnce(t *testing.T) {
	f := newFixture(t)
	stages := []workflow.StageInput{}
	for _, name := range []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7", "P8"} {
		stages = append(stages, workflow.StageInput{Order: 1, Name: name, RequiredRole: "reviewer", Parallel: true})
	}
	stages = append(stages, workflow.StageInput{Order: 2, Name: "Final", RequiredRole: "owner"})
	wf := f.createWorkflow(t, "method_statement", stages...)
	detail := f.submit(t, "ms-1", "method_statement")

	reviewer := common_models.Actor{UserID: "rev", Roles: []string{"reviewer"}}
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for _, r := range detail.Stages {
		if r.StageOrder != 1 {
			continue
		}
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.svc.ApproveStage(context.Background(), reviewer, id, DecisionInput{})
			errs <- err
		}(r.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	final, err := f.svc.GetApproval(context.Background(), detail.ID)
	require.NoError(t, err)
	finalStage := wf.Stages[len(wf.Stages)-1]
	assert.Equal(t, finalStage.ID, final.CurrentStageID)
	assert.Equal(t, int64(2), final.Version, "parent written exactly once")

	requests := 0
	for _, e := range f.notifier.events {
		if e.Type == notification.EventRequest && e.StageID == finalStage.ID {
			requests++
		}
	}
	assert.Equal(t, 1, requests)
}

func TestAutoApproveChain(t *testing.T) {
	f := newFixture(t)
	wf := f.createWorkflow(t, "rfi",
		workflow.StageInput{Order: 1, Name: "Intake", RequiredRole: "clerk", AutoApprove: true},
		workflow.StageInput{Order: 2, Name: "Low value", RequiredRole: "qs", AutoApprove: true,
			AutoApproveCondition: `result := int(metadata.value) < 1000`},
		workflow.StageInput{Order: 3, Name: "Engineer", RequiredRole: "engineer"},
	)
	ctx := context.Background()

	detail, err := f.svc.Submit(ctx, submitter, SubmitInput{
		DocumentID: "rfi-1", DocumentType: "rfi", Metadata: map[string]string{"value": "250"},
	})
	require.NoError(t, err)
	assert.Equal(t, wf.Stages[2].ID, detail.CurrentStageID)
	assert.Equal(t, common_models.SystemActor, rowFor(t, detail, "Intake").DecidedBy)
	assert.Equal(t, StatusApproved, rowFor(t, detail, "Low value").Status)
	assert.Equal(t, []notification.EventType{notification.EventRequest}, f.notifier.types())
	assert.Equal(t, wf.Stages[2].ID, f.notifier.last().StageID)

	detail, err = f.svc.Submit(ctx, submitter, SubmitInput{
		DocumentID: "rfi-2", DocumentType: "rfi", Metadata: map[string]string{"value": "90000"},
	})
	require.NoError(t, err)
	assert.Equal(t, wf.Stages[1].ID, detail.CurrentStageID, "condition false leaves the stage for a person")
	assert.Equal(t, StatusPending, rowFor(t, detail, "Low value").Status)
}

func TestAutoApproveEveryStageCompletesOnSubmit(t *testing.T) {
	f := newFixture(t)
	f.createWorkflow(t, "transmittal",
		workflow.StageInput{Order: 1, Name: "Log", RequiredRole: "clerk", AutoApprove: true},
		workflow.StageInput{Order: 2, Name: "File", RequiredRole: "clerk", AutoApprove: true},
	)

	detail := f.submit(t, "tr-1", "transmittal")
	assert.Equal(t, StatusApproved, detail.Status)
	assert.Equal(t, common_models.SystemActor, detail.CompletedBy)
	assert.Equal(t, []notification.EventType{notification.EventCompleted}, f.notifier.types())
}

func TestSubmitRules(t *testing.T) {
	f := newFixture(t)
	wf := f.twoStage(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, submitter, SubmitInput{DocumentType: "drawing"})
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	_, err = f.svc.Submit(ctx, submitter, SubmitInput{DocumentID: "x", DocumentType: "invoice"})
	assert.ErrorIs(t, err, workflow.ErrNoActiveWorkflow)

	_, err = f.svc.Submit(ctx, submitter, SubmitInput{WorkflowID: wf.ID, DocumentID: "x", DocumentType: "rfi"})
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	first := f.submit(t, "doc-1", "drawing")
	_, err = f.svc.Submit(ctx, submitter, SubmitInput{DocumentID: "doc-1", DocumentType: "drawing"})
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	// A rejected document may be submitted again as a new approval
	_, err = f.svc.RejectStage(ctx, siteEngineer, rowFor(t, first, "A").ID, RejectInput{Reason: "redo"})
	require.NoError(t, err)
	second := f.submit(t, "doc-1", "drawing")
	assert.NotEqual(t, first.ID, second.ID)

	_, err = f.workflows.SetWorkflowActive(ctx, admin, wf.ID, false)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, submitter, SubmitInput{WorkflowID: wf.ID, DocumentID: "doc-2", DocumentType: "drawing"})
	assert.ErrorIs(t, err, ErrWorkflowInactive)
}

func TestSubmitRejectsWorkflowOfAnotherProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tower, err := f.workflows.CreateWorkflow(ctx, admin, workflow.CreateWorkflowInput{
		Name:         "Tower A drawings",
		DocumentType: "drawing",
		ProjectID:    "tower-a",
		Stages:       []workflow.StageInput{{Order: 1, Name: "A", RequiredRole: "site_engineer"}},
	})
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, submitter, SubmitInput{
		WorkflowID:   tower.ID,
		DocumentID:   "doc-1",
		DocumentType: "drawing",
		ProjectID:    "tower-b",
	})
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	_, err = f.svc.Submit(ctx, submitter, SubmitInput{
		WorkflowID:   tower.ID,
		DocumentID:   "doc-1",
		DocumentType: "drawing",
	})
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	detail, err := f.svc.Submit(ctx, submitter, SubmitInput{
		WorkflowID:   tower.ID,
		DocumentID:   "doc-1",
		DocumentType: "drawing",
		ProjectID:    "tower-a",
	})
	require.NoError(t, err)
	assert.Equal(t, tower.ID, detail.WorkflowID)
}

func TestApprovalLifecycleIsAudited(t *testing.T) {
	f := newFixture(t)
	wf := f.twoStage(t)
	ctx := context.Background()
	detail := f.submit(t, "doc-1", "drawing")

	detail, err := f.svc.ApproveStage(ctx, siteEngineer, rowFor(t, detail, "A").ID, DecisionInput{})
	require.NoError(t, err)
	_, err = f.svc.ApproveStage(ctx, architect, rowFor(t, detail, "B").ID, DecisionInput{})
	require.NoError(t, err)

	logs := f.trail(t, detail.ID)
	assert.Equal(t, []audit.AuditAction{
		audit.ActionApprovalSubmitted,
		audit.ActionStageApproved,
		audit.ActionApprovalAdvanced,
		audit.ActionStageApproved,
		audit.ActionApprovalCompleted,
	}, actions(logs))

	assert.Equal(t, "sub-1", logs[0].ActorID)
	assert.Equal(t, "se-1", logs[1].ActorID)
	assert.Equal(t, "A", logs[1].Changes["stage"].New)
	assert.Equal(t, "se-1", logs[2].ActorID)
	assert.Equal(t, audit.Change{Old: wf.Stages[0].ID, New: wf.Stages[1].ID}, logs[2].Changes["current_stage_id"])
	assert.Equal(t, "arch-1", logs[4].ActorID)
	assert.Equal(t, string(StatusApproved), logs[4].Changes["status"].New)
}

func TestRejectionIsAudited(t *testing.T) {
	f := newFixture(t)
	f.twoStage(t)
	ctx := context.Background()
	detail := f.submit(t, "doc-1", "drawing")

	_, err := f.svc.RejectStage(ctx, siteEngineer, rowFor(t, detail, "A").ID, RejectInput{Reason: "wrong revision"})
	require.NoError(t, err)

	logs := f.trail(t, detail.ID)
	require.Equal(t, []audit.AuditAction{audit.ActionApprovalSubmitted, audit.ActionApprovalRejected}, actions(logs))
	assert.Equal(t, "se-1", logs[1].ActorID)
	assert.Equal(t, "wrong revision", logs[1].Changes["rejection_reason"].New)
	assert.Equal(t, audit.Change{Old: string(StatusInProgress), New: string(StatusRejected)}, logs[1].Changes["status"])
}

func TestAutoApprovalIsAuditedAsSystem(t *testing.T) {
	f := newFixture(t)
	f.createWorkflow(t, "transmittal",
		workflow.StageInput{Order: 1, Name: "Register", RequiredRole: "document_controller", AutoApprove: true},
	)

	detail := f.submit(t, "tr-1", "transmittal")
	require.Equal(t, StatusApproved, detail.Status)

	logs := f.trail(t, detail.ID)
	require.Equal(t, []audit.AuditAction{
		audit.ActionApprovalSubmitted,
		audit.ActionStageApproved,
		audit.ActionApprovalCompleted,
	}, actions(logs))
	assert.Equal(t, common_models.SystemActor, logs[1].ActorID)
	assert.Equal(t, common_models.SystemActor, logs[2].ActorID)
}

func TestListPendingForApprover(t *testing.T) {
	f := newFixture(t)
	f.twoStage(t)
	ctx := context.Background()
	d1 := f.submit(t, "doc-1", "drawing")
	f.submit(t, "doc-2", "drawing")

	items, err := f.svc.ListPendingForApprover(ctx, siteEngineer)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = f.svc.ListPendingForApprover(ctx, architect)
	require.NoError(t, err)
	assert.Empty(t, items, "stage B is not current yet")

	_, err = f.svc.ApproveStage(ctx, siteEngineer, rowFor(t, d1, "A").ID, DecisionInput{})
	require.NoError(t, err)

	items, err = f.svc.ListPendingForApprover(ctx, architect)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "B", items[0].Stage.StageName)
	assert.Equal(t, d1.ID, items[0].Approval.ID)
}

type conflictingRepo struct {
	*MemoryApprovalRepository
	conflicts int
}

func (r *conflictingRepo) UpdateApproval(ctx context.Context, approval *DocumentApproval, expectedVersion int64) error {
	if r.conflicts > 0 {
		r.conflicts--
		return ErrVersionConflict
	}
	return r.MemoryApprovalRepository.UpdateApproval(ctx, approval, expectedVersion)
}

func TestAdvanceRetriesOnVersionConflict(t *testing.T) {
	f := newFixture(t)
	f.twoStage(t)
	repo := &conflictingRepo{MemoryApprovalRepository: f.repo}
	f.svc.Repo = repo
	ctx := context.Background()
	detail := f.submit(t, "doc-1", "drawing")

	repo.conflicts = 2
	detail, err := f.svc.ApproveStage(ctx, siteEngineer, rowFor(t, detail, "A").ID, DecisionInput{})
	require.NoError(t, err)
	assert.Equal(t, rowFor(t, detail, "B").StageID, detail.CurrentStageID)

	repo.conflicts = maxAdvanceAttempts
	_, err = f.svc.ApproveStage(ctx, architect, rowFor(t, detail, "B").ID, DecisionInput{})
	assert.ErrorIs(t, err, ErrVersionConflict)

	// The row write survived; retrying finishes the job
	detail, err = f.svc.ApproveStage(ctx, architect, rowFor(t, detail, "B").ID, DecisionInput{})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, detail.Status)
}

func TestNotificationFailureDoesNotFailDecision(t *testing.T) {
	f := newFixture(t)
	f.twoStage(t)
	f.notifier.err = errors.New("function unreachable")
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.svc.Now = func() time.Time { return fixed }

	detail := f.submit(t, "doc-1", "drawing")
	detail, err := f.svc.ApproveStage(context.Background(), siteEngineer, rowFor(t, detail, "A").ID, DecisionInput{})
	require.NoError(t, err)
	assert.Equal(t, fixed, detail.StageStartedAt)
	assert.Equal(t, fixed, *rowFor(t, detail, "A").DecidedAt)
}
