package approval

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
)

// MemoryApprovalRepository keeps approvals in process memory. Used by the
// "memory" store driver and by tests.
type MemoryApprovalRepository struct {
	mu        sync.RWMutex
	approvals map[string]DocumentApproval
	stages    map[string]StageApproval
}

func NewMemoryApprovalRepository() *MemoryApprovalRepository {
	return &MemoryApprovalRepository{
		approvals: make(map[string]DocumentApproval),
		stages:    make(map[string]StageApproval),
	}
}

func (r *MemoryApprovalRepository) CreateApproval(_ context.Context, approval *DocumentApproval, stages []StageApproval) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.approvals {
		if existing.DocumentID == approval.DocumentID && !existing.Status.IsTerminal() {
			return ErrAlreadySubmitted
		}
	}

	r.approvals[approval.ID] = cloneApproval(*approval)
	for _, s := range stages {
		r.stages[s.ID] = cloneStage(s)
	}
	return nil
}

func (r *MemoryApprovalRepository) GetApproval(_ context.Context, id string) (*DocumentApproval, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.approvals[id]
	if !ok {
		return nil, nil
	}
	out := cloneApproval(a)
	return &out, nil
}

func (r *MemoryApprovalRepository) FindOpenByDocument(_ context.Context, documentID string) (*DocumentApproval, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.approvals {
		if a.DocumentID == documentID && !a.Status.IsTerminal() {
			out := cloneApproval(a)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryApprovalRepository) ListApprovals(_ context.Context, filter ApprovalFilter) ([]DocumentApproval, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []DocumentApproval{}
	for _, a := range r.approvals {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.DocumentID != "" && a.DocumentID != filter.DocumentID {
			continue
		}
		if filter.ProjectID != "" && a.ProjectID != filter.ProjectID {
			continue
		}
		if filter.WorkflowID != "" && a.WorkflowID != filter.WorkflowID {
			continue
		}
		out = append(out, cloneApproval(a))
	}
	slices.SortFunc(out, func(a, b DocumentApproval) int {
		if c := b.SubmittedAt.Compare(a.SubmittedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *MemoryApprovalRepository) UpdateApproval(_ context.Context, approval *DocumentApproval, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.approvals[approval.ID]
	if !ok || stored.Version != expectedVersion {
		return ErrVersionConflict
	}
	approval.Version = expectedVersion + 1
	r.approvals[approval.ID] = cloneApproval(*approval)
	return nil
}

func (r *MemoryApprovalRepository) GetStage(_ context.Context, id string) (*StageApproval, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stages[id]
	if !ok {
		return nil, nil
	}
	out := cloneStage(s)
	return &out, nil
}

func (r *MemoryApprovalRepository) ListStages(_ context.Context, approvalIDs ...string) ([]StageApproval, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []StageApproval{}
	for _, s := range r.stages {
		if slices.Contains(approvalIDs, s.DocumentApprovalID) {
			out = append(out, cloneStage(s))
		}
	}
	slices.SortFunc(out, compareStageRows)
	return out, nil
}

func (r *MemoryApprovalRepository) DecideStage(_ context.Context, stage *StageApproval) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.stages[stage.ID]
	if !ok || stored.Status != StatusPending {
		return false, nil
	}
	stored.Status = stage.Status
	stored.DecidedBy = stage.DecidedBy
	stored.DecidedAt = stage.DecidedAt
	stored.Comments = stage.Comments
	stored.Signature = slices.Clone(stage.Signature)
	r.stages[stage.ID] = stored
	return true, nil
}

func (r *MemoryApprovalRepository) EnsureIndexes(context.Context) error {
	return nil
}

func compareStageRows(a, b StageApproval) int {
	return cmp.Or(
		cmp.Compare(a.DocumentApprovalID, b.DocumentApprovalID),
		cmp.Compare(a.StageOrder, b.StageOrder),
		cmp.Compare(a.Position, b.Position),
	)
}

func cloneApproval(a DocumentApproval) DocumentApproval {
	a.Metadata = maps.Clone(a.Metadata)
	if a.CompletedAt != nil {
		t := *a.CompletedAt
		a.CompletedAt = &t
	}
	return a
}

func cloneStage(s StageApproval) StageApproval {
	s.Signature = slices.Clone(s.Signature)
	if s.DecidedAt != nil {
		t := *s.DecidedAt
		s.DecidedAt = &t
	}
	return s
}
