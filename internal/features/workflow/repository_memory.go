package workflow

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryWorkflowRepository keeps workflows in process memory. Used by the
// "memory" store driver and by tests.
type MemoryWorkflowRepository struct {
	mu        sync.RWMutex
	workflows map[string]ApprovalWorkflow
}

func NewMemoryWorkflowRepository() *MemoryWorkflowRepository {
	return &MemoryWorkflowRepository{workflows: make(map[string]ApprovalWorkflow)}
}

func (r *MemoryWorkflowRepository) Create(_ context.Context, workflow *ApprovalWorkflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[workflow.ID] = cloneWorkflow(*workflow)
	return nil
}

func (r *MemoryWorkflowRepository) GetByID(_ context.Context, id string) (*ApprovalWorkflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wf, ok := r.workflows[id]
	if !ok {
		return nil, nil
	}
	out := cloneWorkflow(wf)
	return &out, nil
}

func (r *MemoryWorkflowRepository) List(_ context.Context, filter WorkflowFilter) ([]ApprovalWorkflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []ApprovalWorkflow{}
	for _, wf := range r.workflows {
		if filter.DocumentType != "" && wf.DocumentType != filter.DocumentType {
			continue
		}
		if filter.ProjectID != "" && wf.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Active != nil && wf.Active != *filter.Active {
			continue
		}
		out = append(out, cloneWorkflow(wf))
	}

	// Newest first, id breaks ties so resolution is stable
	slices.SortFunc(out, func(a, b ApprovalWorkflow) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *MemoryWorkflowRepository) SetActive(_ context.Context, id string, active bool, updatedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wf, ok := r.workflows[id]
	if !ok {
		return false, nil
	}
	wf.Active = active
	wf.UpdatedAt = updatedAt
	r.workflows[id] = wf
	return true, nil
}

func (r *MemoryWorkflowRepository) EnsureIndexes(context.Context) error {
	return nil
}

func cloneWorkflow(wf ApprovalWorkflow) ApprovalWorkflow {
	wf.Stages = slices.Clone(wf.Stages)
	return wf
}
