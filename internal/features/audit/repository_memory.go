package audit

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
)

// MemoryAuditRepository backs the "memory" store driver and tests
type MemoryAuditRepository struct {
	mu   sync.RWMutex
	logs []AuditLog
}

func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{}
}

func (r *MemoryAuditRepository) Create(_ context.Context, log *AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := *log
	entry.Changes = maps.Clone(log.Changes)
	r.logs = append(r.logs, entry)
	return nil
}

func (r *MemoryAuditRepository) List(_ context.Context, filter AuditFilter, limit, offset int64) ([]AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []AuditLog{}
	for _, log := range r.logs {
		if filter.Entity != "" && log.Entity != filter.Entity {
			continue
		}
		if filter.RecordID != "" && log.RecordID != filter.RecordID {
			continue
		}
		if filter.ActorID != "" && log.ActorID != filter.ActorID {
			continue
		}
		if filter.Action != "" && log.Action != filter.Action {
			continue
		}
		log.Changes = maps.Clone(log.Changes)
		matched = append(matched, log)
	}

	// Insertion order breaks timestamp ties, latest first
	slices.Reverse(matched)
	slices.SortStableFunc(matched, func(a, b AuditLog) int {
		return cmp.Compare(b.Timestamp.UnixNano(), a.Timestamp.UnixNano())
	})

	if offset >= int64(len(matched)) {
		return []AuditLog{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < int64(len(matched)) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *MemoryAuditRepository) EnsureIndexes(context.Context) error {
	return nil
}
