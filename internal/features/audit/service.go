package audit

import (
	"context"
	"fmt"
	"time"

	common_models "go-approvals/internal/common/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultLimit = 20
	maxLimit     = 200
)

type AuditService interface {
	// LogChange records who did what to which record. Failures are logged
	// here, so callers may ignore the returned error.
	LogChange(ctx context.Context, action AuditAction, entity, recordID, actorID string, changes map[string]Change) error
	ListLogs(ctx context.Context, filter AuditFilter, page, limit int64) ([]AuditLog, error)
}

type AuditServiceImpl struct {
	Repo   AuditRepository
	Logger *zap.Logger
	Now    func() time.Time
}

func NewAuditService(repo AuditRepository, logger *zap.Logger) AuditService {
	return &AuditServiceImpl{
		Repo:   repo,
		Logger: logger,
		Now:    time.Now,
	}
}

func (s *AuditServiceImpl) LogChange(ctx context.Context, action AuditAction, entity, recordID, actorID string, changes map[string]Change) error {
	if actorID == "" {
		actorID = common_models.SystemActor
	}

	log := &AuditLog{
		ID:        uuid.NewString(),
		Action:    action,
		Entity:    entity,
		RecordID:  recordID,
		ActorID:   actorID,
		Changes:   changes,
		Timestamp: s.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, log); err != nil {
		s.Logger.Warn("Failed to write audit log",
			zap.String("action", string(action)),
			zap.String("record_id", recordID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *AuditServiceImpl) ListLogs(ctx context.Context, filter AuditFilter, page, limit int64) ([]AuditLog, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.Repo.List(ctx, filter, limit, (page-1)*limit)
}

// NopAuditService discards every entry
type NopAuditService struct{}

func (NopAuditService) LogChange(context.Context, AuditAction, string, string, string, map[string]Change) error {
	return nil
}

func (NopAuditService) ListLogs(context.Context, AuditFilter, int64, int64) ([]AuditLog, error) {
	return []AuditLog{}, nil
}
