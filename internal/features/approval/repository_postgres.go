package approval

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

type PostgresApprovalRepository struct {
	db *sql.DB
}

func NewPostgresApprovalRepository(db *sql.DB) *PostgresApprovalRepository {
	return &PostgresApprovalRepository{db: db}
}

const approvalColumns = `id, document_id, document_type, project_id, document_title, metadata, workflow_id,
	current_stage_id, status, submitted_by, submitted_at, notes, stage_started_at, completed_at,
	completed_by, rejection_reason, overdue_stage_id, version, updated_at`

const stageColumns = `id, document_approval_id, stage_id, stage_order, position, stage_name, approver_id,
	required_role, status, decided_by, decided_at, comments, signature`

const insertApprovalSQL = `INSERT INTO document_approvals (` + approvalColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

const insertStageApprovalSQL = `INSERT INTO stage_approvals (` + stageColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const updateApprovalSQL = `UPDATE document_approvals SET
	current_stage_id = $1, status = $2, stage_started_at = $3, completed_at = $4, completed_by = $5,
	rejection_reason = $6, overdue_stage_id = $7, version = $8, updated_at = $9
	WHERE id = $10 AND version = $11`

const decideStageSQL = `UPDATE stage_approvals SET
	status = $1, decided_by = $2, decided_at = $3, comments = $4, signature = $5
	WHERE id = $6 AND status = 'pending'`

func (r *PostgresApprovalRepository) CreateApproval(ctx context.Context, approval *DocumentApproval, stages []StageApproval) error {
	metadata, err := json.Marshal(approval.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if approval.Metadata == nil {
		metadata = []byte("{}")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertApprovalSQL,
		approval.ID, approval.DocumentID, approval.DocumentType, approval.ProjectID, approval.DocumentTitle,
		metadata, approval.WorkflowID, approval.CurrentStageID, approval.Status, approval.SubmittedBy,
		approval.SubmittedAt, approval.Notes, nullTime(approval.StageStartedAt), approval.CompletedAt,
		approval.CompletedBy, approval.RejectionReason, approval.OverdueStageID, approval.Version, approval.UpdatedAt,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return ErrAlreadySubmitted
		}
		return fmt.Errorf("failed to insert document approval: %w", err)
	}

	for _, s := range stages {
		if _, err := tx.ExecContext(ctx, insertStageApprovalSQL,
			s.ID, s.DocumentApprovalID, s.StageID, s.StageOrder, s.Position, s.StageName, s.ApproverID,
			s.RequiredRole, s.Status, s.DecidedBy, s.DecidedAt, s.Comments, s.Signature,
		); err != nil {
			return fmt.Errorf("failed to insert stage approval %q: %w", s.StageName, err)
		}
	}

	return tx.Commit()
}

func (r *PostgresApprovalRepository) GetApproval(ctx context.Context, id string) (*DocumentApproval, error) {
	return r.queryOneApproval(ctx, `SELECT `+approvalColumns+` FROM document_approvals WHERE id = $1`, id)
}

func (r *PostgresApprovalRepository) FindOpenByDocument(ctx context.Context, documentID string) (*DocumentApproval, error) {
	return r.queryOneApproval(ctx,
		`SELECT `+approvalColumns+` FROM document_approvals
		WHERE document_id = $1 AND status IN ('pending', 'in_progress') LIMIT 1`,
		documentID,
	)
}

func (r *PostgresApprovalRepository) queryOneApproval(ctx context.Context, query string, args ...interface{}) (*DocumentApproval, error) {
	approval, err := scanApproval(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return approval, nil
}

func (r *PostgresApprovalRepository) ListApprovals(ctx context.Context, filter ApprovalFilter) ([]DocumentApproval, error) {
	var (
		clauses []string
		args    []interface{}
	)
	add := func(column string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.Status != "" {
		add("status", filter.Status)
	}
	if filter.DocumentID != "" {
		add("document_id", filter.DocumentID)
	}
	if filter.ProjectID != "" {
		add("project_id", filter.ProjectID)
	}
	if filter.WorkflowID != "" {
		add("workflow_id", filter.WorkflowID)
	}

	query := `SELECT ` + approvalColumns + ` FROM document_approvals`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY submitted_at DESC, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	approvals := []DocumentApproval{}
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, err
		}
		approvals = append(approvals, *a)
	}
	return approvals, rows.Err()
}

func (r *PostgresApprovalRepository) UpdateApproval(ctx context.Context, approval *DocumentApproval, expectedVersion int64) error {
	result, err := r.db.ExecContext(ctx, updateApprovalSQL,
		approval.CurrentStageID, approval.Status, nullTime(approval.StageStartedAt), approval.CompletedAt,
		approval.CompletedBy, approval.RejectionReason, approval.OverdueStageID, expectedVersion+1,
		approval.UpdatedAt, approval.ID, expectedVersion,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	approval.Version = expectedVersion + 1
	return nil
}

func (r *PostgresApprovalRepository) GetStage(ctx context.Context, id string) (*StageApproval, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+stageColumns+` FROM stage_approvals WHERE id = $1`, id)
	stage, err := scanStage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return stage, nil
}

func (r *PostgresApprovalRepository) ListStages(ctx context.Context, approvalIDs ...string) ([]StageApproval, error) {
	stages := []StageApproval{}
	if len(approvalIDs) == 0 {
		return stages, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+stageColumns+` FROM stage_approvals
		WHERE document_approval_id = ANY($1) ORDER BY document_approval_id, stage_order, position`,
		pq.Array(approvalIDs),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		stages = append(stages, *s)
	}
	return stages, rows.Err()
}

func (r *PostgresApprovalRepository) DecideStage(ctx context.Context, stage *StageApproval) (bool, error) {
	result, err := r.db.ExecContext(ctx, decideStageSQL,
		stage.Status, stage.DecidedBy, stage.DecidedAt, stage.Comments, stage.Signature, stage.ID,
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// EnsureIndexes is a no-op; indexes are part of the Postgres schema.
func (r *PostgresApprovalRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApproval(row rowScanner) (*DocumentApproval, error) {
	var (
		a              DocumentApproval
		metadata       []byte
		stageStartedAt sql.NullTime
		completedAt    sql.NullTime
	)
	if err := row.Scan(
		&a.ID, &a.DocumentID, &a.DocumentType, &a.ProjectID, &a.DocumentTitle, &metadata, &a.WorkflowID,
		&a.CurrentStageID, &a.Status, &a.SubmittedBy, &a.SubmittedAt, &a.Notes, &stageStartedAt, &completedAt,
		&a.CompletedBy, &a.RejectionReason, &a.OverdueStageID, &a.Version, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata of %s: %w", a.ID, err)
		}
		if len(a.Metadata) == 0 {
			a.Metadata = nil
		}
	}
	if stageStartedAt.Valid {
		a.StageStartedAt = stageStartedAt.Time
	}
	if completedAt.Valid {
		t := completedAt.Time
		a.CompletedAt = &t
	}
	return &a, nil
}

func scanStage(row rowScanner) (*StageApproval, error) {
	var (
		s         StageApproval
		decidedAt sql.NullTime
	)
	if err := row.Scan(
		&s.ID, &s.DocumentApprovalID, &s.StageID, &s.StageOrder, &s.Position, &s.StageName, &s.ApproverID,
		&s.RequiredRole, &s.Status, &s.DecidedBy, &decidedAt, &s.Comments, &s.Signature,
	); err != nil {
		return nil, err
	}
	if decidedAt.Valid {
		t := decidedAt.Time
		s.DecidedAt = &t
	}
	return &s, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
