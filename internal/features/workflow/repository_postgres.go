package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

type PostgresWorkflowRepository struct {
	db *sql.DB
}

func NewPostgresWorkflowRepository(db *sql.DB) *PostgresWorkflowRepository {
	return &PostgresWorkflowRepository{db: db}
}

const insertWorkflowSQL = `INSERT INTO approval_workflows
	(id, name, document_type, project_id, active, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const insertStageSQL = `INSERT INTO workflow_stages
	(id, workflow_id, stage_order, position, name, required_role, approver_id, parallel, auto_approve, auto_approve_condition, deadline_hours)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const selectWorkflowSQL = `SELECT id, name, document_type, project_id, active, created_by, created_at, updated_at
	FROM approval_workflows`

const selectStagesSQL = `SELECT id, workflow_id, stage_order, name, required_role, approver_id, parallel, auto_approve, auto_approve_condition, deadline_hours
	FROM workflow_stages WHERE workflow_id = ANY($1) ORDER BY workflow_id, stage_order, position`

func (r *PostgresWorkflowRepository) Create(ctx context.Context, workflow *ApprovalWorkflow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertWorkflowSQL,
		workflow.ID, workflow.Name, workflow.DocumentType, workflow.ProjectID,
		workflow.Active, workflow.CreatedBy, workflow.CreatedAt, workflow.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert workflow: %w", err)
	}

	for i, s := range workflow.Stages {
		if _, err := tx.ExecContext(ctx, insertStageSQL,
			s.ID, workflow.ID, s.Order, i, s.Name, s.RequiredRole, s.ApproverID,
			s.Parallel, s.AutoApprove, s.AutoApproveCondition, s.DeadlineHours,
		); err != nil {
			return fmt.Errorf("failed to insert stage %q: %w", s.Name, err)
		}
	}

	return tx.Commit()
}

func (r *PostgresWorkflowRepository) GetByID(ctx context.Context, id string) (*ApprovalWorkflow, error) {
	row := r.db.QueryRowContext(ctx, selectWorkflowSQL+" WHERE id = $1", id)
	wf, err := scanWorkflow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	workflows := []ApprovalWorkflow{*wf}
	if err := r.attachStages(ctx, workflows); err != nil {
		return nil, err
	}
	return &workflows[0], nil
}

func (r *PostgresWorkflowRepository) List(ctx context.Context, filter WorkflowFilter) ([]ApprovalWorkflow, error) {
	var (
		clauses []string
		args    []interface{}
	)
	if filter.DocumentType != "" {
		args = append(args, filter.DocumentType)
		clauses = append(clauses, fmt.Sprintf("document_type = $%d", len(args)))
	}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		clauses = append(clauses, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active = $%d", len(args)))
	}

	query := selectWorkflowSQL
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workflows := []ApprovalWorkflow{}
	for rows.Next() {
		wf, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, *wf)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachStages(ctx, workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

func (r *PostgresWorkflowRepository) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE approval_workflows SET active = $1, updated_at = $2 WHERE id = $3`,
		active, updatedAt, id,
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
func (r *PostgresWorkflowRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (r *PostgresWorkflowRepository) attachStages(ctx context.Context, workflows []ApprovalWorkflow) error {
	if len(workflows) == 0 {
		return nil
	}

	ids := make([]string, len(workflows))
	index := make(map[string]int, len(workflows))
	for i, wf := range workflows {
		ids[i] = wf.ID
		index[wf.ID] = i
	}

	rows, err := r.db.QueryContext(ctx, selectStagesSQL, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var s WorkflowStage
		if err := rows.Scan(
			&s.ID, &s.WorkflowID, &s.Order, &s.Name, &s.RequiredRole, &s.ApproverID,
			&s.Parallel, &s.AutoApprove, &s.AutoApproveCondition, &s.DeadlineHours,
		); err != nil {
			return err
		}
		if i, ok := index[s.WorkflowID]; ok {
			workflows[i].Stages = append(workflows[i].Stages, s)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWorkflow(row rowScanner) (*ApprovalWorkflow, error) {
	var wf ApprovalWorkflow
	if err := row.Scan(
		&wf.ID, &wf.Name, &wf.DocumentType, &wf.ProjectID, &wf.Active,
		&wf.CreatedBy, &wf.CreatedAt, &wf.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &wf, nil
}
