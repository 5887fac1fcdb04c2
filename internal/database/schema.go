package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS approval_workflows (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		document_type TEXT NOT NULL,
		project_id    TEXT NOT NULL DEFAULT '',
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		created_by    TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS workflow_stages (
		id                     TEXT PRIMARY KEY,
		workflow_id            TEXT NOT NULL REFERENCES approval_workflows(id),
		stage_order            INTEGER NOT NULL,
		position               INTEGER NOT NULL,
		name                   TEXT NOT NULL,
		required_role          TEXT NOT NULL DEFAULT '',
		approver_id            TEXT NOT NULL DEFAULT '',
		parallel               BOOLEAN NOT NULL DEFAULT FALSE,
		auto_approve           BOOLEAN NOT NULL DEFAULT FALSE,
		auto_approve_condition TEXT NOT NULL DEFAULT '',
		deadline_hours         INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS workflow_stages_workflow_idx ON workflow_stages (workflow_id, stage_order, position)`,
	`CREATE TABLE IF NOT EXISTS document_approvals (
		id               TEXT PRIMARY KEY,
		document_id      TEXT NOT NULL,
		document_type    TEXT NOT NULL,
		project_id       TEXT NOT NULL DEFAULT '',
		document_title   TEXT NOT NULL DEFAULT '',
		metadata         JSONB NOT NULL DEFAULT '{}',
		workflow_id      TEXT NOT NULL REFERENCES approval_workflows(id),
		current_stage_id TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL,
		submitted_by     TEXT NOT NULL DEFAULT '',
		submitted_at     TIMESTAMPTZ NOT NULL,
		notes            TEXT NOT NULL DEFAULT '',
		stage_started_at TIMESTAMPTZ,
		completed_at     TIMESTAMPTZ,
		completed_by     TEXT NOT NULL DEFAULT '',
		rejection_reason TEXT NOT NULL DEFAULT '',
		overdue_stage_id TEXT NOT NULL DEFAULT '',
		version          BIGINT NOT NULL DEFAULT 1,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS document_approvals_open_idx ON document_approvals (document_id)
		WHERE status IN ('pending', 'in_progress')`,
	`CREATE INDEX IF NOT EXISTS document_approvals_status_idx ON document_approvals (status)`,
	`CREATE TABLE IF NOT EXISTS stage_approvals (
		id                   TEXT PRIMARY KEY,
		document_approval_id TEXT NOT NULL REFERENCES document_approvals(id),
		stage_id             TEXT NOT NULL,
		stage_order          INTEGER NOT NULL,
		position             INTEGER NOT NULL DEFAULT 0,
		stage_name           TEXT NOT NULL DEFAULT '',
		approver_id          TEXT NOT NULL DEFAULT '',
		required_role        TEXT NOT NULL DEFAULT '',
		status               TEXT NOT NULL,
		decided_by           TEXT NOT NULL DEFAULT '',
		decided_at           TIMESTAMPTZ,
		comments             TEXT NOT NULL DEFAULT '',
		signature            BYTEA
	)`,
	`CREATE INDEX IF NOT EXISTS stage_approvals_parent_idx ON stage_approvals (document_approval_id, stage_order, position)`,
	`CREATE INDEX IF NOT EXISTS stage_approvals_pending_idx ON stage_approvals (status, approver_id)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id        TEXT PRIMARY KEY,
		action    TEXT NOT NULL,
		entity    TEXT NOT NULL,
		record_id TEXT NOT NULL,
		actor_id  TEXT NOT NULL,
		changes   JSONB NOT NULL DEFAULT '{}',
		timestamp TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS audit_logs_record_idx ON audit_logs (entity, record_id, timestamp DESC)`,
	`CREATE INDEX IF NOT EXISTS audit_logs_actor_idx ON audit_logs (actor_id, timestamp DESC)`,
}

// EnsureSchema creates the approval tables when they are missing
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
