package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

type PostgresAuditRepository struct {
	db *sql.DB
}

func NewPostgresAuditRepository(db *sql.DB) *PostgresAuditRepository {
	return &PostgresAuditRepository{db: db}
}

const insertAuditSQL = `INSERT INTO audit_logs (id, action, entity, record_id, actor_id, changes, timestamp)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

const selectAuditSQL = `SELECT id, action, entity, record_id, actor_id, changes, timestamp FROM audit_logs`

func (r *PostgresAuditRepository) Create(ctx context.Context, log *AuditLog) error {
	changes, err := json.Marshal(log.Changes)
	if err != nil {
		return fmt.Errorf("failed to encode changes: %w", err)
	}
	if log.Changes == nil {
		changes = []byte("{}")
	}

	_, err = r.db.ExecContext(ctx, insertAuditSQL,
		log.ID, string(log.Action), log.Entity, log.RecordID, log.ActorID, changes, log.Timestamp,
	)
	return err
}

func (r *PostgresAuditRepository) List(ctx context.Context, filter AuditFilter, limit, offset int64) ([]AuditLog, error) {
	var (
		clauses []string
		args    []interface{}
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("entity", filter.Entity)
	add("record_id", filter.RecordID)
	add("actor_id", filter.ActorID)
	add("action", string(filter.Action))

	query := selectAuditSQL
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY timestamp DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []AuditLog{}
	for rows.Next() {
		var (
			log     AuditLog
			action  string
			changes []byte
		)
		if err := rows.Scan(&log.ID, &action, &log.Entity, &log.RecordID, &log.ActorID, &changes, &log.Timestamp); err != nil {
			return nil, err
		}
		log.Action = AuditAction(action)
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &log.Changes); err != nil {
				return nil, fmt.Errorf("failed to decode changes of %s: %w", log.ID, err)
			}
			if len(log.Changes) == 0 {
				log.Changes = nil
			}
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// EnsureIndexes is a no-op; the indexes are part of the schema
func (r *PostgresAuditRepository) EnsureIndexes(context.Context) error {
	return nil
}
